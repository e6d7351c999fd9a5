package sim

import (
	"testing"
)

func TestClassify_SingleCoverageWinsRegardlessOfDistance(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	pod := ts.Store.DropPod(OwnerPlayer)

	// Just inside player range, far outside enemy range.
	x, y := pod.X+80, pod.Y
	if !ts.Field.InRange(x, y, OwnerPlayer) || ts.Field.InRange(x, y, OwnerEnemy) {
		t.Fatal("fixture expects player-only coverage at the probe point")
	}
	if got := ts.Territory.Classify(x, y); got != ClaimPlayer {
		t.Errorf("player-only coverage classified as %s, want player", got)
	}
}

func TestClassify_ContestedGoesToCloserFaction(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	p := ts.AddNode(OwnerPlayer, 400, 270, NodeDefault)
	e := ts.AddNode(OwnerEnemy, 520, 270, NodeDefault)

	probe := 440.0 // 40px from player node, 80px from enemy node
	if !ts.Field.InRange(probe, 270, OwnerPlayer) || !ts.Field.InRange(probe, 270, OwnerEnemy) {
		t.Fatal("fixture expects both factions to cover the probe point")
	}
	if got := ts.Territory.Classify(probe, 270); got != ClaimPlayer {
		t.Errorf("contested point closer to player node %s classified as %s", p.ID, got)
	}

	probe = 495 // 95px from player node, 25px from enemy node
	if got := ts.Territory.Classify(probe, 270); got != ClaimEnemy {
		t.Errorf("contested point closer to enemy node %s classified as %s", e.ID, got)
	}
}

func TestClassify_NeutralOutsideAllRanges(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	// Plane centre is far from both corner Drop-Pods.
	if got := ts.Territory.Classify(480, 100); got != ClaimNeutral {
		t.Errorf("uncovered point classified as %s, want neutral", got)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	ts.AddNode(OwnerPlayer, 400, 270, NodeDefault)
	points := [][2]float64{{100, 100}, {400, 270}, {480, 270}, {900, 500}}
	for _, p := range points {
		first := ts.Territory.Classify(p[0], p[1])
		second := ts.Territory.Classify(p[0], p[1])
		if first != second {
			t.Errorf("classification at (%.0f,%.0f) changed with no state change: %s then %s",
				p[0], p[1], first, second)
		}
	}
}

func TestPercentages_BoundedAndResponsive(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	player0, enemy0 := ts.Territory.Percentages()
	if player0 <= 0 || enemy0 <= 0 {
		t.Error("both Drop-Pods should control some samples at game start")
	}
	if player0+enemy0 > 1 {
		t.Errorf("fractions sum to %.3f, cannot exceed 1", player0+enemy0)
	}

	// Growing the player network grows player territory.
	pod := ts.Store.DropPod(OwnerPlayer)
	for i := 1; i <= 4; i++ {
		ts.AddNode(OwnerPlayer, pod.X+float64(i)*100, pod.Y-float64(i)*40, NodeDefault)
	}
	player1, _ := ts.Territory.Percentages()
	if player1 <= player0 {
		t.Errorf("player territory should grow with the network: %.3f -> %.3f", player0, player1)
	}
}

func TestSaturation_BoundedAndCapped(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	sat := ts.Territory.Saturation(OwnerPlayer)
	if sat < 0 || sat > 1 {
		t.Errorf("saturation %.4f out of [0,1]", sat)
	}

	// A tiny plane forces the cap.
	cfg := DefaultTuning()
	cfg.PlaneWidth = 10
	cfg.PlaneHeight = 10
	store := NewStore(cfg, NewEventLog())
	field := NewSignalField(cfg, store)
	store.BindSignal(field)
	terr := NewTerritoryAnalyzer(cfg, store, field)
	store.CreateDropPod(5, 5, OwnerPlayer, ts.Clock)
	if got := terr.Saturation(OwnerPlayer); got != 1.0 {
		t.Errorf("saturation on a tiny plane = %.4f, want the cap 1.0", got)
	}
}

func TestHasReachedSaturation(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	if ts.Territory.HasReachedSaturation(OwnerPlayer) {
		t.Error("a lone Drop-Pod cannot have reached the saturation threshold")
	}

	cfg := DefaultTuning()
	cfg.PlaneWidth = 40
	cfg.PlaneHeight = 40
	cfg.SaturationWinRatio = 0.5
	store := NewStore(cfg, NewEventLog())
	field := NewSignalField(cfg, store)
	store.BindSignal(field)
	terr := NewTerritoryAnalyzer(cfg, store, field)
	store.CreateDropPod(20, 20, OwnerPlayer, ts.Clock)
	if !terr.HasReachedSaturation(OwnerPlayer) {
		t.Error("Drop-Pod area exceeds half the tiny plane; threshold should be reached")
	}
}
