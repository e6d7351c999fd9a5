package main

import (
	"testing"

	"github.com/Vandanael/chroma-control-sub000/internal/sim"
)

func TestMedianInt(t *testing.T) {
	if got := medianInt(nil); got != -1 {
		t.Fatalf("empty input should report -1, got %d", got)
	}
	if got := medianInt([]int{7}); got != 7 {
		t.Fatalf("single value median, got %d", got)
	}
	if got := medianInt([]int{30, 10, 20}); got != 20 {
		t.Fatalf("odd-count median should be 20, got %d", got)
	}
	if got := medianInt([]int{40, 10, 30, 20}); got != 30 {
		t.Fatalf("even-count median takes the upper middle, got %d", got)
	}
}

func TestLostTotal(t *testing.T) {
	fs := sim.FactionStats{LostToIsolation: 3, LostToSabotage: 2}
	if got := lostTotal(fs); got != 5 {
		t.Fatalf("expected 5 total losses, got %d", got)
	}
}

func TestScriptedMoveExtendsTowardOpponent(t *testing.T) {
	ts := sim.NewTestSim(sim.WithoutAI())
	podP := ts.Store.DropPod(sim.OwnerPlayer)
	podE := ts.Store.DropPod(sim.OwnerEnemy)
	ts.RunTicks(1)

	before := ts.Store.Count(sim.OwnerPlayer)
	scriptedMove(ts)
	if got := ts.Store.Count(sim.OwnerPlayer); got != before+1 {
		t.Fatalf("scripted move should have placed a node, count %d -> %d", before, got)
	}

	var placed *sim.Node
	for _, n := range ts.Store.NodesByOwner(sim.OwnerPlayer) {
		if !n.IsDropPod() {
			placed = n
		}
	}
	if placed == nil {
		t.Fatal("no placed node found")
	}
	if distSq(placed.X, placed.Y, podE.X, podE.Y) >= distSq(podP.X, podP.Y, podE.X, podE.Y) {
		t.Errorf("scripted node should sit closer to the opposing pod than its own")
	}
}

func distSq(ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	return dx*dx + dy*dy
}
