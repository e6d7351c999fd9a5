package sim

import (
	"math/rand"
	"testing"
	"time"
)

// --- Invariant helpers ---

// checkReachabilityInvariant verifies that every non-immune node whose
// isolated flag is clear is actually reachable from its Drop-Pod. Runs a
// fresh scan first so the check reflects scan-time state, not nodes placed
// later in the same tick.
func checkReachabilityInvariant(t *testing.T, ts *TestSim) {
	t.Helper()
	for o := Owner(0); o < ownerCount; o++ {
		ts.Scanner.Scan(o, ts.Clock)
		hops := ts.Field.HopDistances(o)
		for _, n := range ts.Store.NodesByOwner(o) {
			if n.IsolationImmune() || n.Isolated {
				continue
			}
			if _, ok := hops[n.ID]; !ok {
				t.Errorf("%s node %s is marked connected but unreachable from the Drop-Pod", o, n.ID)
			}
		}
	}
}

// checkConnectionsOwnerHomogeneous verifies no mesh edge crosses factions
// and no edge points at a missing node id that a removal should have pruned.
func checkConnectionsOwnerHomogeneous(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, n := range ts.Store.AllNodes() {
		for _, id := range n.Connections {
			other := ts.Store.NodeByID(id)
			if other == nil {
				t.Errorf("node %s holds a dangling connection %q after store removals", n.ID, id)
				continue
			}
			if other.Owner != n.Owner {
				t.Errorf("mesh edge %s—%s crosses factions (%s vs %s)", n.ID, id, n.Owner, other.Owner)
			}
		}
	}
}

// checkScoresBounded verifies saturation and territory stay inside [0, 1].
func checkScoresBounded(t *testing.T, ts *TestSim) {
	t.Helper()
	for o := Owner(0); o < ownerCount; o++ {
		if sat := ts.Territory.Saturation(o); sat < 0 || sat > 1 {
			t.Errorf("%s saturation %.4f out of [0,1]", o, sat)
		}
	}
	p, e := ts.Territory.Percentages()
	if p < 0 || e < 0 || p+e > 1 {
		t.Errorf("territory fractions player=%.4f enemy=%.4f out of bounds", p, e)
	}
}

// isolationWatch records isolation timestamps per node from the event
// stream and fails if a node is destroyed early or destroyed while a
// reconnection intervened.
type isolationWatch struct {
	t          *testing.T
	deathTime  time.Duration
	isolatedAt map[string]time.Time
}

func newIsolationWatch(t *testing.T, ts *TestSim) *isolationWatch {
	w := &isolationWatch{
		t:          t,
		deathTime:  ts.Tuning().IsolationDeathTime,
		isolatedAt: make(map[string]time.Time),
	}
	ts.Events.Subscribe(func(e Event) {
		switch e.Kind {
		case EventNodeIsolated:
			w.isolatedAt[e.NodeID] = e.At
		case EventNodeReconnected:
			delete(w.isolatedAt, e.NodeID)
		case EventNodeDestroyed:
			since, ok := w.isolatedAt[e.NodeID]
			if !ok {
				w.t.Errorf("node %s destroyed without a standing isolation", e.NodeID)
				return
			}
			if age := e.At.Sub(since); age < w.deathTime {
				w.t.Errorf("node %s destroyed after only %v of isolation, threshold is %v",
					e.NodeID, age, w.deathTime)
			}
			delete(w.isolatedAt, e.NodeID)
		}
	})
	return w
}

// --- Invariant test scenarios ---

func TestInvariant_ReachabilityAfterChurn(t *testing.T) {
	ts := NewTestSim(WithSeed(42))
	rng := rand.New(rand.NewSource(42)) // #nosec G404 -- test fixture
	pod := ts.Store.DropPod(OwnerPlayer)

	for step := 0; step < 40; step++ {
		ts.RunTicks(25)
		// Player keeps expanding from random live nodes.
		own := ts.Store.NodesByOwner(OwnerPlayer)
		src := own[rng.Intn(len(own))]
		angle := rng.Float64() * 6.28
		ts.Place(src.X+90*float64(rng.Intn(2)*2-1), src.Y+90*angle/6.28, NodeDefault, ts.Clock)
		// And occasionally loses one to sabotage, cutting chains mid-span.
		if step%5 == 4 {
			if victims := MostVulnerable(ts.Store.NodesByOwner(OwnerPlayer), 3); len(victims) > 0 {
				ts.Sabotage(victims[len(victims)-1].ID, ts.Clock)
			}
		}
	}

	checkReachabilityInvariant(t, ts)
	checkConnectionsOwnerHomogeneous(t, ts)
	checkScoresBounded(t, ts)
	if ts.Store.DropPod(OwnerPlayer) != pod {
		t.Error("player Drop-Pod identity changed during the match")
	}
}

func TestInvariant_IsolationMonotonicity_LongRun(t *testing.T) {
	ts := NewTestSim(WithSeed(9))
	newIsolationWatch(t, ts)
	rng := rand.New(rand.NewSource(9)) // #nosec G404 -- test fixture

	for step := 0; step < 30; step++ {
		ts.RunFor(time.Second)
		own := ts.Store.NodesByOwner(OwnerPlayer)
		src := own[rng.Intn(len(own))]
		ts.Place(src.X+80, src.Y+20*float64(step%3), NodeDefault, ts.Clock)
		// Periodic sabotage near the middle of the network creates real
		// isolation chains that must age out correctly.
		if step%4 == 3 {
			if victims := MostVulnerable(own, 3); len(victims) > 0 {
				ts.Sabotage(victims[rng.Intn(len(victims))].ID, ts.Clock)
			}
		}
	}
	ts.RunFor(ts.Tuning().IsolationDeathTime + 2*time.Second)

	checkReachabilityInvariant(t, ts)
	checkScoresBounded(t, ts)
}

func TestInvariant_DualVictoryMetricsIndependent(t *testing.T) {
	ts := NewTestSim(WithoutAI())
	ts.RunTicks(10)

	out := ts.Outcome()
	if out.Result != ResultOngoing {
		t.Fatalf("fresh match ended immediately: %s", out.Description())
	}
	// Both metrics are computed every tick even while neither threshold is
	// crossed; they never alias each other.
	p, _ := ts.Territory.Percentages()
	sat := ts.Territory.Saturation(OwnerPlayer)
	if p == sat {
		t.Logf("territory %.4f equals saturation %.4f by coincidence", p, sat)
	}
	if p < 0 || p > 1 || sat < 0 || sat > 1 {
		t.Errorf("metrics out of bounds: territory %.4f saturation %.4f", p, sat)
	}
}
