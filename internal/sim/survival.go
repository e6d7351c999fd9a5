package sim

import "time"

// SurvivalScanner runs the per-tick connectivity scan for each faction and
// drives the CONNECTED → ISOLATED → DEAD state machine. Nodes unreachable
// from their Drop-Pod are stamped with an isolation time and removed once
// that wall-clock age crosses the death threshold; reconnecting at any point
// before that is a full recovery.
type SurvivalScanner struct {
	cfg    *Tuning
	store  *Store
	events *EventLog
}

// NewSurvivalScanner creates a scanner over the given store.
func NewSurvivalScanner(cfg *Tuning, store *Store, events *EventLog) *SurvivalScanner {
	return &SurvivalScanner{cfg: cfg, store: store, events: events}
}

// Scan runs one connectivity pass for the owner. The death check compares
// elapsed wall time against the threshold, so a dropped tick can never let a
// node outlive its isolation window.
func (sc *SurvivalScanner) Scan(o Owner, now time.Time) {
	reachable := sc.reachableSet(o)

	var dead []string
	for _, n := range sc.store.NodesByOwner(o) {
		if n.IsolationImmune() {
			// Drop-Pods and fortresses never isolate, whatever the graph says.
			n.Isolated = false
			n.IsolatedSince = time.Time{}
			continue
		}

		if reachable[n.ID] {
			if n.Isolated {
				n.Isolated = false
				n.IsolatedSince = time.Time{}
				sc.events.Publish(Event{
					Kind: EventNodeReconnected, Owner: o, NodeID: n.ID,
					X: n.X, Y: n.Y, At: now,
				})
			}
			continue
		}

		if !n.Isolated {
			n.Isolated = true
			n.IsolatedSince = now
			sc.events.Publish(Event{
				Kind: EventNodeIsolated, Owner: o, NodeID: n.ID,
				X: n.X, Y: n.Y, At: now,
			})
			continue
		}

		if now.Sub(n.IsolatedSince) >= sc.cfg.IsolationDeathTime {
			dead = append(dead, n.ID)
		}
	}

	// Removals happen after the scan so the store is never mutated mid-BFS.
	for _, id := range dead {
		sc.store.RemoveNode(id, now, "isolation timeout")
	}
}

// reachableSet collects the ids reachable from the owner's Drop-Pod over
// same-owner connections. A missing Drop-Pod yields an empty set. Dangling
// neighbour ids are treated as "edge does not exist".
func (sc *SurvivalScanner) reachableSet(o Owner) map[string]bool {
	reachable := make(map[string]bool)
	pod := sc.store.DropPod(o)
	if pod == nil {
		return reachable
	}
	visited := map[string]bool{pod.ID: true}
	reachable[pod.ID] = true
	queue := []string{pod.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := sc.store.NodeByID(id)
		if n == nil {
			continue
		}
		for _, nb := range n.Connections {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			other := sc.store.NodeByID(nb)
			if other == nil || other.Owner != o {
				continue
			}
			reachable[nb] = true
			queue = append(queue, nb)
		}
	}
	return reachable
}
