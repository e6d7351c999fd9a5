package sim

import (
	"math"
	"time"
)

// RangeSource is the slice of Signal Physics the store needs for placement
// validation. Injected after construction to break the store↔physics cycle.
type RangeSource interface {
	// EffectiveRange returns the faction's reach at (x, y): current signal
	// range plus any positional bonus, capped at the configured maximum.
	EffectiveRange(o Owner, x, y float64) float64
}

// Store owns the live node graph for both factions: node CRUD, the auto-mesh,
// the per-faction Drop-Pod, and the energy budget. All other components
// derive their state from it each tick and never cache across ticks.
type Store struct {
	cfg    *Tuning
	events *EventLog
	signal RangeSource

	nodes  map[string]*Node
	order  []string // insertion order, for deterministic iteration
	pods   [ownerCount]string
	energy [ownerCount]float64
}

// NewStore creates an empty store with full energy for both factions.
func NewStore(cfg *Tuning, events *EventLog) *Store {
	s := &Store{
		cfg:    cfg,
		events: events,
		nodes:  make(map[string]*Node),
	}
	for o := Owner(0); o < ownerCount; o++ {
		s.energy[o] = cfg.EnergyMax
	}
	return s
}

// BindSignal injects the range source used by placement validation.
func (s *Store) BindSignal(rs RangeSource) {
	s.signal = rs
}

// CreateDropPod places a faction's root node. Exactly one per owner; a second
// call for the same owner returns nil.
func (s *Store) CreateDropPod(x, y float64, owner Owner, now time.Time) *Node {
	if s.pods[owner] != "" {
		return nil
	}
	n := newNode(x, y, owner, NodeDropPod, now)
	n.Power = 3
	s.insert(n)
	s.pods[owner] = n.ID
	return n
}

// CreateNode validates and places a node, auto-linking it to every ally node
// within the mesh-connection radius. Returns nil when the position is out of
// bounds, no ally node is within the owner's effective signal range of it, or
// the faction cannot afford the node type. A nil return is a normal no-op,
// not an error.
func (s *Store) CreateNode(x, y float64, owner Owner, typ NodeType, now time.Time) *Node {
	if typ == NodeDropPod {
		return nil // Drop-Pods go through CreateDropPod at game start
	}
	if x < 0 || y < 0 || x > s.cfg.PlaneWidth || y > s.cfg.PlaneHeight {
		return nil
	}
	closest := s.ClosestAlly(x, y, owner)
	if closest == nil {
		return nil
	}
	reach := s.cfg.BaseSignalRange
	if s.signal != nil {
		reach = s.signal.EffectiveRange(owner, x, y)
	}
	if math.Hypot(closest.X-x, closest.Y-y) > reach {
		return nil
	}
	cost := s.cfg.NodeTypeCost(typ)
	if s.energy[owner] < cost {
		return nil
	}
	s.energy[owner] -= cost

	n := newNode(x, y, owner, typ, now)
	s.insert(n)
	s.autoMesh(n)

	s.events.Publish(Event{
		Kind: EventNodePlaced, Owner: owner, NodeID: n.ID,
		X: x, Y: y, At: now, Detail: typ.String(),
	})
	return n
}

// autoMesh links n symmetrically to all ally nodes within the mesh radius.
func (s *Store) autoMesh(n *Node) {
	for _, id := range s.order {
		other := s.nodes[id]
		if other == nil || other.ID == n.ID || other.Owner != n.Owner {
			continue
		}
		if math.Hypot(other.X-n.X, other.Y-n.Y) <= s.cfg.MeshConnectRadius {
			n.addConnection(other.ID)
			other.addConnection(n.ID)
		}
	}
}

// RemoveNode deletes a node and strips it from every neighbour's connection
// list; it never leaves a dangling id behind. Drop-Pods are not removable
// here — only Clear takes them out.
func (s *Store) RemoveNode(id string, now time.Time, reason string) bool {
	n := s.nodes[id]
	if n == nil || n.IsDropPod() {
		return false
	}
	s.delete(n)
	s.events.Publish(Event{
		Kind: EventNodeDestroyed, Owner: n.Owner, NodeID: n.ID,
		X: n.X, Y: n.Y, At: now, Detail: reason,
	})
	return true
}

// SabotageNode destroys an enemy node by direct attack. Drop-Pods resist
// sabotage.
func (s *Store) SabotageNode(id string, now time.Time) bool {
	n := s.nodes[id]
	if n == nil || n.IsDropPod() {
		return false
	}
	s.delete(n)
	s.events.Publish(Event{
		Kind: EventNodeSabotaged, Owner: n.Owner, NodeID: n.ID,
		X: n.X, Y: n.Y, At: now,
	})
	return true
}

func (s *Store) insert(n *Node) {
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
}

func (s *Store) delete(n *Node) {
	delete(s.nodes, n.ID)
	for i, id := range s.order {
		if id == n.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, c := range n.Connections {
		if other := s.nodes[c]; other != nil {
			other.removeConnection(n.ID)
		}
	}
}

// NodeByID resolves an id, returning nil if the node no longer exists.
func (s *Store) NodeByID(id string) *Node {
	return s.nodes[id]
}

// AllNodes returns every live node in insertion order.
func (s *Store) AllNodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// NodesByOwner returns a faction's nodes in insertion order.
func (s *Store) NodesByOwner(o Owner) []*Node {
	var out []*Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Owner == o {
			out = append(out, n)
		}
	}
	return out
}

// Count returns a faction's node count.
func (s *Store) Count(o Owner) int {
	c := 0
	for _, id := range s.order {
		if s.nodes[id].Owner == o {
			c++
		}
	}
	return c
}

// DropPod returns a faction's root node, or nil before game start.
func (s *Store) DropPod(o Owner) *Node {
	return s.nodes[s.pods[o]]
}

// ClosestAlly returns the nearest node of the given owner to (x, y).
func (s *Store) ClosestAlly(x, y float64, owner Owner) *Node {
	var best *Node
	bestDist := math.MaxFloat64
	for _, id := range s.order {
		n := s.nodes[id]
		if n.Owner != owner {
			continue
		}
		d := math.Hypot(n.X-x, n.Y-y)
		if d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}

// Energy returns a faction's current energy.
func (s *Store) Energy(o Owner) float64 {
	return s.energy[o]
}

// RegenEnergy adds dt worth of energy to both factions, capped at the max.
func (s *Store) RegenEnergy(dt time.Duration) {
	gain := s.cfg.EnergyRegenPerSec * dt.Seconds()
	for o := Owner(0); o < ownerCount; o++ {
		s.energy[o] = math.Min(s.cfg.EnergyMax, s.energy[o]+gain)
	}
}

// Clear empties the store for a game-over reset. Drop-Pods go too.
func (s *Store) Clear() {
	s.nodes = make(map[string]*Node)
	s.order = s.order[:0]
	for o := Owner(0); o < ownerCount; o++ {
		s.pods[o] = ""
		s.energy[o] = s.cfg.EnergyMax
	}
}
