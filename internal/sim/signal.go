package sim

import "math"

// SignalField derives how far each faction's influence reaches and how node
// and link visuals fade with topological distance from the Drop-Pod. Pure
// reads over the store; no caching across ticks.
type SignalField struct {
	cfg   *Tuning
	store *Store

	// externalBonus is a per-faction range addition granted by an outside
	// system (the adaptive AI under pressure). Applied before the global cap.
	externalBonus [ownerCount]float64
}

// NewSignalField creates a field over the given store.
func NewSignalField(cfg *Tuning, store *Store) *SignalField {
	return &SignalField{cfg: cfg, store: store}
}

// SetExternalBonus sets the faction's externally granted range bonus in px.
func (f *SignalField) SetExternalBonus(o Owner, px float64) {
	f.externalBonus[o] = px
}

// MeshDensity is the faction's average connection count per node, normalised
// by the max-density constant and clamped to [0, 1]. Zero nodes → 0.
func (f *SignalField) MeshDensity(o Owner) float64 {
	nodes := f.store.NodesByOwner(o)
	if len(nodes) == 0 {
		return 0
	}
	total := 0
	for _, n := range nodes {
		total += n.Degree()
	}
	avg := float64(total) / float64(len(nodes))
	return clamp01(avg / f.cfg.MaxMeshDensity)
}

// SignalRange is the faction's current maximum reach before positional
// bonuses: base + nodeCount×perNode + density^exponent×maxPressure, capped.
// Dense meshes are rewarded superlinearly over sparse sprawl.
func (f *SignalField) SignalRange(o Owner) float64 {
	count := f.store.Count(o)
	pressure := math.Pow(f.MeshDensity(o), f.cfg.PressureExponent) * f.cfg.MaxPressureBonus
	r := f.cfg.BaseSignalRange + float64(count)*f.cfg.PerNodeRangeBonus + pressure + f.externalBonus[o]
	return math.Min(r, f.cfg.MaxSignalRange)
}

// PositionalBonus sums amplifier bonuses from the faction's amplifier nodes
// within the search radius of (x, y). Additive; only the global max range
// caps it downstream.
func (f *SignalField) PositionalBonus(o Owner, x, y float64) float64 {
	bonus := 0.0
	for _, n := range f.store.NodesByOwner(o) {
		if n.Type != NodeAmplifier {
			continue
		}
		if math.Hypot(n.X-x, n.Y-y) <= f.cfg.AmplifierSearchRadius {
			bonus += f.cfg.AmplifierBonus
		}
	}
	return bonus
}

// EffectiveRange is the faction's reach at a specific point: signal range
// plus the positional bonus there, capped at the configured maximum.
func (f *SignalField) EffectiveRange(o Owner, x, y float64) float64 {
	return math.Min(f.SignalRange(o)+f.PositionalBonus(o, x, y), f.cfg.MaxSignalRange)
}

// InRange reports whether any node of the faction reaches (x, y).
func (f *SignalField) InRange(x, y float64, o Owner) bool {
	reach := f.EffectiveRange(o, x, y)
	for _, n := range f.store.NodesByOwner(o) {
		if math.Hypot(n.X-x, n.Y-y) <= reach {
			return true
		}
	}
	return false
}

// unreachableHops marks a node the BFS never reached.
const unreachableHops = -1

// HopDistances runs a shortest-hop-count search from the owner's Drop-Pod
// along mesh connections. Hop count, not Euclidean distance. Nodes absent
// from the result were unreachable; dangling neighbour ids are skipped.
func (f *SignalField) HopDistances(o Owner) map[string]int {
	hops := make(map[string]int)
	pod := f.store.DropPod(o)
	if pod == nil {
		return hops
	}
	hops[pod.ID] = 0
	queue := []string{pod.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := f.store.NodeByID(id)
		if n == nil {
			continue
		}
		for _, nb := range n.Connections {
			other := f.store.NodeByID(nb)
			if other == nil || other.Owner != o {
				continue
			}
			if _, seen := hops[nb]; seen {
				continue
			}
			hops[nb] = hops[id] + 1
			queue = append(queue, nb)
		}
	}
	return hops
}

// NodeOpacity returns the render opacity for a node given precomputed hop
// distances: 1 − hops×attenuation, floored at the isolated minimum.
// Drop-Pods are always full opacity; unreachable nodes sit at the floor.
func (f *SignalField) NodeOpacity(n *Node, hops map[string]int) float64 {
	if n.IsDropPod() {
		return 1.0
	}
	h, ok := hops[n.ID]
	if !ok || h == unreachableHops {
		return f.cfg.MinIsolatedOpacity
	}
	return math.Max(f.cfg.MinIsolatedOpacity, 1.0-float64(h)*f.cfg.AttenuationRate)
}

// LinkThickness returns the render thickness of the link between two nodes:
// base power scaled by the average endpoint opacity, floored at the minimum.
func (f *SignalField) LinkThickness(a, b *Node, hops map[string]int) float64 {
	avg := (f.NodeOpacity(a, hops) + f.NodeOpacity(b, hops)) / 2.0
	return math.Max(f.cfg.MinLinkThickness, f.cfg.BaseLinkPower*avg)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
