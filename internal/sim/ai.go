package sim

import (
	"math"
	"math/rand"
	"time"
)

// ThinkResult says what an AI think cycle did. Skips are normal outcomes —
// the loop just waits for the next due cycle.
type ThinkResult uint8

const (
	ThinkIdle ThinkResult = iota // not due yet (startup or action delay)
	ThinkPlaced
	ThinkSkipNoDropPod
	ThinkSkipNoSource   // no own node within effective range of the target
	ThinkSkipOutOfBounds
	ThinkSkipRejected // store vetoed the placement (range/cost)
)

func (r ThinkResult) String() string {
	switch r {
	case ThinkIdle:
		return "idle"
	case ThinkPlaced:
		return "placed"
	case ThinkSkipNoDropPod:
		return "skip_no_drop_pod"
	case ThinkSkipNoSource:
		return "skip_no_source"
	case ThinkSkipOutOfBounds:
		return "skip_out_of_bounds"
	case ThinkSkipRejected:
		return "skip_rejected"
	default:
		return "unknown"
	}
}

// Node type mix for AI placements.
const (
	aiAmplifierChance = 0.12
	aiFortressChance  = 0.08
)

// AIController is the adversary's decision loop. It self-throttles against
// wall-clock time rather than running every frame: a fixed startup delay
// after activation, then one placement per action-delay window, the window
// shrinking as the player's saturation climbs. It reads the same derived
// signals as the player and places through the same store validation.
type AIController struct {
	cfg   *Tuning
	store *Store
	field *SignalField
	rng   *rand.Rand

	owner Owner

	active      bool
	activatedAt time.Time
	lastAction  time.Time
}

// NewAIController creates a controller for the given faction. Signal physics
// and the store are injected so there is no hidden coupling between the
// subsystems.
func NewAIController(cfg *Tuning, store *Store, field *SignalField, owner Owner, seed int64) *AIController {
	return &AIController{
		cfg:   cfg,
		store: store,
		field: field,
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay randomness
		owner: owner,
	}
}

// Activate arms the controller. Thinking starts after the startup delay.
func (ai *AIController) Activate(now time.Time) {
	ai.active = true
	ai.activatedAt = now
}

// Active reports whether the controller has been armed.
func (ai *AIController) Active() bool {
	return ai.active
}

// Think runs one decision cycle if one is due. playerSaturation is the
// opposing faction's current area saturation; it drives both the think
// cadence and the target mode. Returns the placed node on success.
func (ai *AIController) Think(now time.Time, playerSaturation float64) (ThinkResult, *Node) {
	if !ai.active || now.Sub(ai.activatedAt) < ai.cfg.AIStartupDelay {
		return ThinkIdle, nil
	}
	if !ai.lastAction.IsZero() && now.Sub(ai.lastAction) < ActionDelay(ai.cfg, playerSaturation) {
		return ThinkIdle, nil
	}
	if ai.store.DropPod(ai.owner) == nil {
		return ThinkSkipNoDropPod, nil
	}

	tx, ty := ai.pickTarget(playerSaturation)

	// Clamp the point to our effective range from the nearest own node.
	src := ai.store.ClosestAlly(tx, ty, ai.owner)
	if src == nil {
		return ThinkSkipNoSource, nil
	}
	reach := ai.field.EffectiveRange(ai.owner, tx, ty)
	if d := math.Hypot(tx-src.X, ty-src.Y); d > reach {
		scale := reach * 0.95 / d
		tx = src.X + (tx-src.X)*scale
		ty = src.Y + (ty-src.Y)*scale
	}
	if tx < 0 || ty < 0 || tx > ai.cfg.PlaneWidth || ty > ai.cfg.PlaneHeight {
		return ThinkSkipOutOfBounds, nil
	}

	n := ai.store.CreateNode(tx, ty, ai.owner, ai.pickType(), now)
	if n == nil {
		return ThinkSkipRejected, nil
	}
	ai.lastAction = now
	return ThinkPlaced, n
}

// pickTarget chooses where to aim this cycle: near the most vulnerable
// opposing node when the player is past the aggression threshold, otherwise
// toward the nearest opposing node with angular jitter, or a fully random
// direction when no opposing node exists.
func (ai *AIController) pickTarget(playerSaturation float64) (float64, float64) {
	opp := ai.store.NodesByOwner(ai.owner.Opponent())

	if playerSaturation >= ai.cfg.AggressionThreshold {
		if targets := MostVulnerable(opp, ai.cfg.AIVulnerableTopK); len(targets) > 0 {
			t := targets[ai.rng.Intn(len(targets))]
			angle := ai.rng.Float64() * 2 * math.Pi
			band := ai.cfg.AIAttackOffsetMax - ai.cfg.AIAttackOffsetMin
			dist := ai.cfg.AIAttackOffsetMin + ai.rng.Float64()*band
			return t.X + math.Cos(angle)*dist, t.Y + math.Sin(angle)*dist
		}
	}

	pod := ai.store.DropPod(ai.owner)
	if len(opp) > 0 {
		// Expansion: push from our closest node toward the nearest opposing
		// node, with a perturbed heading so the front stays ragged.
		target := ai.store.ClosestAlly(pod.X, pod.Y, ai.owner.Opponent())
		src := ai.store.ClosestAlly(target.X, target.Y, ai.owner)
		if src == nil {
			src = pod
		}
		angle := math.Atan2(target.Y-src.Y, target.X-src.X)
		angle += (ai.rng.Float64() - 0.5) * ai.cfg.AIExpandJitter
		dist := math.Hypot(target.X-src.X, target.Y-src.Y)
		return src.X + math.Cos(angle)*dist, src.Y + math.Sin(angle)*dist
	}

	// Nothing visible: strike out in a random direction from the Drop-Pod.
	angle := ai.rng.Float64() * 2 * math.Pi
	dist := ai.field.EffectiveRange(ai.owner, pod.X, pod.Y) * (0.5 + 0.5*ai.rng.Float64())
	return pod.X + math.Cos(angle)*dist, pod.Y + math.Sin(angle)*dist
}

func (ai *AIController) pickType() NodeType {
	roll := ai.rng.Float64()
	switch {
	case roll < aiAmplifierChance:
		return NodeAmplifier
	case roll < aiAmplifierChance+aiFortressChance:
		return NodeFortress
	default:
		return NodeDefault
	}
}
