package sim

import "math"

// Claim classifies one sampled plane coordinate.
type Claim uint8

const (
	ClaimNeutral Claim = iota
	ClaimPlayer
	ClaimEnemy
)

func (c Claim) String() string {
	switch c {
	case ClaimPlayer:
		return "player"
	case ClaimEnemy:
		return "enemy"
	case ClaimNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// TerritoryAnalyzer scores spatial control: per-point classification, the
// grid-sampled territory percentage, and the area-based saturation metric.
// The two percentages are distinct victory metrics and are evaluated
// independently.
type TerritoryAnalyzer struct {
	cfg   *Tuning
	store *Store
	field *SignalField
}

// NewTerritoryAnalyzer creates an analyzer over the given store and field.
func NewTerritoryAnalyzer(cfg *Tuning, store *Store, field *SignalField) *TerritoryAnalyzer {
	return &TerritoryAnalyzer{cfg: cfg, store: store, field: field}
}

// Classify returns which faction controls the point: the faction whose range
// covers it, the closer faction when both cover it, neutral when neither
// does. Pure function of current state; calling it twice without a state
// change yields the same result.
func (t *TerritoryAnalyzer) Classify(x, y float64) Claim {
	inPlayer := t.field.InRange(x, y, OwnerPlayer)
	inEnemy := t.field.InRange(x, y, OwnerEnemy)
	switch {
	case inPlayer && !inEnemy:
		return ClaimPlayer
	case inEnemy && !inPlayer:
		return ClaimEnemy
	case !inPlayer && !inEnemy:
		return ClaimNeutral
	}
	// Contested: the closer faction wins the point.
	if t.nearestNodeDist(x, y, OwnerPlayer) <= t.nearestNodeDist(x, y, OwnerEnemy) {
		return ClaimPlayer
	}
	return ClaimEnemy
}

func (t *TerritoryAnalyzer) nearestNodeDist(x, y float64, o Owner) float64 {
	n := t.store.ClosestAlly(x, y, o)
	if n == nil {
		return math.MaxFloat64
	}
	return math.Hypot(n.X-x, n.Y-y)
}

// Percentages samples the plane on a fixed grid and returns the fraction of
// samples controlled by each faction. Grid resolution is a tuning constant,
// independent of screen resolution; accuracy is bounded by it.
func (t *TerritoryAnalyzer) Percentages() (player, enemy float64) {
	step := t.cfg.TerritoryGridStep
	if step <= 0 {
		return 0, 0
	}
	samples, playerHits, enemyHits := 0, 0, 0
	for y := step / 2; y < t.cfg.PlaneHeight; y += step {
		for x := step / 2; x < t.cfg.PlaneWidth; x += step {
			samples++
			switch t.Classify(x, y) {
			case ClaimPlayer:
				playerHits++
			case ClaimEnemy:
				enemyHits++
			}
		}
	}
	if samples == 0 {
		return 0, 0
	}
	return float64(playerHits) / float64(samples), float64(enemyHits) / float64(samples)
}

// Saturation is the area-based metric: Σ π·r² over the faction's nodes
// divided by the plane area, capped at 1. Overlap is deliberately not
// deduplicated — this mirrors the sum the victory threshold was tuned
// against, not an exact covered-area integral.
func (t *TerritoryAnalyzer) Saturation(o Owner) float64 {
	area := 0.0
	for _, n := range t.store.NodesByOwner(o) {
		r := n.Radius(t.cfg)
		area += math.Pi * r * r
	}
	total := t.cfg.PlaneWidth * t.cfg.PlaneHeight
	if total <= 0 {
		return 0
	}
	return math.Min(1.0, area/total)
}

// HasReachedSaturation reports whether the faction crossed its saturation
// victory threshold.
func (t *TerritoryAnalyzer) HasReachedSaturation(o Owner) bool {
	return t.Saturation(o) >= t.cfg.SaturationWinRatio
}
