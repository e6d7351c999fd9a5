package sim

import (
	"sort"
	"time"
)

// Game balance: pure functions turning the player's saturation into AI
// parameters, and the vulnerability ranking the AI targets with. No state.

// ActionDelay maps player saturation to the AI think interval. Constant at
// the base delay below the aggression threshold, then linearly interpolated
// down to the minimum delay as saturation approaches 1.
func ActionDelay(cfg *Tuning, playerSaturation float64) time.Duration {
	sat := clamp01(playerSaturation)
	if sat < cfg.AggressionThreshold {
		return cfg.AIBaseDelay
	}
	span := 1.0 - cfg.AggressionThreshold
	if span <= 0 {
		return cfg.AIMinDelay
	}
	t := (sat - cfg.AggressionThreshold) / span
	base := float64(cfg.AIBaseDelay)
	min := float64(cfg.AIMinDelay)
	return time.Duration(base - (base-min)*t)
}

// RangeBonus maps player saturation to extra AI signal range in px: zero
// below the aggression threshold, linear up to the cap above it.
func RangeBonus(cfg *Tuning, playerSaturation float64) float64 {
	sat := clamp01(playerSaturation)
	if sat < cfg.AggressionThreshold {
		return 0
	}
	span := 1.0 - cfg.AggressionThreshold
	if span <= 0 {
		return cfg.AIMaxRangeBonus
	}
	return cfg.AIMaxRangeBonus * (sat - cfg.AggressionThreshold) / span
}

// Vulnerability scores a node by how weakly meshed it is: 1/(connections+1).
// A freshly sprawled leaf scores 1.0, a well-meshed hub approaches 0.
func Vulnerability(n *Node) float64 {
	return 1.0 / float64(n.Degree()+1)
}

// MostVulnerable ranks nodes descending by vulnerability, excluding
// Drop-Pods, and returns the top k. Ties keep input order.
func MostVulnerable(nodes []*Node, k int) []*Node {
	candidates := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsDropPod() {
			continue
		}
		candidates = append(candidates, n)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return Vulnerability(candidates[i]) > Vulnerability(candidates[j])
	})
	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
