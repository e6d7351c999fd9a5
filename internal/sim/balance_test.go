package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionDelay_BelowThresholdIsBaseDelay(t *testing.T) {
	cfg := DefaultTuning()
	for _, sat := range []float64{0, 0.1, cfg.AggressionThreshold - 0.01} {
		assert.Equal(t, cfg.AIBaseDelay, ActionDelay(cfg, sat),
			"saturation %.2f is below the aggression threshold", sat)
		assert.Zero(t, RangeBonus(cfg, sat),
			"range bonus at saturation %.2f should be zero", sat)
	}
}

func TestActionDelay_InterpolatesDownToMin(t *testing.T) {
	cfg := DefaultTuning()

	assert.Equal(t, cfg.AIMinDelay, ActionDelay(cfg, 1.0))

	mid := cfg.AggressionThreshold + (1.0-cfg.AggressionThreshold)/2
	want := time.Duration((float64(cfg.AIBaseDelay) + float64(cfg.AIMinDelay)) / 2)
	assert.InDelta(t, float64(want), float64(ActionDelay(cfg, mid)), float64(time.Millisecond))

	// Monotone non-increasing across the whole range.
	prev := ActionDelay(cfg, 0)
	for sat := 0.05; sat <= 1.0; sat += 0.05 {
		cur := ActionDelay(cfg, sat)
		assert.LessOrEqual(t, cur, prev, "delay must not grow with saturation")
		prev = cur
	}
}

func TestRangeBonus_InterpolatesUpToCap(t *testing.T) {
	cfg := DefaultTuning()

	assert.Equal(t, cfg.AIMaxRangeBonus, RangeBonus(cfg, 1.0))

	mid := cfg.AggressionThreshold + (1.0-cfg.AggressionThreshold)/2
	assert.InDelta(t, cfg.AIMaxRangeBonus/2, RangeBonus(cfg, mid), 1e-9)

	// Out-of-range inputs are clamped, not extrapolated.
	assert.Zero(t, RangeBonus(cfg, -3))
	assert.Equal(t, cfg.AIMaxRangeBonus, RangeBonus(cfg, 4))
}

func TestVulnerability_InverseOfDegree(t *testing.T) {
	lone := &Node{ID: "a"}
	hub := &Node{ID: "b", Connections: []string{"x", "y", "z"}}
	assert.Equal(t, 1.0, Vulnerability(lone))
	assert.Equal(t, 0.25, Vulnerability(hub))
}

func TestMostVulnerable_RanksAndExcludesDropPods(t *testing.T) {
	pod := &Node{ID: "pod", Type: NodeDropPod}
	leaf := &Node{ID: "leaf"}
	spur := &Node{ID: "spur", Connections: []string{"a"}}
	hub := &Node{ID: "hub", Connections: []string{"a", "b", "c", "d"}}

	got := MostVulnerable([]*Node{hub, pod, spur, leaf}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "leaf", got[0].ID, "the unmeshed leaf is the most vulnerable")
	assert.Equal(t, "spur", got[1].ID)
	for _, n := range got {
		assert.False(t, n.IsDropPod(), "Drop-Pods are never ranked as targets")
	}
}

func TestMostVulnerable_TiesKeepInputOrder(t *testing.T) {
	a := &Node{ID: "a"}
	b := &Node{ID: "b"}
	got := MostVulnerable([]*Node{a, b}, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}
