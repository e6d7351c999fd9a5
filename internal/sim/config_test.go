package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuningIsSane(t *testing.T) {
	cfg := DefaultTuning()

	assert.Greater(t, cfg.PlaneWidth, 0.0)
	assert.Greater(t, cfg.PlaneHeight, 0.0)
	assert.Greater(t, cfg.MaxSignalRange, cfg.BaseSignalRange,
		"the range cap must leave headroom above the base range")
	assert.GreaterOrEqual(t, cfg.MeshConnectRadius, cfg.BaseSignalRange,
		"a freshly placed node must always reach its mesh")
	assert.Less(t, cfg.AIMinDelay, cfg.AIBaseDelay)
	assert.InDelta(t, 0.5, cfg.TerritoryWinRatio, 0.5)
	assert.InDelta(t, 0.5, cfg.SaturationWinRatio, 0.5)
	assert.LessOrEqual(t, cfg.AIAttackOffsetMin, cfg.AIAttackOffsetMax)
	assert.GreaterOrEqual(t, cfg.EnergyMax, cfg.FortressCost,
		"every node type must be affordable at full energy")
	assert.Positive(t, cfg.AIVulnerableTopK)
}

func TestLoadTuningAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	doc := `
base_signal_range: 200
max_signal_range: 500
isolation_death_time_ms: 2500
ai_base_delay_ms: 1500
territory_win_ratio: 0.6
ai_vulnerable_top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := LoadTuning(path)
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.BaseSignalRange)
	assert.Equal(t, 500.0, cfg.MaxSignalRange)
	assert.Equal(t, 2500*time.Millisecond, cfg.IsolationDeathTime)
	assert.Equal(t, 1500*time.Millisecond, cfg.AIBaseDelay)
	assert.Equal(t, 0.6, cfg.TerritoryWinRatio)
	assert.Equal(t, 5, cfg.AIVulnerableTopK)

	// Everything not named in the file keeps its default.
	def := DefaultTuning()
	assert.Equal(t, def.PerNodeRangeBonus, cfg.PerNodeRangeBonus)
	assert.Equal(t, def.AIMinDelay, cfg.AIMinDelay)
	assert.Equal(t, def.NodeCost, cfg.NodeCost)
}

func TestLoadTuningErrors(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("base_signal_range: [not, a, number]"), 0o600))
	_, err = LoadTuning(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse tuning file")
}

func TestNodeTypeCost(t *testing.T) {
	cfg := DefaultTuning()
	assert.Equal(t, cfg.NodeCost, cfg.NodeTypeCost(NodeDefault))
	assert.Equal(t, cfg.AmplifierCost, cfg.NodeTypeCost(NodeAmplifier))
	assert.Equal(t, cfg.FortressCost, cfg.NodeTypeCost(NodeFortress))
	assert.Zero(t, cfg.NodeTypeCost(NodeDropPod))
}
