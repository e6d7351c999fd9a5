package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds every balance constant of the simulation. Units are pixels,
// milliseconds (as time.Duration), or unitless ratios in [0, 1]. The frontend
// always runs DefaultTuning; the headless runner may load overrides from a
// YAML file for balance experiments.
type Tuning struct {
	// Plane dimensions in pixels.
	PlaneWidth  float64
	PlaneHeight float64

	// Signal range model.
	BaseSignalRange   float64 // px, range with zero nodes
	PerNodeRangeBonus float64 // px added per owned node
	MaxSignalRange    float64 // px, hard cap on effective range
	MaxMeshDensity    float64 // connections/node that counts as fully dense
	PressureExponent  float64 // unitless, superlinear density reward
	MaxPressureBonus  float64 // px at full mesh density

	// Amplifiers.
	AmplifierBonus        float64 // px added per amplifier in reach
	AmplifierSearchRadius float64 // px

	// Auto-mesh.
	MeshConnectRadius float64 // px, new nodes link to allies within this

	// Hop attenuation (rendering weights).
	AttenuationRate    float64 // opacity lost per hop from the Drop-Pod
	MinIsolatedOpacity float64 // opacity floor for unreachable nodes
	BaseLinkPower      float64 // px, link thickness at full opacity
	MinLinkThickness   float64 // px

	// Node influence radii.
	NodeRadius      float64 // px
	DropPodRadius   float64 // px
	AmplifierRadius float64 // px
	FortressRadius  float64 // px

	// Survival.
	IsolationDeathTime time.Duration // wall time from isolation to removal

	// Territory and victory.
	TerritoryGridStep  float64 // px between territory samples
	TerritoryWinRatio  float64 // [0,1] territory fraction that wins
	SaturationWinRatio float64 // [0,1] area saturation that wins
	MatchTimeLimit     time.Duration // 0 = untimed

	// Energy economy.
	EnergyMax         float64 // per-faction energy cap
	EnergyRegenPerSec float64 // regenerated per wall-clock second
	NodeCost          float64
	AmplifierCost     float64
	FortressCost      float64

	// Adaptive AI.
	AIStartupDelay      time.Duration // quiet period after activation
	AIBaseDelay         time.Duration // think interval below the threshold
	AIMinDelay          time.Duration // think interval at full saturation
	AggressionThreshold float64       // [0,1] player saturation pivot
	AIMaxRangeBonus     float64       // px at full saturation
	AIAttackOffsetMin   float64       // px, offset band around a target
	AIAttackOffsetMax   float64       // px
	AIExpandJitter      float64       // radians of angular perturbation
	AIVulnerableTopK    int           // candidates kept when ranking targets
}

// DefaultTuning returns the shipped balance values.
func DefaultTuning() *Tuning {
	return &Tuning{
		PlaneWidth:  1920,
		PlaneHeight: 1080,

		BaseSignalRange:   150,
		PerNodeRangeBonus: 4,
		MaxSignalRange:    420,
		MaxMeshDensity:    6,
		PressureExponent:  2.0,
		MaxPressureBonus:  120,

		AmplifierBonus:        60,
		AmplifierSearchRadius: 180,

		MeshConnectRadius: 180,

		AttenuationRate:    0.15,
		MinIsolatedOpacity: 0.3,
		BaseLinkPower:      3.0,
		MinLinkThickness:   0.6,

		NodeRadius:      14,
		DropPodRadius:   26,
		AmplifierRadius: 16,
		FortressRadius:  18,

		IsolationDeathTime: 10 * time.Second,

		TerritoryGridStep:  48,
		TerritoryWinRatio:  0.80,
		SaturationWinRatio: 0.55,
		MatchTimeLimit:     0,

		EnergyMax:         100,
		EnergyRegenPerSec: 8,
		NodeCost:          20,
		AmplifierCost:     35,
		FortressCost:      45,

		AIStartupDelay:      5 * time.Second,
		AIBaseDelay:         4 * time.Second,
		AIMinDelay:          1200 * time.Millisecond,
		AggressionThreshold: 0.35,
		AIMaxRangeBonus:     90,
		AIAttackOffsetMin:   40,
		AIAttackOffsetMax:   110,
		AIExpandJitter:      0.9,
		AIVulnerableTopK:    3,
	}
}

// tuningFile is the YAML override schema. Every field is optional; durations
// are expressed in milliseconds.
type tuningFile struct {
	PlaneWidth  *float64 `yaml:"plane_width"`
	PlaneHeight *float64 `yaml:"plane_height"`

	BaseSignalRange   *float64 `yaml:"base_signal_range"`
	PerNodeRangeBonus *float64 `yaml:"per_node_range_bonus"`
	MaxSignalRange    *float64 `yaml:"max_signal_range"`
	MaxMeshDensity    *float64 `yaml:"max_mesh_density"`
	PressureExponent  *float64 `yaml:"pressure_exponent"`
	MaxPressureBonus  *float64 `yaml:"max_pressure_bonus"`

	AmplifierBonus        *float64 `yaml:"amplifier_bonus"`
	AmplifierSearchRadius *float64 `yaml:"amplifier_search_radius"`

	MeshConnectRadius *float64 `yaml:"mesh_connect_radius"`

	AttenuationRate    *float64 `yaml:"attenuation_rate"`
	MinIsolatedOpacity *float64 `yaml:"min_isolated_opacity"`

	IsolationDeathTimeMS *float64 `yaml:"isolation_death_time_ms"`

	TerritoryGridStep  *float64 `yaml:"territory_grid_step"`
	TerritoryWinRatio  *float64 `yaml:"territory_win_ratio"`
	SaturationWinRatio *float64 `yaml:"saturation_win_ratio"`
	MatchTimeLimitMS   *float64 `yaml:"match_time_limit_ms"`

	EnergyMax         *float64 `yaml:"energy_max"`
	EnergyRegenPerSec *float64 `yaml:"energy_regen_per_sec"`
	NodeCost          *float64 `yaml:"node_cost"`
	AmplifierCost     *float64 `yaml:"amplifier_cost"`
	FortressCost      *float64 `yaml:"fortress_cost"`

	AIStartupDelayMS    *float64 `yaml:"ai_startup_delay_ms"`
	AIBaseDelayMS       *float64 `yaml:"ai_base_delay_ms"`
	AIMinDelayMS        *float64 `yaml:"ai_min_delay_ms"`
	AggressionThreshold *float64 `yaml:"aggression_threshold"`
	AIMaxRangeBonus     *float64 `yaml:"ai_max_range_bonus"`
	AIAttackOffsetMin   *float64 `yaml:"ai_attack_offset_min"`
	AIAttackOffsetMax   *float64 `yaml:"ai_attack_offset_max"`
	AIExpandJitter      *float64 `yaml:"ai_expand_jitter"`
	AIVulnerableTopK    *int     `yaml:"ai_vulnerable_top_k"`
}

// LoadTuning reads a YAML override file and applies it on top of the
// defaults. Fields absent from the file keep their default values.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied tuning file
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	var tf tuningFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse tuning file %s: %w", path, err)
	}

	cfg := DefaultTuning()
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setD := func(dst *time.Duration, src *float64) {
		if src != nil {
			*dst = time.Duration(*src * float64(time.Millisecond))
		}
	}

	setF(&cfg.PlaneWidth, tf.PlaneWidth)
	setF(&cfg.PlaneHeight, tf.PlaneHeight)
	setF(&cfg.BaseSignalRange, tf.BaseSignalRange)
	setF(&cfg.PerNodeRangeBonus, tf.PerNodeRangeBonus)
	setF(&cfg.MaxSignalRange, tf.MaxSignalRange)
	setF(&cfg.MaxMeshDensity, tf.MaxMeshDensity)
	setF(&cfg.PressureExponent, tf.PressureExponent)
	setF(&cfg.MaxPressureBonus, tf.MaxPressureBonus)
	setF(&cfg.AmplifierBonus, tf.AmplifierBonus)
	setF(&cfg.AmplifierSearchRadius, tf.AmplifierSearchRadius)
	setF(&cfg.MeshConnectRadius, tf.MeshConnectRadius)
	setF(&cfg.AttenuationRate, tf.AttenuationRate)
	setF(&cfg.MinIsolatedOpacity, tf.MinIsolatedOpacity)
	setD(&cfg.IsolationDeathTime, tf.IsolationDeathTimeMS)
	setF(&cfg.TerritoryGridStep, tf.TerritoryGridStep)
	setF(&cfg.TerritoryWinRatio, tf.TerritoryWinRatio)
	setF(&cfg.SaturationWinRatio, tf.SaturationWinRatio)
	setD(&cfg.MatchTimeLimit, tf.MatchTimeLimitMS)
	setF(&cfg.EnergyMax, tf.EnergyMax)
	setF(&cfg.EnergyRegenPerSec, tf.EnergyRegenPerSec)
	setF(&cfg.NodeCost, tf.NodeCost)
	setF(&cfg.AmplifierCost, tf.AmplifierCost)
	setF(&cfg.FortressCost, tf.FortressCost)
	setD(&cfg.AIStartupDelay, tf.AIStartupDelayMS)
	setD(&cfg.AIBaseDelay, tf.AIBaseDelayMS)
	setD(&cfg.AIMinDelay, tf.AIMinDelayMS)
	setF(&cfg.AggressionThreshold, tf.AggressionThreshold)
	setF(&cfg.AIMaxRangeBonus, tf.AIMaxRangeBonus)
	setF(&cfg.AIAttackOffsetMin, tf.AIAttackOffsetMin)
	setF(&cfg.AIAttackOffsetMax, tf.AIAttackOffsetMax)
	setF(&cfg.AIExpandJitter, tf.AIExpandJitter)
	if tf.AIVulnerableTopK != nil {
		cfg.AIVulnerableTopK = *tf.AIVulnerableTopK
	}

	return cfg, nil
}

// NodeTypeCost returns the energy cost to place a node of the given type.
// Drop-Pods are placed by the engine at game start and have no cost.
func (cfg *Tuning) NodeTypeCost(t NodeType) float64 {
	switch t {
	case NodeAmplifier:
		return cfg.AmplifierCost
	case NodeFortress:
		return cfg.FortressCost
	case NodeDropPod:
		return 0
	default:
		return cfg.NodeCost
	}
}
