package sim

// FactionStats tracks running per-faction counters for reporting.
type FactionStats struct {
	NodesPlaced     int
	LostToIsolation int
	LostToSabotage  int
	PeakTerritory   float64 // highest territory fraction seen this match
	PeakSaturation  float64
}

// MatchStats aggregates both factions' counters. Fed by the event log so the
// core components stay free of bookkeeping.
type MatchStats struct {
	byOwner [ownerCount]FactionStats
}

// Observe updates counters from a gameplay event.
func (m *MatchStats) Observe(e Event) {
	fs := &m.byOwner[e.Owner]
	switch e.Kind {
	case EventNodePlaced:
		fs.NodesPlaced++
	case EventNodeDestroyed:
		fs.LostToIsolation++
	case EventNodeSabotaged:
		fs.LostToSabotage++
	}
}

// RecordScores folds this tick's territory and saturation into the peaks.
func (m *MatchStats) RecordScores(o Owner, territory, saturation float64) {
	fs := &m.byOwner[o]
	if territory > fs.PeakTerritory {
		fs.PeakTerritory = territory
	}
	if saturation > fs.PeakSaturation {
		fs.PeakSaturation = saturation
	}
}

// Faction returns a copy of one faction's counters.
func (m *MatchStats) Faction(o Owner) FactionStats {
	return m.byOwner[o]
}
