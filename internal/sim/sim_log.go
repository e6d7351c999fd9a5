package sim

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless simulation run.
type SimLogEntry struct {
	Tick     int
	Faction  string  // "player", "enemy", or "--" for global events
	Category string  // place, survival, territory, ai, outcome
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] enemy  ai     placed   node at (312,544)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-6s %-10s %-18s %s",
		e.Tick, e.Faction, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless simulation. Unlike the
// EventLog (bounded UI ring), SimLog is unbounded and machine-readable; the
// invariant tests and the headless report binary both mine it.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick range/territory
// samples are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, faction, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Faction:  faction,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, faction, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, faction, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterFaction returns all entries for one faction.
func (sl *SimLog) FilterFaction(faction string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Faction == faction {
			out = append(out, e)
		}
	}
	return out
}

// Dump renders all entries as a newline-joined string.
func (sl *SimLog) Dump() string {
	var b strings.Builder
	for _, e := range sl.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
