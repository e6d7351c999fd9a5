package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Vandanael/chroma-control-sub000/internal/sim"
)

// matchReport renders a plain-text summary of the running match, suitable for
// pasting into a bug report or balance discussion.
func (a *App) matchReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- chroma-control match report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d elapsed=%s\n",
		a.seed, a.sim.CurrentTick(), a.sim.Elapsed().Round(simStep))

	playerPct, enemyPct := a.sim.Territory.Percentages()
	fmt.Fprintf(&b, "territory: player=%.1f%% enemy=%.1f%%\n", playerPct*100, enemyPct*100)
	fmt.Fprintf(&b, "saturation: player=%.1f%% enemy=%.1f%%\n",
		a.sim.Territory.Saturation(sim.OwnerPlayer)*100,
		a.sim.Territory.Saturation(sim.OwnerEnemy)*100)

	for _, o := range []sim.Owner{sim.OwnerPlayer, sim.OwnerEnemy} {
		fs := a.sim.Stats.Faction(o)
		fmt.Fprintf(&b, "\n== %s ==\n", o)
		fmt.Fprintf(&b, "nodes=%d energy=%.0f signal_range=%.0f\n",
			a.sim.Store.Count(o), a.sim.Store.Energy(o), a.sim.Field.SignalRange(o))
		fmt.Fprintf(&b, "placed=%d lost_isolation=%d lost_sabotage=%d\n",
			fs.NodesPlaced, fs.LostToIsolation, fs.LostToSabotage)
		fmt.Fprintf(&b, "peak_territory=%.1f%% peak_saturation=%.1f%%\n",
			fs.PeakTerritory*100, fs.PeakSaturation*100)
	}

	events := a.sim.Events.Recent(20)
	if len(events) > 0 {
		b.WriteString("\nrecent events:\n")
		for _, e := range events {
			fmt.Fprintf(&b, "  %-16s %-7s (%.0f,%.0f)", e.Kind, e.Owner, e.X, e.Y)
			if e.Detail != "" {
				fmt.Fprintf(&b, " %s", e.Detail)
			}
			b.WriteByte('\n')
		}
	}

	if out := a.sim.Outcome(); out.Result != sim.ResultOngoing {
		fmt.Fprintf(&b, "\noutcome: %s\n", out.Description())
	}
	return b.String()
}

func (a *App) copyMatchReport() error {
	return clipboard.WriteAll(a.matchReport())
}
