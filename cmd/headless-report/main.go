// Command headless-report runs batches of windowless matches and prints a
// balance report: who wins, how fast, and how much of the network dies on
// the way. Used to sanity-check tuning changes without booting the frontend.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Vandanael/chroma-control-sub000/internal/sim"
)

// scriptInterval is how often the scripted player acts.
const scriptInterval = 150 // ticks (~2.5s at 60Hz)

type runStats struct {
	runIndex int
	seed     int64

	result sim.MatchResult
	reason sim.WinReason

	ticksRun int
	elapsed  time.Duration

	playerTerritory float64
	enemyTerritory  float64
	playerSat       float64
	enemySat        float64

	playerPlaced int
	enemyPlaced  int
	playerLost   int
	enemyLost    int

	firstIsolationTick int
	firstDeathTick     int
	aiSkips            int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var tuningPath string
	var scripted bool
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless match runs")
	flag.IntVar(&ticks, "ticks", 10800, "tick cap per run (60 ticks = 1s)")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&tuningPath, "tuning", "", "optional YAML tuning override file")
	flag.BoolVar(&scripted, "scripted", true, "run a scripted player against the opponent")
	flag.BoolVar(&verbose, "verbose", false, "per-tick sim log to stdout after each run")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if runs <= 0 || ticks <= 0 {
		slog.Error("runs and ticks must both be > 0", "runs", runs, "ticks", ticks)
		os.Exit(1)
	}

	cfg := sim.DefaultTuning()
	if tuningPath != "" {
		loaded, err := sim.LoadTuning(tuningPath)
		if err != nil {
			slog.Error("tuning override rejected", "path", tuningPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("tuning overrides applied", "path", tuningPath)
	}

	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("runs=%d tick_cap=%s seed_base=%d seed_step=%d scripted_player=%v\n\n",
		runs, humanize.Comma(int64(ticks)), seedBase, seedStep, scripted)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runMatch(i+1, seed, ticks, cfg, scripted, verbose)
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)
}

func runMatch(runIndex int, seed int64, tickCap int, cfg *sim.Tuning, scripted, verbose bool) runStats {
	ts := sim.NewTestSim(
		sim.WithTuning(cfg),
		sim.WithSeed(seed),
		sim.WithVerbose(verbose),
	)

	firstIsolation := -1
	firstDeath := -1
	ts.Events.Subscribe(func(e sim.Event) {
		switch e.Kind {
		case sim.EventNodeIsolated:
			if firstIsolation < 0 {
				firstIsolation = ts.CurrentTick()
			}
		case sim.EventNodeDestroyed:
			if firstDeath < 0 {
				firstDeath = ts.CurrentTick()
			}
		}
	})

	for tick := 0; tick < tickCap; tick++ {
		ts.RunTicks(1)
		if ts.Outcome().Result != sim.ResultOngoing {
			break
		}
		if scripted && tick%scriptInterval == scriptInterval-1 {
			scriptedMove(ts)
		}
	}

	if verbose {
		fmt.Print(ts.Log.Dump())
	}

	out := ts.Outcome()
	playerPct, enemyPct := ts.Territory.Percentages()
	if out.Result != sim.ResultOngoing {
		playerPct, enemyPct = out.PlayerTerritory, out.EnemyTerritory
	}

	return runStats{
		runIndex:           runIndex,
		seed:               seed,
		result:             out.Result,
		reason:             out.Reason,
		ticksRun:           ts.CurrentTick(),
		elapsed:            ts.Elapsed(),
		playerTerritory:    playerPct,
		enemyTerritory:     enemyPct,
		playerSat:          ts.Territory.Saturation(sim.OwnerPlayer),
		enemySat:           ts.Territory.Saturation(sim.OwnerEnemy),
		playerPlaced:       ts.Stats.Faction(sim.OwnerPlayer).NodesPlaced,
		enemyPlaced:        ts.Stats.Faction(sim.OwnerEnemy).NodesPlaced,
		playerLost:         lostTotal(ts.Stats.Faction(sim.OwnerPlayer)),
		enemyLost:          lostTotal(ts.Stats.Faction(sim.OwnerEnemy)),
		firstIsolationTick: firstIsolation,
		firstDeathTick:     firstDeath,
		aiSkips:            len(ts.Log.FilterFaction("enemy")) - len(ts.Log.Filter("ai", "placed")),
	}
}

// scriptedMove plays a simple expansion policy: extend the network one step
// toward the opposing Drop-Pod.
func scriptedMove(ts *sim.TestSim) {
	target := ts.Store.DropPod(sim.OwnerEnemy)
	if target == nil {
		return
	}
	src := ts.Store.ClosestAlly(target.X, target.Y, sim.OwnerPlayer)
	if src == nil {
		return
	}
	reach := ts.Field.EffectiveRange(sim.OwnerPlayer, src.X, src.Y)
	dx, dy := target.X-src.X, target.Y-src.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	step := math.Min(dist, reach*0.9)
	ts.Place(src.X+dx/dist*step, src.Y+dy/dist*step, sim.NodeDefault, ts.Clock)
}

func lostTotal(fs sim.FactionStats) int {
	return fs.LostToIsolation + fs.LostToSabotage
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s by %s after %s ticks (%s)\n",
		rs.result, rs.reason, humanize.Comma(int64(rs.ticksRun)), rs.elapsed.Round(time.Second))
	fmt.Printf("scores: territory=%.1f%%/%.1f%% saturation=%.1f%%/%.1f%%\n",
		rs.playerTerritory*100, rs.enemyTerritory*100, rs.playerSat*100, rs.enemySat*100)
	fmt.Printf("network: placed=%d/%d lost=%d/%d\n",
		rs.playerPlaced, rs.enemyPlaced, rs.playerLost, rs.enemyLost)
	fmt.Printf("phase_markers: first_isolation=%d first_death=%d\n\n",
		rs.firstIsolationTick, rs.firstDeathTick)
}

func printAggregate(all []runStats) {
	wins := map[sim.MatchResult]int{}
	reasons := map[sim.WinReason]int{}
	totalTicks := int64(0)
	totalPlaced := 0
	totalLost := 0
	deathTicks := make([]int, 0, len(all))

	for _, rs := range all {
		wins[rs.result]++
		if rs.result != sim.ResultOngoing {
			reasons[rs.reason]++
		}
		totalTicks += int64(rs.ticksRun)
		totalPlaced += rs.playerPlaced + rs.enemyPlaced
		totalLost += rs.playerLost + rs.enemyLost
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
	}

	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	fmt.Printf("results: player=%d enemy=%d draw=%d unresolved=%d\n",
		wins[sim.ResultPlayerWin], wins[sim.ResultEnemyWin],
		wins[sim.ResultDraw], wins[sim.ResultOngoing])
	for _, reason := range []sim.WinReason{
		sim.ReasonTerritory, sim.ReasonSaturation, sim.ReasonElimination, sim.ReasonTimeout,
	} {
		if n := reasons[reason]; n > 0 {
			fmt.Printf("  by_%s=%d\n", reason, n)
		}
	}
	fmt.Printf("ticks_total=%s nodes_placed=%d nodes_lost=%d\n",
		humanize.Comma(totalTicks), totalPlaced, totalLost)
	if len(deathTicks) > 0 {
		fmt.Printf("median_first_death_tick=%d\n", medianInt(deathTicks))
	}
}

func medianInt(vals []int) int {
	if len(vals) == 0 {
		return -1
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	return sorted[len(sorted)/2]
}
