package sim

import (
	"fmt"
	"time"
)

// MatchResult identifies who, if anyone, has won.
type MatchResult uint8

const (
	ResultOngoing MatchResult = iota
	ResultPlayerWin
	ResultEnemyWin
	ResultDraw
)

func (r MatchResult) String() string {
	switch r {
	case ResultOngoing:
		return "ongoing"
	case ResultPlayerWin:
		return "player_win"
	case ResultEnemyWin:
		return "enemy_win"
	case ResultDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// WinReason says which victory condition fired.
type WinReason uint8

const (
	ReasonNone WinReason = iota
	ReasonTerritory
	ReasonSaturation
	ReasonElimination
	ReasonTimeout
)

func (r WinReason) String() string {
	switch r {
	case ReasonTerritory:
		return "territory"
	case ReasonSaturation:
		return "saturation"
	case ReasonElimination:
		return "elimination"
	case ReasonTimeout:
		return "timeout"
	case ReasonNone:
		return "none"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of a match, with the scores at the moment it
// ended.
type Outcome struct {
	Result MatchResult
	Reason WinReason
	At     time.Time

	PlayerTerritory float64
	EnemyTerritory  float64
	PlayerSat       float64
	EnemySat        float64
}

func (o Outcome) Description() string {
	if o.Result == ResultOngoing {
		return "ongoing"
	}
	return fmt.Sprintf("%s by %s (territory %.1f%%/%.1f%%, saturation %.1f%%/%.1f%%)",
		o.Result, o.Reason,
		o.PlayerTerritory*100, o.EnemyTerritory*100,
		o.PlayerSat*100, o.EnemySat*100)
}

// evaluateOutcome checks the victory conditions in a fixed order. Territory
// percentage and area saturation are independent thresholds and either can
// end the game; when both factions cross a threshold on the same tick, the
// player's check runs first. Elimination fires when one side has no nodes
// while the other still does; the timer, if configured, hands the match to
// whoever holds more territory.
func evaluateOutcome(cfg *Tuning, territory *TerritoryAnalyzer, store *Store, elapsed time.Duration, now time.Time) Outcome {
	playerPct, enemyPct := territory.Percentages()
	playerSat := territory.Saturation(OwnerPlayer)
	enemySat := territory.Saturation(OwnerEnemy)

	out := Outcome{
		Result: ResultOngoing, Reason: ReasonNone, At: now,
		PlayerTerritory: playerPct, EnemyTerritory: enemyPct,
		PlayerSat: playerSat, EnemySat: enemySat,
	}

	playerCount := store.Count(OwnerPlayer)
	enemyCount := store.Count(OwnerEnemy)

	switch {
	case playerPct >= cfg.TerritoryWinRatio:
		out.Result, out.Reason = ResultPlayerWin, ReasonTerritory
	case enemyPct >= cfg.TerritoryWinRatio:
		out.Result, out.Reason = ResultEnemyWin, ReasonTerritory
	case playerSat >= cfg.SaturationWinRatio:
		out.Result, out.Reason = ResultPlayerWin, ReasonSaturation
	case enemySat >= cfg.SaturationWinRatio:
		out.Result, out.Reason = ResultEnemyWin, ReasonSaturation
	case playerCount == 0 && enemyCount > 0:
		out.Result, out.Reason = ResultEnemyWin, ReasonElimination
	case enemyCount == 0 && playerCount > 0:
		out.Result, out.Reason = ResultPlayerWin, ReasonElimination
	case cfg.MatchTimeLimit > 0 && elapsed >= cfg.MatchTimeLimit:
		out.Reason = ReasonTimeout
		switch {
		case playerPct > enemyPct:
			out.Result = ResultPlayerWin
		case enemyPct > playerPct:
			out.Result = ResultEnemyWin
		default:
			out.Result = ResultDraw
		}
	}
	return out
}
