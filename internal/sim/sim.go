package sim

import (
	"fmt"
	"time"
)

// Drop-Pod spawn positions as plane fractions. Player bottom-left, enemy
// top-right, mirrored across the centre.
const (
	playerPodFracX = 0.18
	playerPodFracY = 0.82
	enemyPodFracX  = 0.82
	enemyPodFracY  = 0.18
)

// Simulation is the explicit context object owning one match: the node graph
// store, the derived-signal components, the adversary, and the diagnostics
// channels. Construct one per game; nothing here is process-global, so tests
// and replays can run any number of simulations side by side.
//
// All components run inside Tick, single-threaded. The AI throttles itself
// against the wall-clock time passed in, so a fake clock drives the whole
// engine deterministically.
type Simulation struct {
	cfg *Tuning

	Store     *Store
	Field     *SignalField
	Scanner   *SurvivalScanner
	Territory *TerritoryAnalyzer
	AI        *AIController
	Events    *EventLog
	Log       *SimLog
	Stats     MatchStats

	tick      int
	startedAt time.Time
	lastTick  time.Time
	outcome   Outcome
}

// New builds a simulation with both Drop-Pods placed. The seed drives only
// the AI's randomness; the rest of the engine is deterministic.
func New(cfg *Tuning, seed int64) *Simulation {
	events := NewEventLog()
	store := NewStore(cfg, events)
	field := NewSignalField(cfg, store)
	store.BindSignal(field)

	s := &Simulation{
		cfg:       cfg,
		Store:     store,
		Field:     field,
		Scanner:   NewSurvivalScanner(cfg, store, events),
		Territory: NewTerritoryAnalyzer(cfg, store, field),
		AI:        NewAIController(cfg, store, field, OwnerEnemy, seed),
		Events:    events,
		Log:       NewSimLog(false),
	}
	events.Subscribe(s.Stats.Observe)
	s.spawnDropPods(time.Time{})
	return s
}

func (s *Simulation) spawnDropPods(now time.Time) {
	s.Store.CreateDropPod(s.cfg.PlaneWidth*playerPodFracX, s.cfg.PlaneHeight*playerPodFracY, OwnerPlayer, now)
	s.Store.CreateDropPod(s.cfg.PlaneWidth*enemyPodFracX, s.cfg.PlaneHeight*enemyPodFracY, OwnerEnemy, now)
}

// Tuning exposes the match's balance constants (read-only by convention).
func (s *Simulation) Tuning() *Tuning {
	return s.cfg
}

// Tick advances the simulation one step. now is wall-clock time (or a fake
// clock in tests); elapsed time, not tick count, drives isolation death and
// the AI cadence. A finished match ignores further ticks.
func (s *Simulation) Tick(now time.Time) {
	if s.outcome.Result != ResultOngoing {
		return
	}
	if s.startedAt.IsZero() {
		s.startedAt = now
		s.lastTick = now
		s.AI.Activate(now)
	}
	dt := now.Sub(s.lastTick)
	if dt < 0 {
		dt = 0
	}
	s.lastTick = now
	s.tick++

	s.Store.RegenEnergy(dt)

	s.Scanner.Scan(OwnerPlayer, now)
	s.Scanner.Scan(OwnerEnemy, now)

	playerSat := s.Territory.Saturation(OwnerPlayer)
	s.Field.SetExternalBonus(OwnerEnemy, RangeBonus(s.cfg, playerSat))

	res, placed := s.AI.Think(now, playerSat)
	switch res {
	case ThinkIdle:
		// waiting out the startup or action delay; nothing to log
	case ThinkPlaced:
		s.Log.Add(s.tick, OwnerEnemy.String(), "ai", "placed",
			fmt.Sprintf("%s at (%.0f,%.0f)", placed.Type, placed.X, placed.Y), 0)
	default:
		s.Log.Add(s.tick, OwnerEnemy.String(), "ai", res.String(), "", 0)
	}

	out := evaluateOutcome(s.cfg, s.Territory, s.Store, now.Sub(s.startedAt), now)
	s.Stats.RecordScores(OwnerPlayer, out.PlayerTerritory, out.PlayerSat)
	s.Stats.RecordScores(OwnerEnemy, out.EnemyTerritory, out.EnemySat)
	s.Log.AddVerbose(s.tick, "--", "territory", "scores",
		fmt.Sprintf("player %.3f/%.3f enemy %.3f/%.3f",
			out.PlayerTerritory, out.PlayerSat, out.EnemyTerritory, out.EnemySat),
		out.PlayerTerritory)

	if out.Result != ResultOngoing {
		s.outcome = out
		s.Events.Publish(Event{Kind: EventMatchEnded, At: now, Detail: out.Description()})
		s.Log.Add(s.tick, "--", "outcome", out.Result.String(), out.Description(), 0)
	}
}

// Place handles a player placement request: the created node, or nil when
// the request was rejected (out of range, out of bounds, or unaffordable).
func (s *Simulation) Place(x, y float64, typ NodeType, now time.Time) *Node {
	if s.outcome.Result != ResultOngoing {
		return nil
	}
	n := s.Store.CreateNode(x, y, OwnerPlayer, typ, now)
	if n != nil {
		s.Log.Add(s.tick, OwnerPlayer.String(), "place", "placed",
			fmt.Sprintf("%s at (%.0f,%.0f)", typ, x, y), 0)
	}
	return n
}

// Sabotage destroys a target node by direct attack. Drop-Pods resist.
func (s *Simulation) Sabotage(id string, now time.Time) bool {
	if s.outcome.Result != ResultOngoing {
		return false
	}
	return s.Store.SabotageNode(id, now)
}

// Outcome returns the match result; Result == ResultOngoing while playing.
func (s *Simulation) Outcome() Outcome {
	return s.outcome
}

// CurrentTick returns the number of ticks processed.
func (s *Simulation) CurrentTick() int {
	return s.tick
}

// Elapsed returns match wall time as of the last tick.
func (s *Simulation) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.lastTick.Sub(s.startedAt)
}

// Reset clears the whole store and starts a fresh match with the same
// tuning. The old event subscribers stay attached.
func (s *Simulation) Reset(seed int64) {
	s.Store.Clear()
	s.spawnDropPods(time.Time{})
	s.AI = NewAIController(s.cfg, s.Store, s.Field, OwnerEnemy, seed)
	s.Field.SetExternalBonus(OwnerEnemy, 0)
	s.Stats = MatchStats{}
	s.outcome = Outcome{}
	s.tick = 0
	s.startedAt = time.Time{}
	s.lastTick = time.Time{}
}
