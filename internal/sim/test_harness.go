package sim

import "time"

// TestSim is a headless harness used by tests and the headless runner: a
// Simulation plus a synthetic clock so isolation timers and the AI cadence
// run deterministically. The default step is one 60fps frame.
type TestSim struct {
	*Simulation
	Clock time.Time
	Step  time.Duration
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // tuning, seed, verbosity — applied first
	simOptNode                       // seed the graph — applied after construction
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*harnessConfig, *TestSim)
}

type harnessConfig struct {
	tuning  *Tuning
	seed    int64
	verbose bool
	noAI    bool
	step    time.Duration
}

// WithTuning replaces the default tuning wholesale.
func WithTuning(cfg *Tuning) SimOption {
	return SimOption{simOptInfra, func(hc *harnessConfig, _ *TestSim) {
		hc.tuning = cfg
	}}
}

// WithSeed sets the AI RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(hc *harnessConfig, _ *TestSim) {
		hc.seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(hc *harnessConfig, _ *TestSim) {
		hc.verbose = v
	}}
}

// WithStep sets the synthetic clock step per tick.
func WithStep(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(hc *harnessConfig, _ *TestSim) {
		hc.step = d
	}}
}

// WithoutAI pushes the AI startup delay out past any plausible test run, so
// scenarios can exercise the passive systems alone.
func WithoutAI() SimOption {
	return SimOption{simOptInfra, func(hc *harnessConfig, _ *TestSim) {
		hc.noAI = true
	}}
}

// WithPlayerNode seeds a player node at (x, y), auto-meshed, ignoring range
// and cost validation so tests can build arbitrary graphs.
func WithPlayerNode(x, y float64) SimOption {
	return SimOption{simOptNode, func(_ *harnessConfig, ts *TestSim) {
		ts.AddNode(OwnerPlayer, x, y, NodeDefault)
	}}
}

// WithEnemyNode seeds an enemy node at (x, y), auto-meshed, unvalidated.
func WithEnemyNode(x, y float64) SimOption {
	return SimOption{simOptNode, func(_ *harnessConfig, ts *TestSim) {
		ts.AddNode(OwnerEnemy, x, y, NodeDefault)
	}}
}

// NewTestSim constructs a harness in two ordered passes: infrastructure
// options first, then graph seeding.
func NewTestSim(opts ...SimOption) *TestSim {
	hc := &harnessConfig{
		tuning: testTuning(),
		seed:   1,
		step:   16 * time.Millisecond,
	}
	ts := &TestSim{Clock: time.Unix(0, 0)}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(hc, ts)
		}
	}
	if hc.noAI {
		hc.tuning.AIStartupDelay = 1000 * time.Hour
	}
	ts.Simulation = New(hc.tuning, hc.seed)
	ts.Simulation.Log = NewSimLog(hc.verbose)
	ts.Step = hc.step
	for _, o := range opts {
		if o.kind == simOptNode {
			o.fn(hc, ts)
		}
	}
	return ts
}

// testTuning is the default harness tuning: a smaller plane and a coarse
// territory grid keep scenario runs fast.
func testTuning() *Tuning {
	cfg := DefaultTuning()
	cfg.PlaneWidth = 960
	cfg.PlaneHeight = 540
	return cfg
}

// RunTicks advances the simulation n ticks, stepping the clock each tick.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Clock = ts.Clock.Add(ts.Step)
		ts.Simulation.Tick(ts.Clock)
	}
}

// RunFor advances the simulation by the given wall time.
func (ts *TestSim) RunFor(d time.Duration) {
	ticks := int(d / ts.Step)
	if ticks < 1 {
		ticks = 1
	}
	ts.RunTicks(ticks)
}

// RunUntil advances up to maxTicks, stopping early when the predicate holds.
// Returns the tick at which it was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Clock = ts.Clock.Add(ts.Step)
		ts.Simulation.Tick(ts.Clock)
		if predicate(ts) {
			return ts.Simulation.CurrentTick()
		}
	}
	return -1
}

// AddNode inserts a node directly into the store, bypassing range and cost
// validation, and auto-meshes it. For building graph fixtures only.
func (ts *TestSim) AddNode(owner Owner, x, y float64, typ NodeType) *Node {
	n := newNode(x, y, owner, typ, ts.Clock)
	ts.Store.insert(n)
	ts.Store.autoMesh(n)
	return n
}

// Link adds an explicit symmetric mesh connection between two nodes.
func (ts *TestSim) Link(a, b *Node) {
	a.addConnection(b.ID)
	b.addConnection(a.ID)
}

// Unlink removes the mesh connection between two nodes, if present.
func (ts *TestSim) Unlink(a, b *Node) {
	a.removeConnection(b.ID)
	b.removeConnection(a.ID)
}
