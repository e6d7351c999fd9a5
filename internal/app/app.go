package app

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Vandanael/chroma-control-sub000/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the plane.
const borderWidth = 24

// hudScale is the integer upscale factor applied to all HUD text.
const hudScale = 2

// simStep is the wall-clock time one simulation tick represents.
const simStep = time.Second / 60

// flashDuration is how long placement feedback stays on screen.
const flashDuration = 1500 * time.Millisecond

type App struct {
	sim    *sim.Simulation
	cfg    *sim.Tuning
	width  int
	height int
	offX   int // pixel offset from window left to plane left
	offY   int

	// The simulation runs on a synthetic clock so the speed controls can
	// stretch or compress wall time without touching the engine.
	simNow    time.Time
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds
	seed      int64

	selectedType sim.NodeType
	showHUD      bool
	showRanges   bool
	prevKeys     map[ebiten.Key]bool
	prevMouseL   bool
	prevMouseR   bool

	// Transient feedback line for rejected actions.
	flashMsg   string
	flashUntil time.Time

	// Offscreen buffer for the plane — blitted inside the border.
	worldBuf *ebiten.Image
	// Offscreen buffer for HUD text — rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image
}

func New() *App {
	cfg := sim.DefaultTuning()
	seed := time.Now().UnixNano()
	a := &App{
		cfg:          cfg,
		width:        borderWidth + int(cfg.PlaneWidth) + borderWidth,
		height:       borderWidth + int(cfg.PlaneHeight) + borderWidth,
		offX:         borderWidth,
		offY:         borderWidth,
		simNow:       time.Now(),
		simSpeed:     1.0,
		seed:         seed,
		selectedType: sim.NodeDefault,
		showHUD:      true,
		prevKeys:     make(map[ebiten.Key]bool),
	}
	a.sim = sim.New(cfg, seed)
	a.worldBuf = ebiten.NewImage(int(cfg.PlaneWidth), int(cfg.PlaneHeight))
	a.hudBuf = ebiten.NewImage(a.width/hudScale, a.height/hudScale)
	return a
}

func (a *App) Update() error {
	a.handleInput()

	if a.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame; for speeds < 1
	// accumulate fractions.
	a.tickAccum += a.simSpeed
	for a.tickAccum >= 1.0 {
		a.tickAccum -= 1.0
		a.simNow = a.simNow.Add(simStep)
		a.sim.Tick(a.simNow)
	}
	return nil
}

// handleInput processes keypresses (edge-triggered) and mouse actions.
func (a *App) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !a.prevKeys[k]
	}

	// Node type selection: 1-3.
	if pressed(ebiten.Key1) {
		a.selectedType = sim.NodeDefault
	}
	if pressed(ebiten.Key2) {
		a.selectedType = sim.NodeAmplifier
	}
	if pressed(ebiten.Key3) {
		a.selectedType = sim.NodeFortress
	}

	// H: toggle HUD. V: toggle range rings.
	if pressed(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
	if pressed(ebiten.KeyV) {
		a.showRanges = !a.showRanges
	}

	// R: restart the match with a fresh seed.
	if pressed(ebiten.KeyR) {
		a.seed = time.Now().UnixNano()
		a.sim.Reset(a.seed)
		a.flash("new match")
	}

	// C: copy the match report to the clipboard.
	if pressed(ebiten.KeyC) {
		if err := a.copyMatchReport(); err != nil {
			a.flash("clipboard unavailable")
		} else {
			a.flash("report copied")
		}
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyP) {
		if a.simSpeed > 0 {
			a.simSpeed = 0
		} else {
			a.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= a.simSpeed && i > 0 {
				a.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= a.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > a.simSpeed {
					a.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	// Left click: place the selected node type at the cursor.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !a.prevMouseL {
		wx, wy := a.cursorWorld()
		if a.inPlane(wx, wy) {
			if n := a.sim.Place(wx, wy, a.selectedType, a.simNow); n == nil {
				a.flash(a.rejectReason(wx, wy))
			}
		}
	}
	a.prevMouseL = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	// Right click: sabotage the opposing node under the cursor.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) && !a.prevMouseR {
		wx, wy := a.cursorWorld()
		if n := a.nodeAt(wx, wy, sim.OwnerEnemy); n != nil {
			if a.sim.Sabotage(n.ID, a.simNow) {
				a.flash("node sabotaged")
			} else {
				a.flash("cannot sabotage")
			}
		}
	}
	a.prevMouseR = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	a.prevKeys = currentKeys
}

// cursorWorld converts the cursor position to plane coordinates.
func (a *App) cursorWorld() (float64, float64) {
	mx, my := ebiten.CursorPosition()
	return float64(mx - a.offX), float64(my - a.offY)
}

func (a *App) inPlane(x, y float64) bool {
	return x >= 0 && x <= a.cfg.PlaneWidth && y >= 0 && y <= a.cfg.PlaneHeight
}

// nodeAt returns the owner's node whose influence circle contains the point.
func (a *App) nodeAt(x, y float64, owner sim.Owner) *sim.Node {
	var best *sim.Node
	bestD := math.MaxFloat64
	for _, n := range a.sim.Store.NodesByOwner(owner) {
		d := math.Hypot(n.X-x, n.Y-y)
		if d <= n.Radius(a.cfg)+4 && d < bestD {
			best, bestD = n, d
		}
	}
	return best
}

// rejectReason explains why a placement attempt failed.
func (a *App) rejectReason(x, y float64) string {
	if a.sim.Store.Energy(sim.OwnerPlayer) < a.cfg.NodeTypeCost(a.selectedType) {
		return "not enough energy"
	}
	if !a.sim.Field.InRange(x, y, sim.OwnerPlayer) {
		return "out of signal range"
	}
	return "placement rejected"
}

func (a *App) flash(msg string) {
	a.flashMsg = msg
	a.flashUntil = time.Now().Add(flashDuration)
}

func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
