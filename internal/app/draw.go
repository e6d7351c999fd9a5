package app

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Vandanael/chroma-control-sub000/internal/sim"
)

// Faction palette. The player is cold chroma, the opponent hot.
var factionColors = [2]color.RGBA{
	sim.OwnerPlayer: {R: 60, G: 200, B: 255, A: 255},
	sim.OwnerEnemy:  {R: 255, G: 110, B: 60, A: 255},
}

var territoryTints = [2]color.RGBA{
	sim.OwnerPlayer: {R: 20, G: 70, B: 90, A: 70},
	sim.OwnerEnemy:  {R: 95, G: 40, B: 20, A: 70},
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 12, B: 16, A: 255})

	a.worldBuf.Clear()
	a.drawWorld(a.worldBuf)

	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(float64(a.offX), float64(a.offY))
	screen.DrawImage(a.worldBuf, &blit)

	// Plane border frame.
	ox := float32(a.offX)
	oy := float32(a.offY)
	pw := float32(a.cfg.PlaneWidth)
	ph := float32(a.cfg.PlaneHeight)
	vector.StrokeRect(screen, ox-1, oy-1, pw+2, ph+2, 2.0,
		color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)
	vector.StrokeRect(screen, ox-3, oy-3, pw+6, ph+6, 1.0,
		color.RGBA{R: 40, G: 50, B: 70, A: 100}, false)

	if a.showHUD {
		a.drawHUD(screen)
	}
}

func (a *App) drawWorld(dst *ebiten.Image) {
	// Plane fill.
	vector.FillRect(dst, 0, 0, float32(a.cfg.PlaneWidth), float32(a.cfg.PlaneHeight),
		color.RGBA{R: 16, G: 18, B: 24, A: 255}, false)

	a.drawTerritory(dst)

	hops := [2]map[string]int{
		sim.OwnerPlayer: a.sim.Field.HopDistances(sim.OwnerPlayer),
		sim.OwnerEnemy:  a.sim.Field.HopDistances(sim.OwnerEnemy),
	}

	if a.showRanges {
		a.drawRangeRings(dst)
	}
	a.drawLinks(dst, hops)
	a.drawNodes(dst, hops)
	a.drawPlacementPreview(dst)
}

// drawTerritory tints the plane by claimed control, sampled on the same grid
// the scoring uses.
func (a *App) drawTerritory(dst *ebiten.Image) {
	step := a.cfg.TerritoryGridStep
	half := float32(step / 2)
	for y := step / 2; y < a.cfg.PlaneHeight; y += step {
		for x := step / 2; x < a.cfg.PlaneWidth; x += step {
			claim := a.sim.Territory.Classify(x, y)
			var tint color.RGBA
			switch claim {
			case sim.ClaimPlayer:
				tint = territoryTints[sim.OwnerPlayer]
			case sim.ClaimEnemy:
				tint = territoryTints[sim.OwnerEnemy]
			default:
				continue
			}
			vector.FillRect(dst, float32(x)-half, float32(y)-half,
				float32(step), float32(step), tint, false)
		}
	}
}

func (a *App) drawRangeRings(dst *ebiten.Image) {
	for _, n := range a.sim.Store.AllNodes() {
		r := a.sim.Field.EffectiveRange(n.Owner, n.X, n.Y)
		col := factionColors[n.Owner]
		col.A = 22
		vector.StrokeCircle(dst, float32(n.X), float32(n.Y), float32(r), 1.0, col, true)
	}
}

func (a *App) drawLinks(dst *ebiten.Image, hops [2]map[string]int) {
	for _, n := range a.sim.Store.AllNodes() {
		for _, id := range n.Connections {
			if id <= n.ID {
				continue // draw each link once
			}
			peer := a.sim.Store.NodeByID(id)
			if peer == nil {
				continue
			}
			w := a.sim.Field.LinkThickness(n, peer, hops[n.Owner])
			opacity := (a.sim.Field.NodeOpacity(n, hops[n.Owner]) +
				a.sim.Field.NodeOpacity(peer, hops[n.Owner])) / 2
			col := factionColors[n.Owner]
			col.A = uint8(70 + 140*opacity)
			vector.StrokeLine(dst, float32(n.X), float32(n.Y),
				float32(peer.X), float32(peer.Y), float32(w), col, true)
		}
	}
}

func (a *App) drawNodes(dst *ebiten.Image, hops [2]map[string]int) {
	for _, n := range a.sim.Store.AllNodes() {
		opacity := a.sim.Field.NodeOpacity(n, hops[n.Owner])
		col := factionColors[n.Owner]
		col.A = uint8(255 * opacity)
		r := float32(n.Radius(a.cfg))

		if n.Isolated {
			// Pulse isolated nodes so the countdown reads at a glance.
			pulse := 0.5 + 0.5*math.Sin(a.simNow.Sub(n.IsolatedSince).Seconds()*6)
			ring := factionColors[n.Owner]
			ring.A = uint8(60 + 120*pulse)
			vector.StrokeCircle(dst, float32(n.X), float32(n.Y), r+5, 1.5, ring, true)
		}

		vector.FillCircle(dst, float32(n.X), float32(n.Y), r, col, true)

		switch n.Type {
		case sim.NodeDropPod:
			core := color.RGBA{R: 240, G: 240, B: 250, A: col.A}
			vector.FillCircle(dst, float32(n.X), float32(n.Y), r*0.4, core, true)
			vector.StrokeCircle(dst, float32(n.X), float32(n.Y), r+3, 1.0, col, true)
		case sim.NodeAmplifier:
			halo := col
			halo.A = uint8(30 * opacity)
			vector.StrokeCircle(dst, float32(n.X), float32(n.Y),
				float32(a.cfg.AmplifierSearchRadius), 1.0, halo, true)
		case sim.NodeFortress:
			vector.StrokeRect(dst, float32(n.X)-r-3, float32(n.Y)-r-3,
				2*r+6, 2*r+6, 1.5, col, false)
		}
	}
}

// drawPlacementPreview shows the would-be node at the cursor, green when the
// placement would be accepted.
func (a *App) drawPlacementPreview(dst *ebiten.Image) {
	wx, wy := a.cursorWorld()
	if !a.inPlane(wx, wy) || a.sim.Outcome().Result != sim.ResultOngoing {
		return
	}
	ok := a.sim.Field.InRange(wx, wy, sim.OwnerPlayer) &&
		a.sim.Store.Energy(sim.OwnerPlayer) >= a.cfg.NodeTypeCost(a.selectedType)

	col := color.RGBA{R: 80, G: 220, B: 120, A: 150}
	if !ok {
		col = color.RGBA{R: 220, G: 80, B: 80, A: 150}
	}
	r := float32(a.cfg.NodeRadius)
	switch a.selectedType {
	case sim.NodeAmplifier:
		r = float32(a.cfg.AmplifierRadius)
	case sim.NodeFortress:
		r = float32(a.cfg.FortressRadius)
	}
	vector.StrokeCircle(dst, float32(wx), float32(wy), r, 1.5, col, true)

	// Reach ring from the ally that would anchor the new node.
	if anchor := a.sim.Store.ClosestAlly(wx, wy, sim.OwnerPlayer); anchor != nil {
		reach := a.sim.Field.EffectiveRange(sim.OwnerPlayer, anchor.X, anchor.Y)
		ring := col
		ring.A = 40
		vector.StrokeCircle(dst, float32(anchor.X), float32(anchor.Y),
			float32(reach), 1.0, ring, true)
	}
}

func (a *App) drawHUD(screen *ebiten.Image) {
	playerPct, enemyPct := a.sim.Territory.Percentages()
	playerSat := a.sim.Territory.Saturation(sim.OwnerPlayer)
	enemySat := a.sim.Territory.Saturation(sim.OwnerEnemy)

	speedStr := fmt.Sprintf("%gx", a.simSpeed)
	if a.simSpeed == 0 {
		speedStr = "PAUSED"
	}

	typeNames := map[sim.NodeType]string{
		sim.NodeDefault:   "node",
		sim.NodeAmplifier: "amplifier",
		sim.NodeFortress:  "fortress",
	}

	lines := []string{
		fmt.Sprintf("energy %3.0f/%3.0f   cost %.0f",
			a.sim.Store.Energy(sim.OwnerPlayer), a.cfg.EnergyMax,
			a.cfg.NodeTypeCost(a.selectedType)),
		fmt.Sprintf("territory %4.1f%% vs %4.1f%%", playerPct*100, enemyPct*100),
		fmt.Sprintf("saturation %4.1f%% vs %4.1f%%", playerSat*100, enemySat*100),
		fmt.Sprintf("nodes %d vs %d",
			a.sim.Store.Count(sim.OwnerPlayer), a.sim.Store.Count(sim.OwnerEnemy)),
		"",
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedStr),
		fmt.Sprintf("[1-3] type: %s", typeNames[a.selectedType]),
		"click=place  rclick=sabotage",
		"[V] ranges  [R] restart  [C] report  [H] hud",
	}

	// Recent activity ticker.
	events := a.sim.Events.Recent(4)
	if len(events) > 0 {
		lines = append(lines, "")
		for _, e := range events {
			lines = append(lines, fmt.Sprintf("  %s %s", e.Owner, e.Kind))
		}
	}

	const lineH = 12 // debug font line height at 1x
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	bufH := float32(a.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	a.hudBuf.Clear()
	vector.FillRect(a.hudBuf, bx, by, boxW, boxH,
		color.RGBA{R: 8, G: 10, B: 14, A: 210}, false)
	vector.StrokeRect(a.hudBuf, bx, by, boxW, boxH,
		1.0, color.RGBA{R: 60, G: 80, B: 110, A: 180}, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(a.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	a.drawFlash()
	a.drawOutcomeBanner()

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(a.hudBuf, opts)
}

// drawFlash renders the transient feedback line above the HUD panel. Expiry
// runs on the wall clock so messages fade even while the sim is paused.
func (a *App) drawFlash() {
	if a.flashMsg == "" || time.Now().After(a.flashUntil) {
		return
	}
	bufW := a.width / hudScale
	x := bufW/2 - len(a.flashMsg)*3
	ebitenutil.DebugPrintAt(a.hudBuf, a.flashMsg, x, 8)
}

// drawOutcomeBanner renders the terminal match state front and centre.
func (a *App) drawOutcomeBanner() {
	out := a.sim.Outcome()
	if out.Result == sim.ResultOngoing {
		return
	}
	lines := []string{
		out.Description(),
		"[R] play again",
	}
	bufW := float32(a.width / hudScale)
	bufH := float32(a.height / hudScale)

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*6 + 16)
	boxH := float32(len(lines)*12 + 12)
	bx := (bufW - boxW) / 2
	by := (bufH - boxH) / 2

	vector.FillRect(a.hudBuf, bx, by, boxW, boxH,
		color.RGBA{R: 10, G: 12, B: 18, A: 235}, false)
	vector.StrokeRect(a.hudBuf, bx, by, boxW, boxH, 1.0,
		color.RGBA{R: 120, G: 140, B: 180, A: 220}, false)
	for i, l := range lines {
		x := int(bx) + (int(boxW)-len(l)*6)/2
		ebitenutil.DebugPrintAt(a.hudBuf, l, x, int(by)+6+i*12)
	}
}
