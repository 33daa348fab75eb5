package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/order"
	"github.com/Garsondee/Red-Command/internal/world"
)

const (
	unitSize     = 8
	buildingSize = 24
	chatLines    = 6
	chatLineH    = 15
)

var (
	groundColor = color.RGBA{R: 34, G: 44, B: 30, A: 255}
	gridColor   = color.RGBA{R: 44, G: 56, B: 40, A: 255}
	selectColor = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	sellColor   = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	boxColor    = color.RGBA{R: 255, G: 255, B: 255, A: 160}
	healthGood  = color.RGBA{R: 60, G: 210, B: 60, A: 255}
	healthBad   = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	chatBg      = color.RGBA{R: 6, G: 10, B: 6, A: 200}
)

// ownerColors is indexed by player seat.
var ownerColors = []color.RGBA{
	{R: 210, G: 70, B: 70, A: 255},
	{R: 70, G: 110, B: 210, A: 255},
	{R: 220, G: 200, B: 60, A: 255},
	{R: 80, G: 190, B: 90, A: 255},
}

func ownerColor(i int) color.RGBA {
	return ownerColors[i%len(ownerColors)]
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(groundColor)
	g.drawGrid(screen)
	g.drawActors(screen)
	g.drawGeneratorState(screen)
	g.drawHUD(screen)
	g.drawChat(screen)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	const spacing = 64
	off := g.viewport.Location()
	w, h := g.cfg.Width, g.cfg.Height
	for x := -(off.X % spacing); x <= w; x += spacing {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(h), 1, gridColor, false)
	}
	for y := -(off.Y % spacing); y <= h; y += spacing {
		vector.StrokeLine(screen, 0, float32(y), float32(w), float32(y), 1, gridColor, false)
	}
}

func (g *Game) drawActors(screen *ebiten.Image) {
	for _, a := range g.world.Actors() {
		if a.Dead || a.Kind == "player" {
			continue
		}
		size := unitSize
		if a.Building {
			size = buildingSize
		}
		p := g.viewport.WorldToScreen(a.Location)
		x := float32(p.X - size/2)
		y := float32(p.Y - size/2)
		if x+float32(size) < 0 || y+float32(size) < 0 || x > float32(g.cfg.Width) || y > float32(g.cfg.Height) {
			continue
		}
		vector.FillRect(screen, x, y, float32(size), float32(size), ownerColor(a.Owner), false)
		if g.session.Selection.Contains(a.ID) {
			vector.StrokeRect(screen, x-2, y-2, float32(size+4), float32(size+4), 1, selectColor, false)
		}
		if a.Damaged() {
			drawHealthBar(screen, a, x, y-5, float32(size))
		}
		if g.cfg.UnitDebug && !a.Building {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", a.ID), int(x), int(y)+size+1)
		}
		if g.cfg.PathDebug && a.Destination != a.Location {
			d := g.viewport.WorldToScreen(a.Destination)
			vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(d.X), float32(d.Y), 1, boxColor, false)
		}
	}
}

func drawHealthBar(screen *ebiten.Image, a *world.Actor, x, y, w float32) {
	frac := float32(a.Health) / float32(a.MaxHealth)
	col := healthGood
	if frac < 0.5 {
		col = healthBad
	}
	vector.FillRect(screen, x, y, w, 3, color.Black, false)
	vector.FillRect(screen, x, y, w*frac, 3, col, false)
}

// drawGeneratorState shows what the active order generator is doing.
func (g *Game) drawGeneratorState(screen *ebiten.Image) {
	switch gen := g.ctrl.Generator().(type) {
	case *order.Default:
		box, ok := gen.DragBox()
		if !ok {
			return
		}
		tl := g.viewport.WorldToScreen(box.Min)
		vector.StrokeRect(screen, float32(tl.X), float32(tl.Y), float32(box.Dx()), float32(box.Dy()), 1, boxColor, false)
	case *order.SellGenerator:
		if a, ok := g.world.Actor(gen.Hover()); ok && !a.Dead {
			p := g.viewport.WorldToScreen(a.Location.Sub(geom.Pt(buildingSize/2, buildingSize/2)))
			vector.StrokeRect(screen, float32(p.X-2), float32(p.Y-2), buildingSize+4, buildingSize+4, 2, sellColor, false)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	p := g.session.LocalPlayer
	status := "F8 = ready"
	switch {
	case g.manager.GameStarted():
		status = "playing"
	case p != nil && p.Ready:
		status = "ready, waiting for players"
	}
	seat := -1
	if p != nil {
		seat = p.Index + 1
	}
	line := fmt.Sprintf("player %d  mode %s  frame %d  sel %d  %s",
		seat, g.ctrl.Generator().Mode(), g.manager.Frame(), g.session.Selection.Len(), status)
	ebitenutil.DebugPrintAt(screen, line, 6, 4)
	if g.cfg.BuildingDebug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("sched %s", g.sched.Stats()), 6, 20)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("orders %s", g.manager.Stats()), 6, 36)
	}
}

func (g *Game) drawChat(screen *ebiten.Image) {
	chat := g.session.Chat
	recent := chat.Log().Recent()
	if len(recent) > chatLines {
		recent = recent[len(recent)-chatLines:]
	}
	lines := make([]string, 0, chatLines+1)
	for _, e := range recent {
		lines = append(lines, fmt.Sprintf("P%d: %s", e.Player+1, e.Message))
	}
	if chat.Active() {
		lines = append(lines, "> "+chat.Text()+"_")
	}
	if len(lines) == 0 {
		return
	}

	x := 8.0
	y := float64(g.cfg.Height - 8 - len(lines)*chatLineH)
	vector.FillRect(screen, float32(x-4), float32(y-4), 420, float32(len(lines)*chatLineH+8), chatBg, false)
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y+float64(i*chatLineH))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, l, g.face, op)
	}
}
