package order

import (
	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/world"
)

// clickSlop is the largest drag, in pixels, still treated as a click.
const clickSlop = 3

// Default handles box selection and move/attack commands.
type Default struct {
	dragging  bool
	dragStart geom.Point
	dragEnd   geom.Point
}

func (g *Default) Mode() Mode { return ModeDefault }

// DragBox returns the in-progress selection box, if any.
func (g *Default) DragBox() (geom.Rect, bool) {
	if !g.dragging {
		return geom.Rect{}, false
	}
	return geom.RectFromCorners(g.dragStart, g.dragEnd), true
}

func (g *Default) Generate(ev input.Event, ctx *Context) []Order {
	switch ev.Kind {
	case input.ButtonDown:
		switch ev.Buttons {
		case input.ButtonLeft:
			g.dragging = true
			g.dragStart = ev.Location
			g.dragEnd = ev.Location
		case input.ButtonRight:
			g.dragging = false
			return g.command(ev.Location, ctx)
		}
	case input.Move:
		if g.dragging {
			g.dragEnd = ev.Location
		}
	case input.ButtonUp:
		if g.dragging && ev.Buttons == input.ButtonLeft {
			g.dragEnd = ev.Location
			g.dragging = false
			g.selectBox(ev.Modifiers.Has(input.ModShift), ctx)
		}
	}
	return nil
}

func (g *Default) selectBox(additive bool, ctx *Context) {
	box := geom.RectFromCorners(g.dragStart, g.dragEnd)
	var picked []world.ActorID
	if box.Dx() <= clickSlop+1 && box.Dy() <= clickSlop+1 {
		if a := ctx.World.ActorAt(g.dragEnd); ctx.owned(a) {
			picked = append(picked, a.ID)
		}
	} else {
		for _, a := range ctx.World.ActorsIn(box) {
			if ctx.owned(a) {
				picked = append(picked, a.ID)
			}
		}
	}
	if additive {
		ctx.Selection.Add(picked)
		return
	}
	ctx.Selection.Set(picked)
}

// command issues one order per selected mobile actor, in ascending ID order.
func (g *Default) command(at geom.Point, ctx *Context) []Order {
	target := ctx.World.ActorAt(at)
	hostile := target != nil && ctx.Player != nil && target.Owner != ctx.Player.Index

	var out []Order
	for _, a := range ctx.Selection.Live(ctx.World) {
		if !ctx.owned(a) || a.Building {
			continue
		}
		if hostile {
			out = append(out, Attack(a.ID, target.ID))
			continue
		}
		out = append(out, Move(a.ID, at))
	}
	return out
}
