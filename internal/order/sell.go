package order

import (
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/world"
)

// SellGenerator turns a left click on an own building into a Sell order.
// A right click drops back to Default.
type SellGenerator struct {
	hover world.ActorID
}

func (g *SellGenerator) Mode() Mode { return ModeSell }

// Hover returns the sellable building under the pointer, if any.
func (g *SellGenerator) Hover() world.ActorID { return g.hover }

func (g *SellGenerator) Generate(ev input.Event, ctx *Context) []Order {
	switch ev.Kind {
	case input.Move:
		g.hover = 0
		if a := ctx.World.ActorAt(ev.Location); ctx.owned(a) && a.Building {
			g.hover = a.ID
		}
	case input.ButtonDown:
		switch ev.Buttons {
		case input.ButtonLeft:
			if a := ctx.World.ActorAt(ev.Location); ctx.owned(a) && a.Building {
				return []Order{Sell(a.ID)}
			}
		case input.ButtonRight:
			ctx.SwitchTo(New(ModeDefault))
		}
	}
	return nil
}

// RepairGenerator turns a left click on an own damaged building into a Repair order.
type RepairGenerator struct{}

func (g *RepairGenerator) Mode() Mode { return ModeRepair }

func (g *RepairGenerator) Generate(ev input.Event, ctx *Context) []Order {
	if ev.Kind != input.ButtonDown {
		return nil
	}
	switch ev.Buttons {
	case input.ButtonLeft:
		if a := ctx.World.ActorAt(ev.Location); ctx.owned(a) && a.Building && a.Damaged() {
			return []Order{Repair(a.ID)}
		}
	case input.ButtonRight:
		ctx.SwitchTo(New(ModeDefault))
	}
	return nil
}
