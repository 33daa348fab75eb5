package order

import (
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/world"
)

// Mode names the active generator variant.
type Mode int

const (
	ModeDefault Mode = iota
	ModeSell
	ModeRepair
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeSell:
		return "sell"
	case ModeRepair:
		return "repair"
	}
	return "unknown"
}

// Generator turns one input event into zero or more orders. The returned
// slice order is the order the sink receives them in.
type Generator interface {
	Generate(ev input.Event, ctx *Context) []Order
	Mode() Mode
}

// New returns a fresh generator for mode. Every switch goes through here so
// no state survives from a previous instance.
func New(m Mode) Generator {
	switch m {
	case ModeSell:
		return &SellGenerator{}
	case ModeRepair:
		return &RepairGenerator{}
	}
	return &Default{}
}

// Context is what a generator may read while handling one event.
type Context struct {
	World     *world.World
	Player    *world.Player
	Selection *Selection

	next Generator
}

// SwitchTo asks the owner to replace the active generator once the current
// event has been handled.
func (c *Context) SwitchTo(g Generator) {
	c.next = g
}

// Requested returns the generator asked for by SwitchTo, if any.
func (c *Context) Requested() (Generator, bool) {
	return c.next, c.next != nil
}

// owned reports whether a is a live actor belonging to the context's player.
func (c *Context) owned(a *world.Actor) bool {
	return a != nil && !a.Dead && c.Player != nil && a.Owner == c.Player.Index
}
