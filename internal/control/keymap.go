package control

import (
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/order"
)

type hotkey func(c *Controller, ev input.Event)

// Keymap binds non-digit hotkeys. It is chosen once at startup.
type Keymap struct {
	bindings map[input.Key]hotkey
	dev      bool
}

// NewKeymap returns the production bindings, plus the developer bindings
// when dev is set.
func NewKeymap(dev bool) Keymap {
	km := Keymap{
		bindings: map[input.Key]hotkey{
			input.KeyF8:     (*Controller).toggleReady,
			input.KeyEscape: func(c *Controller, _ input.Event) { c.SetOrderGenerator(order.New(order.ModeDefault)) },
		},
		dev: dev,
	}
	if dev {
		km.bindings[input.KeyF2] = (*Controller).cycleLocalPlayer
		km.bindings[input.KeyF3] = func(c *Controller, _ input.Event) { c.SetOrderGenerator(order.New(order.ModeSell)) }
		km.bindings[input.KeyF4] = func(c *Controller, _ input.Event) { c.SetOrderGenerator(order.New(order.ModeRepair)) }
	}
	return km
}

// Dev reports whether developer bindings are present.
func (k Keymap) Dev() bool { return k.dev }

func (k Keymap) lookup(key input.Key) (hotkey, bool) {
	h, ok := k.bindings[key]
	return h, ok
}
