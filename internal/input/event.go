package input

import (
	"fmt"

	"github.com/Garsondee/Red-Command/internal/geom"
)

// EventKind tags an input event.
type EventKind uint8

const (
	ButtonDown EventKind = iota
	Move
	ButtonUp
	KeyDown
	KeyChar
)

func (k EventKind) String() string {
	switch k {
	case ButtonDown:
		return "down"
	case Move:
		return "move"
	case ButtonUp:
		return "up"
	case KeyDown:
		return "keydown"
	case KeyChar:
		return "char"
	}
	return "unknown"
}

// MouseInput is a normalised pointer callback before modifiers are attached.
type MouseInput struct {
	Kind     EventKind
	Location geom.Point
	Buttons  ButtonSet
}

// Event is the engine-neutral input event handed to order generators.
// Modifiers are sampled when the event is built, never reused from an
// earlier event.
type Event struct {
	Kind      EventKind
	Location  geom.Point
	Buttons   ButtonSet
	Modifiers Modifiers
	Key       Key
	Char      rune
}

func (e Event) String() string {
	switch e.Kind {
	case KeyDown:
		return fmt.Sprintf("%s %s mods=%s", e.Kind, e.Key, e.Modifiers)
	case KeyChar:
		return fmt.Sprintf("%s %q", e.Kind, e.Char)
	}
	return fmt.Sprintf("%s %s buttons=%s mods=%s", e.Kind, e.Location, e.Buttons, e.Modifiers)
}
