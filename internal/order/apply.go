package order

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Red-Command/internal/world"
)

var (
	ErrUnknownActor  = errors.New("unknown actor")
	ErrDeadActor     = errors.New("dead actor")
	ErrUnknownOrder  = errors.New("unknown order")
	ErrNotApplicable = errors.New("order not applicable to subject")
)

// Validate checks the references an order carries against w.
func Validate(w *world.World, o Order) error {
	a, ok := w.Actor(o.Subject)
	if !ok {
		return fmt.Errorf("%s subject %d: %w", o.Name, o.Subject, ErrUnknownActor)
	}
	if a.Dead {
		return fmt.Errorf("%s subject %d: %w", o.Name, o.Subject, ErrDeadActor)
	}
	if o.Target != 0 {
		t, ok := w.Actor(o.Target)
		if !ok {
			return fmt.Errorf("%s target %d: %w", o.Name, o.Target, ErrUnknownActor)
		}
		if t.Dead {
			return fmt.Errorf("%s target %d: %w", o.Name, o.Target, ErrDeadActor)
		}
	}
	return nil
}

// Apply executes o against w. It must be called in the same frame order on
// every peer.
func Apply(w *world.World, o Order) error {
	if err := Validate(w, o); err != nil {
		return err
	}
	a, _ := w.Actor(o.Subject)
	switch o.Name {
	case NameMove:
		if a.Building {
			return fmt.Errorf("move %d: %w", a.ID, ErrNotApplicable)
		}
		a.Target = 0
		a.Destination = o.TargetLocation
	case NameAttack:
		if a.Building {
			return fmt.Errorf("attack %d: %w", a.ID, ErrNotApplicable)
		}
		a.Target = o.Target
	case NameSell:
		if !a.Building {
			return fmt.Errorf("sell %d: %w", a.ID, ErrNotApplicable)
		}
		w.Kill(a.ID)
	case NameRepair:
		if !a.Building {
			return fmt.Errorf("repair %d: %w", a.ID, ErrNotApplicable)
		}
		a.Health = a.MaxHealth
	case NameToggleReady:
		p := w.PlayerByActor(a.ID)
		if p == nil {
			return fmt.Errorf("toggle ready %d: %w", a.ID, ErrNotApplicable)
		}
		p.Ready = o.Payload == "ready"
	case NameChat:
		// Chat lines change no world state; the sink hands them to the chat log.
	default:
		return fmt.Errorf("%q: %w", o.Name, ErrUnknownOrder)
	}
	return nil
}
