package order

import (
	"fmt"

	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/world"
)

// Order names understood by Apply.
const (
	NameMove        = "Move"
	NameAttack      = "Attack"
	NameSell        = "Sell"
	NameRepair      = "Repair"
	NameToggleReady = "ToggleReady"
	NameChat        = "Chat"
)

// Order is a lockstep command for one subject actor. Immediate orders are
// applied to local state as soon as they reach the sink; the rest are
// batched into the next frame.
type Order struct {
	Name           string        `json:"name"`
	Subject        world.ActorID `json:"subject"`
	Target         world.ActorID `json:"target,omitempty"`
	TargetLocation geom.Point    `json:"loc"`
	Payload        string        `json:"payload,omitempty"`
	Immediate      bool          `json:"immediate,omitempty"`
}

func (o Order) String() string {
	s := fmt.Sprintf("%s subj=%d", o.Name, o.Subject)
	if o.Target != 0 {
		s += fmt.Sprintf(" target=%d", o.Target)
	}
	if o.TargetLocation != geom.Zero {
		s += " at " + o.TargetLocation.String()
	}
	if o.Payload != "" {
		s += fmt.Sprintf(" %q", o.Payload)
	}
	if o.Immediate {
		s += " (immediate)"
	}
	return s
}

func Move(subject world.ActorID, to geom.Point) Order {
	return Order{Name: NameMove, Subject: subject, TargetLocation: to}
}

func Attack(subject, target world.ActorID) Order {
	return Order{Name: NameAttack, Subject: subject, Target: target}
}

func Sell(building world.ActorID) Order {
	return Order{Name: NameSell, Subject: building}
}

func Repair(building world.ActorID) Order {
	return Order{Name: NameRepair, Subject: building}
}

// ToggleReady sets the player's readiness. It is always immediate so the
// lobby reflects it before the network round trip.
func ToggleReady(playerActor world.ActorID, ready bool) Order {
	payload := "not ready"
	if ready {
		payload = "ready"
	}
	return Order{Name: NameToggleReady, Subject: playerActor, Payload: payload, Immediate: true}
}

// Chat carries a chat line through the lockstep stream.
func Chat(playerActor world.ActorID, text string) Order {
	return Order{Name: NameChat, Subject: playerActor, Payload: text}
}
