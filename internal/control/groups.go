package control

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Red-Command/internal/world"
)

// NumGroups is the number of control-group slots (digits 0-9).
const NumGroups = 10

var ErrGroupIndex = errors.New("control group index out of range")

// ControlGroups stores hotkey-indexed saved selections for one session.
type ControlGroups struct {
	groups [NumGroups][]world.ActorID
}

func NewControlGroups() *ControlGroups {
	return &ControlGroups{}
}

func checkIndex(i int) error {
	if i < 0 || i >= NumGroups {
		return fmt.Errorf("group %d: %w", i, ErrGroupIndex)
	}
	return nil
}

// Assign overwrites group i with a copy of ids.
func (g *ControlGroups) Assign(i int, ids []world.ActorID) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	g.groups[i] = append([]world.ActorID(nil), ids...)
	return nil
}

// Recall returns the members of group i for which alive holds. Dead members
// are filtered here rather than at assign time, and stay stored.
func (g *ControlGroups) Recall(i int, alive func(world.ActorID) bool) ([]world.ActorID, error) {
	if err := checkIndex(i); err != nil {
		return nil, err
	}
	var out []world.ActorID
	for _, id := range g.groups[i] {
		if alive(id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Members returns the stored members of group i, live or not.
func (g *ControlGroups) Members(i int) []world.ActorID {
	if checkIndex(i) != nil {
		return nil
	}
	return append([]world.ActorID(nil), g.groups[i]...)
}

// Clear empties every group. Called when the session ends.
func (g *ControlGroups) Clear() {
	for i := range g.groups {
		g.groups[i] = nil
	}
}
