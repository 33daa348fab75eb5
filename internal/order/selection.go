package order

import (
	"sort"

	"github.com/Garsondee/Red-Command/internal/world"
)

// Selection is the local player's current selection. It is peer-local state
// and never enters the lockstep stream.
type Selection struct {
	ids []world.ActorID
}

// IDs returns a copy of the selection in ascending order.
func (s *Selection) IDs() []world.ActorID {
	return append([]world.ActorID(nil), s.ids...)
}

func (s *Selection) Len() int { return len(s.ids) }

// Set replaces the selection.
func (s *Selection) Set(ids []world.ActorID) {
	s.ids = normalise(ids)
}

// Add merges ids into the selection.
func (s *Selection) Add(ids []world.ActorID) {
	s.ids = normalise(append(s.IDs(), ids...))
}

func (s *Selection) Clear() {
	s.ids = nil
}

func (s *Selection) Contains(id world.ActorID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// Live returns the selected actors that are still alive, in ID order.
func (s *Selection) Live(w *world.World) []*world.Actor {
	var out []*world.Actor
	for _, id := range s.ids {
		if a, ok := w.Actor(id); ok && !a.Dead {
			out = append(out, a)
		}
	}
	return out
}

func normalise(ids []world.ActorID) []world.ActorID {
	if len(ids) == 0 {
		return nil
	}
	out := append([]world.ActorID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
