package control

import (
	"errors"
	"testing"

	"github.com/Garsondee/Red-Command/internal/world"
)

func TestControlGroups_AssignCopiesInput(t *testing.T) {
	g := NewControlGroups()
	ids := []world.ActorID{3, 4}
	if err := g.Assign(2, ids); err != nil {
		t.Fatalf("assign: %v", err)
	}
	ids[0] = 99
	if m := g.Members(2); m[0] != 3 {
		t.Fatalf("group aliased caller slice: %v", m)
	}
}

func TestControlGroups_RecallFiltersWithoutPruning(t *testing.T) {
	g := NewControlGroups()
	g.Assign(0, []world.ActorID{1, 2, 3})
	alive := func(id world.ActorID) bool { return id != 2 }

	got, err := g.Recall(0, alive)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("recall = %v", got)
	}
	if len(g.Members(0)) != 3 {
		t.Fatalf("stored members were pruned")
	}
}

func TestControlGroups_EmptyAndOutOfRange(t *testing.T) {
	g := NewControlGroups()
	for i := 0; i < NumGroups; i++ {
		got, err := g.Recall(i, func(world.ActorID) bool { return true })
		if err != nil || len(got) != 0 {
			t.Fatalf("slot %d should start empty, got %v %v", i, got, err)
		}
	}
	if err := g.Assign(NumGroups, nil); !errors.Is(err, ErrGroupIndex) {
		t.Fatalf("want ErrGroupIndex, got %v", err)
	}
	if _, err := g.Recall(-1, nil); !errors.Is(err, ErrGroupIndex) {
		t.Fatalf("want ErrGroupIndex, got %v", err)
	}
	if g.Members(11) != nil {
		t.Fatalf("out of range members should be nil")
	}
}

func TestControlGroups_Clear(t *testing.T) {
	g := NewControlGroups()
	g.Assign(9, []world.ActorID{5})
	g.Clear()
	if len(g.Members(9)) != 0 {
		t.Fatalf("clear left members behind")
	}
}
