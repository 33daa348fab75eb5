package world

import (
	"sort"

	"github.com/Garsondee/Red-Command/internal/geom"
)

// ActorID identifies an actor for the lifetime of a session. Zero is "no actor".
type ActorID uint32

// pickRadius is the pointer hit radius for actor picking, in world pixels.
const pickRadius = 12

// moveStep is how far a moving actor travels per tick on each axis.
const moveStep = 2

const (
	attackRange  = 24
	attackDamage = 1
)

// Actor is the minimal lockstep-relevant state of a unit or building.
type Actor struct {
	ID          ActorID
	Owner       int
	Kind        string
	Building    bool
	Health      int
	MaxHealth   int
	Location    geom.Point
	Destination geom.Point
	Target      ActorID
	Dead        bool
}

// Damaged reports whether the actor is below full health.
func (a *Actor) Damaged() bool {
	return a.Health < a.MaxHealth
}

// Player is one seat in the session.
type Player struct {
	Index int
	Ready bool
	Actor ActorID
}

// World owns every actor and player. It is mutated only by the thread that
// runs the simulation and applies orders.
type World struct {
	actors  map[ActorID]*Actor
	players []*Player
	nextID  ActorID
	tick    int
}

func New() *World {
	return &World{
		actors: make(map[ActorID]*Actor),
		nextID: 1,
	}
}

// AddActor copies a into the world under a fresh ID and returns the stored actor.
func (w *World) AddActor(a Actor) *Actor {
	a.ID = w.nextID
	w.nextID++
	if a.MaxHealth == 0 {
		a.MaxHealth = 100
	}
	if a.Health == 0 {
		a.Health = a.MaxHealth
	}
	a.Destination = a.Location
	stored := &a
	w.actors[a.ID] = stored
	return stored
}

// AddPlayer creates the next player seat together with its player actor.
func (w *World) AddPlayer() *Player {
	idx := len(w.players)
	pa := w.AddActor(Actor{Owner: idx, Kind: "player"})
	p := &Player{Index: idx, Actor: pa.ID}
	w.players = append(w.players, p)
	return p
}

// Player returns the player at idx, or nil.
func (w *World) Player(idx int) *Player {
	if idx < 0 || idx >= len(w.players) {
		return nil
	}
	return w.players[idx]
}

func (w *World) Players() []*Player {
	return w.players
}

// PlayerByActor returns the player owning the given player actor.
func (w *World) PlayerByActor(id ActorID) *Player {
	for _, p := range w.players {
		if p.Actor == id {
			return p
		}
	}
	return nil
}

// Actor returns the actor with id, dead or alive.
func (w *World) Actor(id ActorID) (*Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// IsAlive reports whether id names an existing live actor.
func (w *World) IsAlive(id ActorID) bool {
	a, ok := w.actors[id]
	return ok && !a.Dead
}

// Kill marks an actor dead. Dead actors stay resolvable so stale references
// can be told apart from unknown ones.
func (w *World) Kill(id ActorID) {
	if a, ok := w.actors[id]; ok {
		a.Dead = true
		a.Health = 0
	}
}

// ActorAt returns the nearest live, non-player actor within the pick radius of p.
func (w *World) ActorAt(p geom.Point) *Actor {
	var best *Actor
	best2 := pickRadius*pickRadius + 1
	for _, a := range w.sorted() {
		if a.Dead || a.Kind == "player" {
			continue
		}
		if d2 := a.Location.Dist2(p); d2 < best2 {
			best, best2 = a, d2
		}
	}
	return best
}

// ActorsIn returns live, non-player actors inside r in ascending ID order.
func (w *World) ActorsIn(r geom.Rect) []*Actor {
	var out []*Actor
	for _, a := range w.sorted() {
		if a.Dead || a.Kind == "player" {
			continue
		}
		if r.Contains(a.Location) {
			out = append(out, a)
		}
	}
	return out
}

// Actors returns every actor in ascending ID order.
func (w *World) Actors() []*Actor {
	return w.sorted()
}

// TickCount returns how many simulation ticks have run.
func (w *World) TickCount() int {
	return w.tick
}

// Tick advances unit movement by one fixed step. Iteration is in ID order so
// every peer produces the same state.
func (w *World) Tick() {
	w.tick++
	for _, a := range w.sorted() {
		if a.Dead || a.Building {
			continue
		}
		if a.Target != 0 {
			if t, ok := w.actors[a.Target]; ok && !t.Dead {
				a.Destination = t.Location
				if a.Location.Dist2(t.Location) <= attackRange*attackRange {
					w.damage(t, attackDamage)
				}
			} else {
				a.Target = 0
				a.Destination = a.Location
			}
		}
		a.Location.X += step(a.Location.X, a.Destination.X)
		a.Location.Y += step(a.Location.Y, a.Destination.Y)
	}
}

func (w *World) damage(a *Actor, n int) {
	a.Health -= n
	if a.Health <= 0 {
		w.Kill(a.ID)
	}
}

func step(from, to int) int {
	d := to - from
	switch {
	case d > moveStep:
		return moveStep
	case d < -moveStep:
		return -moveStep
	}
	return d
}

func (w *World) sorted() []*Actor {
	out := make([]*Actor, 0, len(w.actors))
	for _, a := range w.actors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
