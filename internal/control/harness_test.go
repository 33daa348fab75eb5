package control

import (
	"testing"

	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/order"
	"github.com/Garsondee/Red-Command/internal/world"
)

// recordingSink captures submitted orders and applies immediate ones, the
// way the real order manager does.
type recordingSink struct {
	w       *world.World
	orders  []order.Order
	started bool
}

func (s *recordingSink) AddOrder(o order.Order) {
	s.orders = append(s.orders, o)
	if o.Immediate {
		_ = order.Apply(s.w, o)
	}
}

func (s *recordingSink) GameStarted() bool { return s.started }

func (s *recordingSink) named(name string) []order.Order {
	var out []order.Order
	for _, o := range s.orders {
		if o.Name == name {
			out = append(out, o)
		}
	}
	return out
}

// testSession bundles a controller with its fixtures.
type testSession struct {
	ctrl   *Controller
	sess   *Session
	sink   *recordingSink
	mods   input.Modifiers
	clip   string
	actors []*world.Actor
}

type sessionOption func(*testSession)

// withActor adds an actor owned by seat owner.
func withActor(owner int, kind string, x, y int, building bool) sessionOption {
	return func(ts *testSession) {
		a := ts.sess.World.AddActor(world.Actor{Owner: owner, Kind: kind, Location: geom.Pt(x, y), Building: building})
		ts.actors = append(ts.actors, a)
	}
}

func withGameStarted() sessionOption {
	return func(ts *testSession) { ts.sink.started = true }
}

func withDevKeys() sessionOption {
	return func(ts *testSession) { ts.ctrl.WithKeymap(NewKeymap(true)) }
}

// newTestSession builds a two-seat session with seat 0 local.
func newTestSession(t *testing.T, opts ...sessionOption) *testSession {
	t.Helper()
	w := world.New()
	local := w.AddPlayer()
	w.AddPlayer()
	ts := &testSession{sink: &recordingSink{w: w}}
	chat := NewChat(func() (string, error) { return ts.clip, nil })
	ts.sess = NewSession(w, local, ts.sink, chat, nil)
	ts.ctrl = New(ts.sess, func() input.Modifiers { return ts.mods })
	for _, o := range opts {
		o(ts)
	}
	return ts
}

func (ts *testSession) mouse(kind input.EventKind, b input.ButtonSet, x, y int) {
	ts.ctrl.DispatchMouseInput(input.MouseInput{Kind: kind, Buttons: b, Location: geom.Pt(x, y)})
}

func (ts *testSession) typeString(s string) {
	for _, r := range s {
		ts.ctrl.HandleChar(r)
	}
}
