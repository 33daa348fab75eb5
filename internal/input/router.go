package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Red-Command/internal/geom"
)

// RawMouse is a platform pointer callback: raw coordinates and the native
// buttons reported with it. On Down/Up that is the changed button, on Move
// every held button.
type RawMouse struct {
	X       int
	Y       int
	Buttons []ebiten.MouseButton
}

// Viewport is the renderer side of pointer routing.
type Viewport interface {
	Scroll(delta geom.Point)
	DispatchMouseInput(mi MouseInput)
}

// KeyHandler receives normalised keyboard input.
type KeyHandler interface {
	HandleKey(k Key)
	HandleChar(ch rune)
}

// Router normalises raw platform callbacks and forwards them. It also owns
// the pan gesture, which needs the last pointer position.
type Router struct {
	viewport Viewport
	keys     KeyHandler
	lastPos  geom.Point
}

func NewRouter(viewport Viewport, keys KeyHandler) *Router {
	return &Router{viewport: viewport, keys: keys}
}

// LastPos returns the pointer position recorded by the last Down or Move.
func (r *Router) LastPos() geom.Point {
	return r.lastPos
}

func (r *Router) MouseDown(raw RawMouse) {
	r.lastPos = geom.Pt(raw.X, raw.Y)
	r.dispatch(ButtonDown, raw)
}

// MouseMove scrolls the viewport for pan chords and always forwards the move.
func (r *Router) MouseMove(raw RawMouse) {
	p := geom.Pt(raw.X, raw.Y)
	if IsPanChord(ButtonsFromNative(raw.Buttons)) {
		r.viewport.Scroll(r.lastPos.Sub(p))
	}
	r.lastPos = p
	r.dispatch(Move, raw)
}

func (r *Router) MouseUp(raw RawMouse) {
	r.dispatch(ButtonUp, raw)
}

// KeyDown forwards a bound key. Unbound keys are dropped here.
func (r *Router) KeyDown(native ebiten.Key) {
	k := KeyFromNative(native)
	if k == KeyUnknown {
		return
	}
	r.keys.HandleKey(k)
}

func (r *Router) KeyChar(ch rune) {
	r.keys.HandleChar(ch)
}

func (r *Router) dispatch(kind EventKind, raw RawMouse) {
	r.viewport.DispatchMouseInput(MouseInput{
		Kind:     kind,
		Location: geom.Pt(raw.X, raw.Y),
		Buttons:  ButtonsFromNative(raw.Buttons),
	})
}
