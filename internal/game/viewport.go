package game

import (
	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/input"
)

// MouseSink receives pointer events in world coordinates.
type MouseSink interface {
	DispatchMouseInput(mi input.MouseInput)
}

// Viewport is the visible window onto the map. Pointer events arrive in
// screen space and leave translated into world space.
type Viewport struct {
	scroll geom.Point // world position of the top-left screen pixel
	size   geom.Point // screen size
	world  geom.Point // map size
	sink   MouseSink
}

func NewViewport(screen, world geom.Point, sink MouseSink) *Viewport {
	return &Viewport{size: screen, world: world, sink: sink}
}

// Location returns the current scroll position.
func (v *Viewport) Location() geom.Point { return v.scroll }

// Scroll moves the view by delta, clamped to the map.
func (v *Viewport) Scroll(delta geom.Point) {
	v.scroll = v.clamp(v.scroll.Add(delta))
}

// Center puts p in the middle of the screen.
func (v *Viewport) Center(p geom.Point) {
	v.scroll = v.clamp(p.Sub(geom.Pt(v.size.X/2, v.size.Y/2)))
}

func (v *Viewport) clamp(p geom.Point) geom.Point {
	maxX := v.world.X - v.size.X
	maxY := v.world.Y - v.size.Y
	if p.X > maxX {
		p.X = maxX
	}
	if p.Y > maxY {
		p.Y = maxY
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}

func (v *Viewport) ScreenToWorld(p geom.Point) geom.Point { return p.Add(v.scroll) }

func (v *Viewport) WorldToScreen(p geom.Point) geom.Point { return p.Sub(v.scroll) }

// DispatchMouseInput forwards mi to the sink in world coordinates.
func (v *Viewport) DispatchMouseInput(mi input.MouseInput) {
	mi.Location = v.ScreenToWorld(mi.Location)
	v.sink.DispatchMouseInput(mi)
}
