package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Red-Command/internal/control"
	"github.com/Garsondee/Red-Command/internal/input"
)

// Source is the slice of the ebiten input API the platform poller reads.
type Source interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(b ebiten.MouseButton) bool
	IsMouseButtonJustPressed(b ebiten.MouseButton) bool
	IsMouseButtonJustReleased(b ebiten.MouseButton) bool
	AppendJustPressedKeys(keys []ebiten.Key) []ebiten.Key
	AppendInputChars(chars []rune) []rune
	IsKeyPressed(k ebiten.Key) bool
}

type ebitenSource struct{}

func (ebitenSource) CursorPosition() (int, int) { return ebiten.CursorPosition() }
func (ebitenSource) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}
func (ebitenSource) IsMouseButtonJustPressed(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(b)
}
func (ebitenSource) IsMouseButtonJustReleased(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustReleased(b)
}
func (ebitenSource) AppendJustPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustPressedKeys(keys)
}
func (ebitenSource) AppendInputChars(chars []rune) []rune { return ebiten.AppendInputChars(chars) }
func (ebitenSource) IsKeyPressed(k ebiten.Key) bool       { return ebiten.IsKeyPressed(k) }

// EbitenSource reads live ebiten input state.
func EbitenSource() Source { return ebitenSource{} }

// Platform turns per-frame ebiten input state into the discrete callbacks
// the router expects: moves, then presses, then releases, then keys, then
// typed characters. A move carries the buttons held before this frame's
// presses. Enter and Backspace also produce '\r' and '\b' chars.
type Platform struct {
	src    Source
	router *input.Router

	moved   bool
	x, y    int
	held    []ebiten.MouseButton
	prev    []ebiten.MouseButton
	keys    []ebiten.Key
	chars   []rune
	changed []ebiten.MouseButton
}

func NewPlatform(src Source, router *input.Router) *Platform {
	return &Platform{src: src, router: router}
}

// modifierFunc samples the modifier keys at call time.
func modifierFunc(src Source) control.ModifierFunc {
	return func() input.Modifiers { return input.ModifiersFromState(src.IsKeyPressed) }
}

// Poll delivers everything that happened since the previous call.
func (p *Platform) Poll() {
	x, y := p.src.CursorPosition()
	p.held = p.held[:0]
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		if p.src.IsMouseButtonPressed(b) {
			p.held = append(p.held, b)
		}
	}

	if !p.moved || x != p.x || y != p.y {
		p.moved = true
		p.x, p.y = x, y
		p.router.MouseMove(input.RawMouse{X: x, Y: y, Buttons: p.prev})
	}
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		if p.src.IsMouseButtonJustPressed(b) {
			p.changed = append(p.changed[:0], b)
			p.router.MouseDown(input.RawMouse{X: x, Y: y, Buttons: p.changed})
		}
	}
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		if p.src.IsMouseButtonJustReleased(b) {
			p.changed = append(p.changed[:0], b)
			p.router.MouseUp(input.RawMouse{X: x, Y: y, Buttons: p.changed})
		}
	}
	p.prev = append(p.prev[:0], p.held...)

	p.keys = p.src.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.router.KeyDown(k)
		switch k {
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
			p.router.KeyChar('\r')
		case ebiten.KeyBackspace:
			p.router.KeyChar('\b')
		}
	}
	p.chars = p.src.AppendInputChars(p.chars[:0])
	for _, ch := range p.chars {
		p.router.KeyChar(ch)
	}
}
