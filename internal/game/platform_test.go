package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/input"
)

// fakeSource is a scripted ebiten input state. Call next between frames.
type fakeSource struct {
	x, y     int
	held     map[ebiten.MouseButton]bool
	pressed  map[ebiten.MouseButton]bool
	released map[ebiten.MouseButton]bool
	keys     []ebiten.Key
	chars    []rune
	keyHeld  map[ebiten.Key]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		held:     map[ebiten.MouseButton]bool{},
		pressed:  map[ebiten.MouseButton]bool{},
		released: map[ebiten.MouseButton]bool{},
		keyHeld:  map[ebiten.Key]bool{},
	}
}

func (f *fakeSource) CursorPosition() (int, int)                          { return f.x, f.y }
func (f *fakeSource) IsMouseButtonPressed(b ebiten.MouseButton) bool      { return f.held[b] }
func (f *fakeSource) IsMouseButtonJustPressed(b ebiten.MouseButton) bool  { return f.pressed[b] }
func (f *fakeSource) IsMouseButtonJustReleased(b ebiten.MouseButton) bool { return f.released[b] }
func (f *fakeSource) AppendJustPressedKeys(k []ebiten.Key) []ebiten.Key   { return append(k, f.keys...) }
func (f *fakeSource) AppendInputChars(c []rune) []rune                    { return append(c, f.chars...) }
func (f *fakeSource) IsKeyPressed(k ebiten.Key) bool                      { return f.keyHeld[k] }

func (f *fakeSource) move(x, y int) { f.x, f.y = x, y }

func (f *fakeSource) press(b ebiten.MouseButton) {
	f.held[b] = true
	f.pressed[b] = true
}

func (f *fakeSource) release(b ebiten.MouseButton) {
	delete(f.held, b)
	f.released[b] = true
}

// next clears the edge-triggered state after a frame.
func (f *fakeSource) next() {
	f.pressed = map[ebiten.MouseButton]bool{}
	f.released = map[ebiten.MouseButton]bool{}
	f.keys = nil
	f.chars = nil
}

type recViewport struct {
	scrolls []geom.Point
	events  []input.MouseInput
}

func (v *recViewport) Scroll(d geom.Point)                    { v.scrolls = append(v.scrolls, d) }
func (v *recViewport) DispatchMouseInput(mi input.MouseInput) { v.events = append(v.events, mi) }

type recKeys struct {
	seq []string
}

func (k *recKeys) HandleKey(key input.Key) { k.seq = append(k.seq, "key:"+key.String()) }
func (k *recKeys) HandleChar(ch rune)      { k.seq = append(k.seq, "char:"+string(ch)) }

func newTestPlatform(t *testing.T) (*Platform, *fakeSource, *recViewport, *recKeys) {
	t.Helper()
	src := newFakeSource()
	vp := &recViewport{}
	keys := &recKeys{}
	return NewPlatform(src, input.NewRouter(vp, keys)), src, vp, keys
}

func TestPoll_MoveOnlyWhenCursorChanges(t *testing.T) {
	p, src, vp, _ := newTestPlatform(t)
	src.move(10, 20)
	p.Poll()
	p.Poll()
	if len(vp.events) != 1 || vp.events[0].Kind != input.Move || vp.events[0].Location != geom.Pt(10, 20) {
		t.Fatalf("events = %v", vp.events)
	}
	src.move(11, 20)
	p.Poll()
	if len(vp.events) != 2 {
		t.Fatalf("cursor change should produce a move")
	}
}

func TestPoll_ClickOrdering(t *testing.T) {
	p, src, vp, _ := newTestPlatform(t)
	src.move(100, 100)
	src.press(ebiten.MouseButtonLeft)
	p.Poll()
	src.next()
	src.release(ebiten.MouseButtonLeft)
	p.Poll()

	want := []struct {
		kind input.EventKind
		b    input.ButtonSet
	}{
		{input.Move, input.ButtonNone},
		{input.ButtonDown, input.ButtonLeft},
		{input.ButtonUp, input.ButtonLeft},
	}
	if len(vp.events) != len(want) {
		t.Fatalf("events = %v", vp.events)
	}
	for i, w := range want {
		if vp.events[i].Kind != w.kind || vp.events[i].Buttons != w.b {
			t.Fatalf("event %d = %v, want %v %v", i, vp.events[i], w.kind, w.b)
		}
	}
}

func TestPoll_MiddleDragScrolls(t *testing.T) {
	p, src, vp, _ := newTestPlatform(t)
	src.move(100, 100)
	src.press(ebiten.MouseButtonMiddle)
	p.Poll()
	src.next()
	src.move(80, 70)
	p.Poll()

	if len(vp.scrolls) != 1 || vp.scrolls[0] != geom.Pt(20, 30) {
		t.Fatalf("scrolls = %v", vp.scrolls)
	}
	last := vp.events[len(vp.events)-1]
	if last.Kind != input.Move || last.Buttons != input.ButtonMiddle {
		t.Fatalf("move still expected, got %v", last)
	}
}

func TestPoll_KeysThenSyntheticThenTypedChars(t *testing.T) {
	p, src, _, keys := newTestPlatform(t)
	src.keys = []ebiten.Key{ebiten.KeyEnter, ebiten.KeyBackspace, ebiten.KeyCapsLock, ebiten.KeyF8}
	src.chars = []rune{'h', 'i'}
	p.Poll()

	want := []string{
		"key:" + input.KeyEnter.String(), "char:\r",
		"key:" + input.KeyBackspace.String(), "char:\b",
		"key:" + input.KeyF8.String(),
		"char:h", "char:i",
	}
	if len(keys.seq) != len(want) {
		t.Fatalf("seq = %q", keys.seq)
	}
	for i := range want {
		if keys.seq[i] != want[i] {
			t.Fatalf("seq[%d] = %q, want %q", i, keys.seq[i], want[i])
		}
	}
}

func TestModifierFunc_SamplesLiveState(t *testing.T) {
	src := newFakeSource()
	mods := modifierFunc(src)
	if mods() != input.ModNone {
		t.Fatalf("no keys held")
	}
	src.keyHeld[ebiten.KeyShiftLeft] = true
	src.keyHeld[ebiten.KeyControl] = true
	if got := mods(); !got.Has(input.ModShift) || !got.Has(input.ModCtrl) {
		t.Fatalf("mods = %v", got)
	}
}
