package input

import "github.com/hajimehoshi/ebiten/v2"

// ButtonMapping pairs an ebiten mouse button with its engine flag.
type ButtonMapping struct {
	Native ebiten.MouseButton
	Button ButtonSet
}

// ButtonTable covers every mouse button ebiten defines (MouseButton0..MouseButtonMax).
var ButtonTable = [...]ButtonMapping{
	{ebiten.MouseButtonLeft, ButtonLeft},
	{ebiten.MouseButtonMiddle, ButtonMiddle},
	{ebiten.MouseButtonRight, ButtonRight},
	{ebiten.MouseButton3, ButtonX1},
	{ebiten.MouseButton4, ButtonX2},
}

// ModifierMapping pairs an ebiten key with the modifier it contributes.
type ModifierMapping struct {
	Native   ebiten.Key
	Modifier Modifiers
}

// ModifierTable lists the generic and sided modifier keys.
var ModifierTable = [...]ModifierMapping{
	{ebiten.KeyShift, ModShift},
	{ebiten.KeyShiftLeft, ModShift},
	{ebiten.KeyShiftRight, ModShift},
	{ebiten.KeyControl, ModCtrl},
	{ebiten.KeyControlLeft, ModCtrl},
	{ebiten.KeyControlRight, ModCtrl},
	{ebiten.KeyAlt, ModAlt},
	{ebiten.KeyAltLeft, ModAlt},
	{ebiten.KeyAltRight, ModAlt},
	{ebiten.KeyMeta, ModMeta},
	{ebiten.KeyMetaLeft, ModMeta},
	{ebiten.KeyMetaRight, ModMeta},
}

// KeyMapping pairs an ebiten key with its engine key.
type KeyMapping struct {
	Native ebiten.Key
	Key    Key
}

// KeyTable maps the bound ebiten keys. NumpadEnter is an alias for Enter and
// is the only many-to-one entry.
var KeyTable = [...]KeyMapping{
	{ebiten.KeyDigit0, KeyDigit0},
	{ebiten.KeyDigit1, KeyDigit1},
	{ebiten.KeyDigit2, KeyDigit2},
	{ebiten.KeyDigit3, KeyDigit3},
	{ebiten.KeyDigit4, KeyDigit4},
	{ebiten.KeyDigit5, KeyDigit5},
	{ebiten.KeyDigit6, KeyDigit6},
	{ebiten.KeyDigit7, KeyDigit7},
	{ebiten.KeyDigit8, KeyDigit8},
	{ebiten.KeyDigit9, KeyDigit9},
	{ebiten.KeyF1, KeyF1},
	{ebiten.KeyF2, KeyF2},
	{ebiten.KeyF3, KeyF3},
	{ebiten.KeyF4, KeyF4},
	{ebiten.KeyF5, KeyF5},
	{ebiten.KeyF6, KeyF6},
	{ebiten.KeyF7, KeyF7},
	{ebiten.KeyF8, KeyF8},
	{ebiten.KeyF9, KeyF9},
	{ebiten.KeyF10, KeyF10},
	{ebiten.KeyF11, KeyF11},
	{ebiten.KeyF12, KeyF12},
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyNumpadEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyBackspace, KeyBackspace},
	{ebiten.KeyTab, KeyTab},
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyDelete, KeyDelete},
	{ebiten.KeyArrowUp, KeyArrowUp},
	{ebiten.KeyArrowDown, KeyArrowDown},
	{ebiten.KeyArrowLeft, KeyArrowLeft},
	{ebiten.KeyArrowRight, KeyArrowRight},
	{ebiten.KeyA, KeyA},
	{ebiten.KeyB, KeyB},
	{ebiten.KeyC, KeyC},
	{ebiten.KeyD, KeyD},
	{ebiten.KeyE, KeyE},
	{ebiten.KeyF, KeyF},
	{ebiten.KeyG, KeyG},
	{ebiten.KeyH, KeyH},
	{ebiten.KeyI, KeyI},
	{ebiten.KeyJ, KeyJ},
	{ebiten.KeyK, KeyK},
	{ebiten.KeyL, KeyL},
	{ebiten.KeyM, KeyM},
	{ebiten.KeyN, KeyN},
	{ebiten.KeyO, KeyO},
	{ebiten.KeyP, KeyP},
	{ebiten.KeyQ, KeyQ},
	{ebiten.KeyR, KeyR},
	{ebiten.KeyS, KeyS},
	{ebiten.KeyT, KeyT},
	{ebiten.KeyU, KeyU},
	{ebiten.KeyV, KeyV},
	{ebiten.KeyW, KeyW},
	{ebiten.KeyX, KeyX},
	{ebiten.KeyY, KeyY},
	{ebiten.KeyZ, KeyZ},
}

// Lookup indexes built once from the tables above.
var (
	buttonByNative = func() map[ebiten.MouseButton]ButtonSet {
		m := make(map[ebiten.MouseButton]ButtonSet, len(ButtonTable))
		for _, e := range ButtonTable {
			m[e.Native] = e.Button
		}
		return m
	}()
	keyByNative = func() map[ebiten.Key]Key {
		m := make(map[ebiten.Key]Key, len(KeyTable))
		for _, e := range KeyTable {
			m[e.Native] = e.Key
		}
		return m
	}()
	modifierByNative = func() map[ebiten.Key]Modifiers {
		m := make(map[ebiten.Key]Modifiers, len(ModifierTable))
		for _, e := range ModifierTable {
			m[e.Native] = e.Modifier
		}
		return m
	}()
)

// ButtonsFromNative folds native held buttons into a ButtonSet.
// Unmapped codes are ignored.
func ButtonsFromNative(native []ebiten.MouseButton) ButtonSet {
	var s ButtonSet
	for _, b := range native {
		s |= buttonByNative[b]
	}
	return s
}

// NativeButtons is the inverse of ButtonsFromNative, in table order.
func NativeButtons(s ButtonSet) []ebiten.MouseButton {
	var out []ebiten.MouseButton
	for _, e := range ButtonTable {
		if s&e.Button != 0 {
			out = append(out, e.Native)
		}
	}
	return out
}

// KeyFromNative returns the engine key for an ebiten key, or KeyUnknown.
func KeyFromNative(k ebiten.Key) Key {
	return keyByNative[k]
}

// ModifierFromNative returns the modifier contributed by k, if any.
func ModifierFromNative(k ebiten.Key) Modifiers {
	return modifierByNative[k]
}

// ModifiersFromState samples every modifier key through pressed.
func ModifiersFromState(pressed func(ebiten.Key) bool) Modifiers {
	var m Modifiers
	for _, e := range ModifierTable {
		if pressed(e.Native) {
			m |= e.Modifier
		}
	}
	return m
}
