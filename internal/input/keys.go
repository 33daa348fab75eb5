package input

import "fmt"

// Key is an engine-neutral key code. Only keys the client binds are listed.
type Key int

const (
	KeyUnknown Key = iota
	KeyDigit0
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
	KeyDelete
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	keyCount
)

// Digit returns the control-group index for a digit key.
func (k Key) Digit() (int, bool) {
	if k >= KeyDigit0 && k <= KeyDigit9 {
		return int(k - KeyDigit0), true
	}
	return 0, false
}

func (k Key) String() string {
	switch {
	case k >= KeyDigit0 && k <= KeyDigit9:
		return fmt.Sprintf("%d", k-KeyDigit0)
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + (k - KeyA)))
	}
	switch k {
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	case KeyBackspace:
		return "Backspace"
	case KeyTab:
		return "Tab"
	case KeySpace:
		return "Space"
	case KeyDelete:
		return "Delete"
	case KeyArrowUp:
		return "Up"
	case KeyArrowDown:
		return "Down"
	case KeyArrowLeft:
		return "Left"
	case KeyArrowRight:
		return "Right"
	}
	return "Unknown"
}
