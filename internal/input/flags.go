package input

import "strings"

// ButtonSet is an engine-neutral bit set of pointer buttons.
type ButtonSet uint8

const (
	ButtonNone   ButtonSet = 0
	ButtonLeft   ButtonSet = 1 << 0
	ButtonRight  ButtonSet = 1 << 1
	ButtonMiddle ButtonSet = 1 << 2
	ButtonX1     ButtonSet = 1 << 3
	ButtonX2     ButtonSet = 1 << 4
)

// Has reports whether every button in b is held in s.
func (s ButtonSet) Has(b ButtonSet) bool {
	return s&b == b && b != 0
}

func (s ButtonSet) String() string {
	if s == ButtonNone {
		return "none"
	}
	names := [...]string{"left", "right", "middle", "x1", "x2"}
	var parts []string
	for i, n := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "+")
}

// IsPanChord reports whether a held-button state scrolls the viewport.
// Only a lone middle button or exactly left+right qualify.
func IsPanChord(s ButtonSet) bool {
	return s == ButtonMiddle || s == ButtonLeft|ButtonRight
}

// Modifiers is an engine-neutral bit set of keyboard modifiers.
type Modifiers uint8

const (
	ModNone  Modifiers = 0
	ModShift Modifiers = 1 << 0
	ModCtrl  Modifiers = 1 << 1
	ModAlt   Modifiers = 1 << 2
	ModMeta  Modifiers = 1 << 3
)

// Has reports whether m includes every modifier in x.
func (m Modifiers) Has(x Modifiers) bool {
	return m&x == x && x != 0
}

func (m Modifiers) String() string {
	if m == ModNone {
		return "none"
	}
	names := [...]string{"shift", "ctrl", "alt", "meta"}
	var parts []string
	for i, n := range names {
		if m&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "+")
}
