// Package keys turns raw key events into descriptors and routes them to the
// hint machine or to page commands.
package keys

import (
	"strings"
)

// Phase is the part of a key stroke an event reports
type Phase int

const (
	// Down fires on key down and repeats while the key is held
	Down Phase = iota
	// Up fires once on release
	Up
	// Press is a complete stroke from a source without separate phases
	Press
)

func (p Phase) String() string {
	switch p {
	case Up:
		return "up"
	case Press:
		return "press"
	default:
		return "down"
	}
}

// Key codes with special handling
const (
	CodeBackspace = 0x08
	CodeTab       = 0x09
	CodeEnter     = 0x0d
	CodeEscape    = 0x1b
	CodeSpace     = 0x20
)

// Descriptors of the named keys
const (
	Backspace = "<BS>"
	Tab       = "<Tab>"
	Enter     = "<CR>"
	Escape    = "<Esc>"
	Space     = "<Space>"
)

// CtrlPrefix marks a descriptor typed with Control held
const CtrlPrefix = "^"

var named = map[int]string{
	CodeBackspace: Backspace,
	CodeTab:       Tab,
	CodeEnter:     Enter,
	CodeEscape:    Escape,
	CodeSpace:     Space,
}

// punctuation maps the DOM keyCodes of the US layout punctuation keys to
// their plain and shifted characters
var punctuation = map[int][2]rune{
	186: {';', ':'},
	187: {'=', '+'},
	188: {',', '<'},
	189: {'-', '_'},
	190: {'.', '>'},
	191: {'/', '?'},
	192: {'`', '~'},
	219: {'[', '{'},
	220: {'\\', '|'},
	221: {']', '}'},
	222: {'\'', '"'},
}

// shiftedDigits are the characters of the digit row with shift held
const shiftedDigits = ")!@#$%^&*("

// CodeOf returns the DOM keyCode and shift state a browser reports for
// the printable ASCII character r
func CodeOf(r rune) (code int, shift bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a' + 'A'), false, true
	case r >= 'A' && r <= 'Z':
		return int(r), true, true
	case r >= '0' && r <= '9':
		return int(r), false, true
	}
	if i := strings.IndexRune(shiftedDigits, r); i >= 0 {
		return '0' + i, true, true
	}
	for c, chars := range punctuation {
		if chars[0] == r {
			return c, false, true
		}
		if chars[1] == r {
			return c, true, true
		}
	}
	return 0, false, false
}

// RawKey is a key event as reported by a browser or terminal
type RawKey struct {
	// Code is a DOM keyCode
	Code  int
	Shift bool
	Ctrl  bool
	Phase Phase
	// Editable is set when the event target takes text input
	Editable bool
}

// Normalize returns the descriptor of k: "a", "K", "^h", "<BS>" and so on.
// Numeric keypad codes map onto the main row, punctuation keys onto their
// characters, and letters are lower case unless shift is held.
func Normalize(k RawKey) string {
	code := k.Code
	switch {
	case code >= 96 && code <= 105:
		code -= 48
	case code >= 106 && code <= 110:
		code -= 64
	}

	desc, ok := named[code]
	if chars, punct := punctuation[code]; punct {
		desc, ok = string(chars[0]), true
		if k.Shift {
			desc = string(chars[1])
		}
	}
	if !ok {
		desc = string(rune(code))
		if !k.Shift && code >= 32 {
			desc = strings.ToLower(desc)
		}
	}

	if k.Ctrl {
		desc = CtrlPrefix + desc
	}
	return desc
}

// IsLabelChar reports whether desc can be part of a hint label
func IsLabelChar(desc string) bool {
	if len(desc) != 1 {
		return false
	}
	c := desc[0]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
