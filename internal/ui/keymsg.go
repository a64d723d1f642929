package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lance13c/vimnav/internal/keys"
)

// RawKey converts a terminal key press into a key event. Terminals report
// no separate down and up, so the event has the Press phase. Characters get
// the keyCode a US layout browser would report, so ";" arrives as 186 with
// its descriptor unchanged. Keys with no browser equivalent report false.
func RawKey(msg tea.KeyMsg) (keys.RawKey, bool) {
	if msg.Alt || msg.Paste {
		return keys.RawKey{}, false
	}
	k := keys.RawKey{Phase: keys.Press}

	switch msg.Type {
	case tea.KeyTab:
		k.Code = keys.CodeTab
	case tea.KeyEnter:
		k.Code = keys.CodeEnter
	case tea.KeyEsc:
		k.Code = keys.CodeEscape
	case tea.KeyBackspace:
		k.Code = keys.CodeBackspace
	case tea.KeySpace:
		k.Code = keys.CodeSpace
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || msg.Runes[0] > unicode.MaxASCII || !unicode.IsPrint(msg.Runes[0]) {
			return keys.RawKey{}, false
		}
		code, shift, ok := keys.CodeOf(msg.Runes[0])
		if !ok {
			return keys.RawKey{}, false
		}
		k.Code, k.Shift = code, shift
	default:
		if msg.Type < tea.KeyCtrlA || msg.Type > tea.KeyCtrlZ {
			return keys.RawKey{}, false
		}
		k.Ctrl = true
		k.Code = 'A' + int(msg.Type-tea.KeyCtrlA)
	}
	return k, true
}
