package hint

import (
	"strings"

	"github.com/lance13c/vimnav/internal/collect"
	"github.com/lance13c/vimnav/internal/label"
	"github.com/lance13c/vimnav/internal/overlay"
)

// Mode is the navigation state
type Mode int

const (
	Idle Mode = iota
	Hinting
	AwaitingConfirmation
)

func (m Mode) String() string {
	switch m {
	case Hinting:
		return "hinting"
	case AwaitingConfirmation:
		return "confirm"
	default:
		return "idle"
	}
}

// Session is the state of one hinting interaction. It exists from Start
// until an action runs or the user cancels.
type Session struct {
	Candidates          []collect.Candidate
	Codec               *label.Codec
	LabelDigits         int
	Prefix              string
	Matched             int
	AwaitingConfirm     bool
	RelativePositioning bool
	NewTab              bool

	overlays *overlay.Manager
}

// hasPrefix reports whether any label starts with p
func (s *Session) hasPrefix(p string) bool {
	for _, c := range s.Candidates {
		if strings.HasPrefix(c.Label, p) {
			return true
		}
	}
	return false
}

// Entry describes one candidate for status displays
type Entry struct {
	Label    string
	Text     string
	Name     string
	Category string
	State    overlay.State
	Visible  bool
}

// Status is a read-only copy of the machine state
type Status struct {
	Mode        Mode
	Prefix      string
	LabelDigits int
	Matched     int
	NewTab      bool
	Relative    bool
	Entries     []Entry
}
