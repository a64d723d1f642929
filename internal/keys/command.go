package keys

import (
	"fmt"
	"sort"
)

// Command identifies an action a key can be bound to
type Command int

const (
	NoCommand Command = iota
	ScrollLeft
	ScrollRight
	ScrollUp
	ScrollDown
	HalfPageUp
	HalfPageDown
	PageUp
	PageDown
	ScrollTop
	ScrollBottom
	URLPageUp
	URLDomainUp
	StartHints
	StartHintsNewTab
	RedisplayHints
	HideHints
	RepositionHints
	StopHints
)

var commandNames = map[Command]string{
	ScrollLeft:       "scroll-left",
	ScrollRight:      "scroll-right",
	ScrollUp:         "scroll-up",
	ScrollDown:       "scroll-down",
	HalfPageUp:       "half-page-up",
	HalfPageDown:     "half-page-down",
	PageUp:           "page-up",
	PageDown:         "page-down",
	ScrollTop:        "scroll-top",
	ScrollBottom:     "scroll-bottom",
	URLPageUp:        "url-page-up",
	URLDomainUp:      "url-domain-up",
	StartHints:       "start-hints",
	StartHintsNewTab: "start-hints-new-tab",
	RedisplayHints:   "redisplay-hints",
	HideHints:        "hide-hints",
	RepositionHints:  "reposition-hints",
	StopHints:        "stop-hints",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for c, n := range commandNames {
		m[n] = c
	}
	return m
}()

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "none"
}

// Repeatable reports whether c runs on key down and auto-repeat. All other
// commands run once, on key up.
func (c Command) Repeatable() bool {
	switch c {
	case ScrollLeft, ScrollRight, ScrollUp, ScrollDown:
		return true
	}
	return false
}

// IsHintCommand reports whether c acts on the hint machine rather than the page
func (c Command) IsHintCommand() bool {
	switch c {
	case StartHints, StartHintsNewTab, RedisplayHints, HideHints, RepositionHints, StopHints:
		return true
	}
	return false
}

// ParseCommand looks a command up by name. "none" unbinds a key.
func ParseCommand(name string) (Command, error) {
	if name == "none" {
		return NoCommand, nil
	}
	c, ok := commandsByName[name]
	if !ok {
		return NoCommand, fmt.Errorf("unknown command %q", name)
	}
	return c, nil
}

// CommandNames lists every command name in sorted order
func CommandNames() []string {
	names := make([]string, 0, len(commandNames))
	for _, n := range commandNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Table maps key descriptors to commands
type Table map[string]Command

// Lookup returns the command bound to desc
func (t Table) Lookup(desc string) Command {
	return t[desc]
}

// Names returns the table in its config form
func (t Table) Names() map[string]string {
	out := make(map[string]string, len(t))
	for k, c := range t {
		out[k] = c.String()
	}
	return out
}

// ParseTable builds a table from descriptor -> command name pairs. Keys
// bound to "none" are left out.
func ParseTable(bindings map[string]string) (Table, error) {
	t := make(Table, len(bindings))
	for desc, name := range bindings {
		if desc == "" {
			return nil, fmt.Errorf("empty key descriptor bound to %q", name)
		}
		c, err := ParseCommand(name)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", desc, err)
		}
		if c != NoCommand {
			t[desc] = c
		}
	}
	return t, nil
}

// DefaultPassive returns the bindings active while no hints are shown
func DefaultPassive() Table {
	return Table{
		"h": ScrollLeft,
		"l": ScrollRight,
		"k": ScrollUp,
		"j": ScrollDown,
		"K": HalfPageUp,
		"J": HalfPageDown,
		"u": PageUp,
		"d": PageDown,
		"t": ScrollTop,
		"b": ScrollBottom,
		"U": URLPageUp,
		"D": URLDomainUp,
		"f": StartHints,
		"F": StartHintsNewTab,
	}
}

// DefaultHinting returns the bindings active while hints are shown.
// Plain characters are taken by labels, so these all use Control.
func DefaultHinting() Table {
	return Table{
		"^h": ScrollLeft,
		"^l": ScrollRight,
		"^k": ScrollUp,
		"^j": ScrollDown,
		"^t": ScrollTop,
		"^b": ScrollBottom,
		"^s": RedisplayHints,
		"^d": HideHints,
		"^r": RepositionHints,
		"^f": StopHints,
	}
}
