// Package overlay keeps one label marker per hint candidate in sync with the
// typed prefix.
package overlay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lance13c/vimnav/internal/collect"
	"github.com/lance13c/vimnav/internal/dom"
)

// Redisplay is the prefix that re-shows the last state without recomputing it
const Redisplay = "*"

// ErrRemoved is returned when a removed manager is used again
var ErrRemoved = errors.New("overlays already removed")

// State is the highlight of a visible marker
type State int

const (
	Plain State = iota
	Partial
	Found
)

func (s State) String() string {
	switch s {
	case Partial:
		return "partial"
	case Found:
		return "found"
	default:
		return "plain"
	}
}

// Marker describes a marker to create
type Marker struct {
	Index  int
	Target dom.Node
	Label  string
	// Position is set in relative mode and holds the target's page box
	Position *dom.Rect
}

// View is the displayed state of one marker
type View struct {
	Index   int
	Text    string
	State   State
	Visible bool
}

// Surface draws markers. Implementations must process every entry of a
// batch even when some of them fail, and report the failures together.
type Surface interface {
	Create(markers []Marker) error
	Update(views []View) error
	Remove(indices []int) error
}

// Manager owns the markers of one hint session
type Manager struct {
	surface  Surface
	shorten  bool
	relative bool

	labels  []string
	views   []View
	matched int
	removed bool
}

// NewManager creates markers for every candidate, hidden and showing the full label
func NewManager(surface Surface, cands []collect.Candidate, shorten, relative bool) (*Manager, error) {
	m := &Manager{
		surface:  surface,
		shorten:  shorten,
		relative: relative,
		labels:   make([]string, len(cands)),
		views:    make([]View, len(cands)),
		matched:  -1,
	}

	markers := make([]Marker, len(cands))
	for i, c := range cands {
		m.labels[i] = c.Label
		m.views[i] = View{Index: i, Text: c.Label, State: Plain}
		markers[i] = Marker{Index: i, Target: c.Node, Label: c.Label}
		if relative {
			rect := c.Rect
			markers[i].Position = &rect
		}
	}

	if err := surface.Create(markers); err != nil {
		return m, fmt.Errorf("failed to create overlays: %w", err)
	}
	return m, nil
}

// Count returns the number of markers
func (m *Manager) Count() int { return len(m.views) }

// Relative reports whether markers are placed at page coordinates
func (m *Manager) Relative() bool { return m.relative }

// Matched returns the index of the fully matched marker, or -1
func (m *Manager) Matched() int { return m.matched }

// Views returns a copy of the current marker views
func (m *Manager) Views() []View {
	return append([]View(nil), m.views...)
}

// Render updates every marker for prefix and returns the matched index or -1
func (m *Manager) Render(prefix string) (int, error) {
	if m.removed {
		return -1, ErrRemoved
	}

	next := make([]View, len(m.views))
	switch prefix {
	case "":
		m.matched = -1
		for i, l := range m.labels {
			next[i] = View{Index: i, Text: l, State: Plain, Visible: true}
		}
	case Redisplay:
		for i, v := range m.views {
			v.Visible = m.matched < 0 || i == m.matched
			next[i] = v
		}
	default:
		m.matched = -1
		for i, l := range m.labels {
			next[i] = m.viewFor(i, l, prefix)
			if next[i].State == Found {
				m.matched = i
			}
		}
	}

	return m.matched, m.apply(next)
}

func (m *Manager) viewFor(i int, l, prefix string) View {
	v := View{Index: i, Text: l, State: Plain, Visible: true}
	switch {
	case l == prefix:
		v.State = Found
	case strings.HasPrefix(l, prefix):
		if m.shorten {
			v.Text = l[len(prefix):]
		} else {
			v.State = Partial
		}
	default:
		v.Visible = !m.shorten
	}
	return v
}

// Hide makes every marker invisible without destroying it
func (m *Manager) Hide() error {
	if m.removed {
		return nil
	}
	next := m.Views()
	for i := range next {
		next[i].Visible = false
	}
	return m.apply(next)
}

// Remove detaches every marker. The manager cannot be used afterwards;
// removing twice is a no-op.
func (m *Manager) Remove() error {
	if m.removed {
		return nil
	}
	m.removed = true

	indices := make([]int, len(m.views))
	for i := range indices {
		indices[i] = i
	}
	if err := m.surface.Remove(indices); err != nil {
		return fmt.Errorf("failed to remove overlays: %w", err)
	}
	return nil
}

// apply sends only the views that changed
func (m *Manager) apply(next []View) error {
	var changed []View
	for i, v := range next {
		if v != m.views[i] {
			changed = append(changed, v)
		}
	}
	m.views = next
	if len(changed) == 0 {
		return nil
	}
	if err := m.surface.Update(changed); err != nil {
		return fmt.Errorf("failed to update overlays: %w", err)
	}
	return nil
}
