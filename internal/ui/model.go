// Package ui is the terminal companion of a browser session. It shows the
// hint state and forwards terminal keys to the event loop.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lance13c/vimnav/internal/app"
	"github.com/lance13c/vimnav/internal/hint"
	"github.com/lance13c/vimnav/internal/keys"
)

// maxNotices is how many notices stay on screen
const maxNotices = 3

// KeySink receives terminal keys
type KeySink interface {
	SendKey(k keys.RawKey)
}

// EventMsg carries an event of the loop into the program
type EventMsg app.Event

// ReadyMsg reports that the browser is up and where keys go from now on
type ReadyMsg struct {
	URL  string
	Sink KeySink
}

// ErrMsg reports a fatal error of the session
type ErrMsg struct {
	Err error
}

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Model is the main application model
type Model struct {
	sink    KeySink
	keys    keyMap
	spinner spinner.Model
	styles  *Styles

	ready   bool
	url     string
	status  hint.Status
	lastKey string
	notices []string
	err     error

	width  int
	height int
}

// NewModel creates a model that waits for the browser
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Model{
		keys:    defaultKeyMap(),
		spinner: s,
		styles:  NewStyles(),
		status:  hint.Status{Matched: -1},
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if k, ok := RawKey(msg); ok && m.sink != nil {
			m.sink.SendKey(k)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ReadyMsg:
		m.ready = true
		m.url = msg.URL
		m.sink = msg.Sink
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		return m, tea.Quit

	case EventMsg:
		m.apply(app.Event(msg))
		return m, nil

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) apply(ev app.Event) {
	m.status = ev.Status
	switch ev.Kind {
	case app.KeyHandled:
		m.lastKey = ev.Result.Descriptor
		if ev.Result.Command != keys.NoCommand {
			m.lastKey += " " + ev.Result.Command.String()
		}
	case app.Notice:
		m.notices = append(m.notices, ev.Text)
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
	case app.Navigated:
		m.url = ev.Text
	}
}

// Err returns the error that ended the session, if any
func (m *Model) Err() error { return m.err }

// View implements tea.Model
func (m *Model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n %s Starting browser...\n", m.spinner.View())
	}

	header := m.styles.Header.Render("vimnav") + " " + m.styles.Muted.Render(m.url)

	mode := m.styles.Mode.Render(m.status.Mode.String())
	if m.status.Mode != hint.Idle {
		mode += " " + m.styles.Prefix.Render(fmt.Sprintf("prefix %q", m.status.Prefix))
		if m.status.NewTab {
			mode += m.styles.Muted.Render(" (new tab)")
		}
	}
	if m.lastKey != "" {
		mode += m.styles.Muted.Render("  last: " + m.lastKey)
	}

	sections := []string{header, "", mode}
	if labels := m.renderLabels(); labels != "" {
		sections = append(sections, "", labels)
	}
	if len(m.notices) > 0 {
		sections = append(sections, "", m.styles.Notice.Render(strings.Join(m.notices, "\n")))
	}
	sections = append(sections, m.styles.Footer.Render("[keys go to the page] [ctrl+c quit]"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLabels lists the visible labels of the session, one per row
func (m *Model) renderLabels() string {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}

	var lines []string
	hidden := 0
	for _, e := range m.status.Entries {
		if !e.Visible {
			continue
		}
		if len(lines) == rows {
			hidden++
			continue
		}
		lines = append(lines, m.styles.Label(e.State).Render(e.Text)+" "+
			m.styles.Muted.Render(e.Category))
	}
	if hidden > 0 {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("... %d more", hidden)))
	}
	return strings.Join(lines, "\n")
}
