package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lance13c/vimnav/internal/overlay"
)

// Styles holds all the styling for the TUI
type Styles struct {
	Header  lipgloss.Style
	Mode    lipgloss.Style
	Prefix  lipgloss.Style
	Footer  lipgloss.Style
	Notice  lipgloss.Style
	Muted   lipgloss.Style
	Plain   lipgloss.Style
	Partial lipgloss.Style
	Found   lipgloss.Style
}

// NewStyles creates a new styles instance. The label colours follow the
// stock marker look in the page.
func NewStyles() *Styles {
	label := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2),

		Mode: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575")),

		Prefix: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#874BFD")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1),

		Notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF5F87")).
			Foreground(lipgloss.Color("#FF5F87")).
			Padding(0, 1),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Plain:   label.Foreground(lipgloss.Color("#FF0000")).Background(lipgloss.Color("#FFFFE0")),
		Partial: label.Foreground(lipgloss.Color("#0000FF")).Background(lipgloss.Color("#90EE90")),
		Found:   label.Foreground(lipgloss.Color("#FFFF00")).Background(lipgloss.Color("#FF0000")),
	}
}

// Label returns the style of a label in state
func (s *Styles) Label(state overlay.State) lipgloss.Style {
	switch state {
	case overlay.Partial:
		return s.Partial
	case overlay.Found:
		return s.Found
	default:
		return s.Plain
	}
}
