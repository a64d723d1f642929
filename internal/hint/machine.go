// Package hint runs the label-selection state machine.
package hint

import (
	"errors"
	"fmt"

	"github.com/lance13c/vimnav/internal/collect"
	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/logging"
	"github.com/lance13c/vimnav/internal/overlay"
)

// User-visible notices
const (
	NoticeNoCandidates = "No clickable node found on this page."
)

// Document supplies the element tree to collect from
type Document interface {
	Snapshot() (dom.Node, error)
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(msg string)
}

// Options configure how sessions are started and resolved
type Options struct {
	// Alphabet is a label.Choose setting
	Alphabet   string
	AutoSelect bool
	Shorten    bool
}

// OutcomeKind classifies the result of a transition
type OutcomeKind int

const (
	// Ignored means the input had no effect
	Ignored OutcomeKind = iota
	Started
	NoCandidates
	Narrowed
	AwaitingConfirm
	Activated
	ActivationFailed
	Cancelled
	Redrawn
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Started:
		return "started"
	case NoCandidates:
		return "no-candidates"
	case Narrowed:
		return "narrowed"
	case AwaitingConfirm:
		return "awaiting-confirm"
	case Activated:
		return "activated"
	case ActivationFailed:
		return "activation-failed"
	case Cancelled:
		return "cancelled"
	case Redrawn:
		return "redrawn"
	case Failed:
		return "failed"
	default:
		return "ignored"
	}
}

// Outcome is the result of a transition
type Outcome struct {
	Kind   OutcomeKind
	Notice string
	Err    error
}

// Machine owns at most one hint session
type Machine struct {
	opts      Options
	doc       Document
	surface   overlay.Surface
	activator Activator
	notifier  Notifier
	collector *collect.Collector

	session *Session
}

// NewMachine wires the machine to its page capabilities
func NewMachine(opts Options, doc Document, surface overlay.Surface, activator Activator, notifier Notifier) *Machine {
	return &Machine{
		opts:      opts,
		doc:       doc,
		surface:   surface,
		activator: activator,
		notifier:  notifier,
		collector: collect.New(opts.Alphabet),
	}
}

// SetOptions replaces the options. A live session keeps its alphabet.
func (m *Machine) SetOptions(opts Options) {
	m.opts = opts
	m.collector = collect.New(opts.Alphabet)
}

// Options returns the current options
func (m *Machine) Options() Options { return m.opts }

// Mode returns the current navigation state
func (m *Machine) Mode() Mode {
	switch {
	case m.session == nil:
		return Idle
	case m.session.AwaitingConfirm:
		return AwaitingConfirmation
	default:
		return Hinting
	}
}

// Start collects candidates and shows their labels. A live session is torn
// down first.
func (m *Machine) Start(newTab bool) Outcome {
	if m.session != nil {
		if err := m.teardown(); err != nil {
			logging.Warn("Tearing down previous session: %v", err)
		}
	}

	root, err := m.doc.Snapshot()
	if err != nil {
		return m.fail(fmt.Errorf("failed to read document: %w", err))
	}
	res, err := m.collector.Collect(root)
	if err != nil {
		return m.fail(err)
	}
	if res.Empty {
		m.notify(NoticeNoCandidates)
		return Outcome{Kind: NoCandidates, Notice: NoticeNoCandidates}
	}

	s := &Session{
		Candidates:  res.Candidates,
		Codec:       res.Codec,
		LabelDigits: res.LabelDigits(),
		Matched:     -1,
		NewTab:      newTab,
	}
	s.overlays, err = overlay.NewManager(m.surface, s.Candidates, m.opts.Shorten, false)
	m.session = s
	if err != nil {
		return m.abort(err)
	}
	if _, err := s.overlays.Render(""); err != nil {
		return m.abort(err)
	}

	logging.Debug("Hinting started: %d candidates, %d digits, base %d", len(s.Candidates), s.LabelDigits, s.Codec.Base())
	return Outcome{Kind: Started}
}

// Extend appends ch to the prefix when some label still starts with the result
func (m *Machine) Extend(ch string) Outcome {
	s := m.session
	if s == nil || s.AwaitingConfirm || ch == "" {
		return Outcome{Kind: Ignored}
	}

	next := s.Prefix + ch
	if !s.hasPrefix(next) {
		return Outcome{Kind: Ignored}
	}
	s.Prefix = next

	matched, err := s.overlays.Render(s.Prefix)
	if err != nil {
		return m.abort(err)
	}
	if matched < 0 {
		return Outcome{Kind: Narrowed}
	}

	s.Matched = matched
	if m.opts.AutoSelect {
		return m.activate(matched, s.NewTab)
	}
	s.AwaitingConfirm = true
	return Outcome{Kind: AwaitingConfirm}
}

// Trim drops the last prefix character and any match
func (m *Machine) Trim() Outcome {
	s := m.session
	if s == nil || (!s.AwaitingConfirm && s.Prefix == "") {
		return Outcome{Kind: Ignored}
	}

	s.AwaitingConfirm = false
	s.Matched = -1
	if s.Prefix != "" {
		s.Prefix = s.Prefix[:len(s.Prefix)-1]
	}

	if _, err := s.overlays.Render(s.Prefix); err != nil {
		return m.abort(err)
	}
	return Outcome{Kind: Narrowed}
}

// Confirm activates the pending match
func (m *Machine) Confirm(newTab bool) Outcome {
	s := m.session
	if s == nil || !s.AwaitingConfirm {
		return Outcome{Kind: Ignored}
	}
	s.AwaitingConfirm = false
	return m.activate(s.Matched, newTab)
}

// Cancel discards the session
func (m *Machine) Cancel() Outcome {
	if m.session == nil {
		return Outcome{Kind: Ignored}
	}
	return Outcome{Kind: Cancelled, Err: m.teardown()}
}

// Redisplay shows the markers again after Hide, as the current prefix
// would render them
func (m *Machine) Redisplay() Outcome {
	s := m.session
	if s == nil {
		return Outcome{Kind: Ignored}
	}
	if _, err := s.overlays.Render(s.Prefix); err != nil {
		return m.abort(err)
	}
	return Outcome{Kind: Redrawn}
}

// Hide makes every marker invisible and keeps the session
func (m *Machine) Hide() Outcome {
	s := m.session
	if s == nil {
		return Outcome{Kind: Ignored}
	}
	if err := s.overlays.Hide(); err != nil {
		return m.abort(err)
	}
	return Outcome{Kind: Redrawn}
}

// Reposition toggles page-coordinate placement, recreating every marker
func (m *Machine) Reposition() Outcome {
	s := m.session
	if s == nil {
		return Outcome{Kind: Ignored}
	}

	err := errors.Join(s.overlays.Hide(), s.overlays.Remove())
	if err != nil {
		logging.Warn("Removing overlays before reposition: %v", err)
	}

	s.RelativePositioning = !s.RelativePositioning
	s.overlays, err = overlay.NewManager(m.surface, s.Candidates, m.opts.Shorten, s.RelativePositioning)
	if err != nil {
		return m.abort(err)
	}
	if _, err := s.overlays.Render(s.Prefix); err != nil {
		return m.abort(err)
	}
	return Outcome{Kind: Redrawn}
}

// Status returns a copy of the machine state for displays
func (m *Machine) Status() Status {
	st := Status{Mode: m.Mode(), Matched: -1}
	s := m.session
	if s == nil {
		return st
	}

	st.Prefix = s.Prefix
	st.LabelDigits = s.LabelDigits
	st.Matched = s.Matched
	st.NewTab = s.NewTab
	st.Relative = s.RelativePositioning

	views := s.overlays.Views()
	st.Entries = make([]Entry, len(s.Candidates))
	for i, c := range s.Candidates {
		e := Entry{
			Label:    c.Label,
			Name:     c.Node.Name(),
			Category: c.Category.String(),
		}
		if i < len(views) {
			e.Text = views[i].Text
			e.State = views[i].State
			e.Visible = views[i].Visible
		}
		st.Entries[i] = e
	}
	return st
}

// activate tears the session down and runs the action for candidate idx
func (m *Machine) activate(idx int, newTab bool) Outcome {
	cand := m.session.Candidates[idx]
	if err := m.teardown(); err != nil {
		logging.Warn("Tearing down session before activation: %v", err)
	}

	logging.Debug("Activating %s %q (%s, new tab %v)", cand.Node.Name(), cand.Label, cand.Category, newTab)
	if err := Dispatch(m.activator, cand, newTab); err != nil {
		var notice string
		if errors.Is(err, ErrNoActivation) {
			notice = fmt.Sprintf("Could not click element %s: %s\nNo idea what to do with it.", cand.Label, cand.Node.Name())
		} else {
			notice = fmt.Sprintf("Could not activate element %s: %v", cand.Label, err)
		}
		m.notify(notice)
		return Outcome{Kind: ActivationFailed, Notice: notice, Err: err}
	}
	return Outcome{Kind: Activated}
}

// abort discards a session whose overlays could not be drawn
func (m *Machine) abort(err error) Outcome {
	if m.session != nil {
		if terr := m.teardown(); terr != nil {
			err = errors.Join(err, terr)
		}
	}
	return m.fail(err)
}

func (m *Machine) fail(err error) Outcome {
	logging.Error("Hinting failed: %v", err)
	notice := fmt.Sprintf("Hinting failed: %v", err)
	m.notify(notice)
	return Outcome{Kind: Failed, Notice: notice, Err: err}
}

func (m *Machine) teardown() error {
	s := m.session
	m.session = nil
	if s == nil || s.overlays == nil {
		return nil
	}
	return errors.Join(s.overlays.Hide(), s.overlays.Remove())
}

func (m *Machine) notify(msg string) {
	if m.notifier != nil {
		m.notifier.Notify(msg)
	}
}
