package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"

	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/keys"
	"github.com/lance13c/vimnav/internal/logging"
	"github.com/lance13c/vimnav/internal/overlay"
)

// noticeDuration is how long an in-page toast stays up
const noticeDuration = 3 * time.Second

// scripter is the part of Manager a Page needs
type scripter interface {
	Evaluate(script string, result interface{}) error
	Call(fn string, arg interface{}, result interface{}, userGesture bool) error
	PageInfo() (url string, title string, err error)
	// Listen registers fn for every protocol event of the tab
	Listen(fn func(ev interface{}))
	// Install exposes binding to the page and runs script in the current
	// and every future document
	Install(script, binding string) error
}

// Page exposes the tab to the hint machine: it snapshots the document,
// draws markers, activates elements, runs page commands and forwards keys
type Page struct {
	m     scripter
	style overlay.Style

	keyCh chan keys.RawKey
	navCh chan string

	mu        sync.Mutex
	installed bool
}

// NewPage wraps the manager's tab
func NewPage(m *Manager, style overlay.Style) *Page {
	return newPage(m, style)
}

func newPage(m scripter, style overlay.Style) *Page {
	return &Page{
		m:     m,
		style: style,
		keyCh: make(chan keys.RawKey, 64),
		navCh: make(chan string, 8),
	}
}

// SetStyle changes the look of markers created from now on
func (p *Page) SetStyle(s overlay.Style) {
	p.mu.Lock()
	p.style = s
	p.mu.Unlock()
}

func (p *Page) currentStyle() overlay.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.style
}

// Keys delivers key events from the page
func (p *Page) Keys() <-chan keys.RawKey { return p.keyCh }

// Navigations delivers the URL of every top-level navigation
func (p *Page) Navigations() <-chan string { return p.navCh }

// InstallKeyHandlers registers the key binding and the handler script for
// the current and every future document. Calling it again is a no-op.
func (p *Page) InstallKeyHandlers() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.installed {
		return nil
	}

	p.m.Listen(p.onEvent)
	if err := p.m.Install(keyHandlerScript, keyBinding); err != nil {
		return fmt.Errorf("failed to install key handlers: %w", err)
	}

	p.installed = true
	logging.Info("Key handlers installed")
	return nil
}

// onEvent forwards key bindings and top-level navigations of the tab
func (p *Page) onEvent(ev interface{}) {
	switch e := ev.(type) {
	case *cdpruntime.EventBindingCalled:
		if e.Name != keyBinding {
			return
		}
		k, err := decodeKey(e.Payload)
		if err != nil {
			logging.Warn("Dropping key event: %v", err)
			return
		}
		select {
		case p.keyCh <- k:
		default:
			logging.Warn("Key queue full, dropping %s", keys.Normalize(k))
		}
	case *page.EventFrameNavigated:
		if e.Frame == nil || e.Frame.ParentID != "" {
			return
		}
		select {
		case p.navCh <- e.Frame.URL:
		default:
		}
	}
}

// SetHinting tells the page to swallow keys while labels are shown
func (p *Page) SetHinting(on bool) error {
	return p.m.Evaluate(fmt.Sprintf("window.__vimnavHinting = %t", on), nil)
}

// Snapshot reads the element tree of the current document
func (p *Page) Snapshot() (dom.Node, error) {
	var nodes []rawNode
	if err := p.m.Evaluate(snapshotScript, &nodes); err != nil {
		return nil, fmt.Errorf("failed to snapshot document: %w", err)
	}
	return buildTree(nodes)
}

type markerArg struct {
	Index int     `json:"index"`
	Ref   string  `json:"ref"`
	Label string  `json:"label"`
	Pos   *posArg `json:"pos,omitempty"`
}

type posArg struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

type viewArg struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	State   string `json:"state"`
	Visible bool   `json:"visible"`
}

type colorArg struct {
	FG string `json:"fg"`
	BG string `json:"bg"`
}

type styleArg struct {
	MarkerID   string  `json:"marker_id"`
	FontSize   string  `json:"font_size"`
	Color      string  `json:"color"`
	Background string  `json:"background"`
	Opacity    float64 `json:"opacity"`
}

// Create draws hidden markers before their targets
func (p *Page) Create(markers []overlay.Marker) error {
	s := p.currentStyle()
	arg := struct {
		Style   styleArg    `json:"style"`
		Markers []markerArg `json:"markers"`
	}{
		Style: styleArg{
			MarkerID:   s.MarkerID,
			FontSize:   s.FontSize,
			Color:      s.Color,
			Background: s.Background,
			Opacity:    s.Opacity,
		},
		Markers: make([]markerArg, 0, len(markers)),
	}

	var errs []error
	for _, mk := range markers {
		ref, err := refOf(mk.Target)
		if err != nil {
			errs = append(errs, fmt.Errorf("marker %d: %w", mk.Index, err))
			continue
		}
		ma := markerArg{Index: mk.Index, Ref: ref, Label: mk.Label}
		if mk.Position != nil {
			ma.Pos = &posArg{Top: mk.Position.Top, Left: mk.Position.Left}
		}
		arg.Markers = append(arg.Markers, ma)
	}
	return errors.Join(append(errs, p.batch(createMarkersScript, arg))...)
}

// Update applies marker views
func (p *Page) Update(views []overlay.View) error {
	s := p.currentStyle()
	arg := struct {
		Colors map[string]colorArg `json:"colors"`
		Views  []viewArg           `json:"views"`
	}{
		Colors: make(map[string]colorArg, 3),
		Views:  make([]viewArg, len(views)),
	}
	for _, st := range []overlay.State{overlay.Plain, overlay.Partial, overlay.Found} {
		fg, bg := s.Colors(st)
		arg.Colors[st.String()] = colorArg{FG: fg, BG: bg}
	}
	for i, v := range views {
		arg.Views[i] = viewArg{Index: v.Index, Text: v.Text, State: v.State.String(), Visible: v.Visible}
	}
	return p.batch(updateMarkersScript, arg)
}

// Remove deletes markers
func (p *Page) Remove(indices []int) error {
	arg := struct {
		Indices []int `json:"indices"`
	}{Indices: append([]int{}, indices...)}
	return p.batch(removeMarkersScript, arg)
}

// batch runs a marker script and joins the per-entry failures it reports
func (p *Page) batch(script string, arg interface{}) error {
	var failures []string
	if err := p.m.Call(script, arg, &failures, false); err != nil {
		return err
	}
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = errors.New(f)
	}
	return errors.Join(errs...)
}

type activateArg struct {
	Action string `json:"action"`
	Ref    string `json:"ref,omitempty"`
	Href   string `json:"href,omitempty"`
}

func (p *Page) activate(action string, n dom.Node) error {
	ref, err := refOf(n)
	if err != nil {
		return err
	}
	var ok bool
	if err := p.m.Call(activateScript, activateArg{Action: action, Ref: ref}, &ok, true); err != nil {
		return fmt.Errorf("%s %s: %w", action, n.Name(), err)
	}
	return nil
}

// Navigate follows a link in the current tab
func (p *Page) Navigate(href string) error {
	var ok bool
	return p.m.Call(activateScript, activateArg{Action: "navigate", Href: href}, &ok, true)
}

// OpenTab opens a link in a new tab
func (p *Page) OpenTab(href string) error {
	var ok bool
	return p.m.Call(activateScript, activateArg{Action: "open", Href: href}, &ok, true)
}

func (p *Page) Click(n dom.Node) error         { return p.activate("click", n) }
func (p *Page) DispatchClick(n dom.Node) error { return p.activate("dispatch", n) }
func (p *Page) Focus(n dom.Node) error         { return p.activate("focus", n) }
func (p *Page) Select(n dom.Node) error        { return p.activate("select", n) }

// Notify shows msg as a toast in the page
func (p *Page) Notify(msg string) {
	arg := struct {
		Text string `json:"text"`
		MS   int64  `json:"ms"`
	}{Text: msg, MS: noticeDuration.Milliseconds()}

	var ok bool
	if err := p.m.Call(noticeScript, arg, &ok, false); err != nil {
		logging.Warn("Could not show notice %q: %v", msg, err)
	}
}

// Execute runs a page command
func (p *Page) Execute(ctx context.Context, cmd keys.Command) error {
	switch cmd {
	case keys.URLPageUp, keys.URLDomainUp:
		return p.goUp(cmd)
	}

	step, ok := scrollFor(cmd)
	if !ok {
		return fmt.Errorf("unsupported page command %s", cmd)
	}
	var done bool
	return p.m.Call(scrollScript, step, &done, false)
}

func (p *Page) goUp(cmd keys.Command) error {
	current, _, err := p.m.PageInfo()
	if err != nil {
		return fmt.Errorf("failed to read location: %w", err)
	}

	var target string
	if cmd == keys.URLPageUp {
		target, err = ParentPage(current)
	} else {
		target, err = ParentDomain(current)
	}
	if err != nil {
		p.Notify(err.Error())
		return err
	}

	logging.Debug("Going up from %s to %s", current, target)
	return p.Navigate(target)
}

// scrollStep is the argument of scrollScript
type scrollStep struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Pages float64 `json:"pages"`
	To    string  `json:"to,omitempty"`
}

// scrollFor maps scroll commands to steps. Small steps are 5px vertically
// and 15px horizontally; page steps are measured in window heights.
func scrollFor(cmd keys.Command) (scrollStep, bool) {
	switch cmd {
	case keys.ScrollUp:
		return scrollStep{Y: -5}, true
	case keys.ScrollDown:
		return scrollStep{Y: 5}, true
	case keys.ScrollLeft:
		return scrollStep{X: -15}, true
	case keys.ScrollRight:
		return scrollStep{X: 15}, true
	case keys.HalfPageUp:
		return scrollStep{Pages: -0.5}, true
	case keys.HalfPageDown:
		return scrollStep{Pages: 0.5}, true
	case keys.PageUp:
		return scrollStep{Pages: -1}, true
	case keys.PageDown:
		return scrollStep{Pages: 1}, true
	case keys.ScrollTop:
		return scrollStep{To: "top"}, true
	case keys.ScrollBottom:
		return scrollStep{To: "bottom"}, true
	}
	return scrollStep{}, false
}

// refOf returns the page reference of a snapshot node
func refOf(n dom.Node) (string, error) {
	e, ok := n.(*dom.Element)
	if !ok || e.Ref() == "" {
		return "", fmt.Errorf("%s is not a page element", n.Name())
	}
	return e.Ref(), nil
}
