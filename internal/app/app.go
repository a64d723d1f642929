// Package app runs the event loop that owns the key router and the hint
// machine. Every other goroutine talks to it through channels.
package app

import (
	"context"
	"errors"

	"github.com/lance13c/vimnav/internal/config"
	"github.com/lance13c/vimnav/internal/hint"
	"github.com/lance13c/vimnav/internal/keys"
	"github.com/lance13c/vimnav/internal/logging"
	"github.com/lance13c/vimnav/internal/overlay"
)

// Page is everything the loop needs from a browser tab
type Page interface {
	hint.Document
	overlay.Surface
	hint.Activator
	keys.Executor
	Notify(msg string)
	SetHinting(on bool) error
	SetStyle(s overlay.Style)
}

// EventKind tells observers what happened
type EventKind int

const (
	KeyHandled EventKind = iota
	Notice
	Navigated
	Reloaded
)

// Event is published to the observer after every state change
type Event struct {
	Kind   EventKind
	Result keys.Result
	Text   string
	Status hint.Status
}

// Sources are the inputs of the loop. Nil channels are never selected.
type Sources struct {
	Keys        <-chan keys.RawKey
	Navigations <-chan string
	// Done stops the loop when closed, e.g. when the browser exits
	Done <-chan struct{}
}

// App serializes key events, navigations and config reloads
type App struct {
	page    Page
	machine *hint.Machine
	router  *keys.Router

	input   chan keys.RawKey
	reloads chan *config.Config
	observe func(Event)

	// hinting mirrors what the page was last told; nil means unknown
	hinting *bool
}

// New wires a loop to page using cfg. observe may be nil.
func New(cfg *config.Config, page Page, observe func(Event)) (*App, error) {
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}

	a := &App{
		page:    page,
		input:   make(chan keys.RawKey, 64),
		reloads: make(chan *config.Config, 1),
		observe: observe,
	}
	page.SetStyle(cfg.Style)
	a.machine = hint.NewMachine(cfg.HintOptions(), page, page, page, notifier{a})
	a.router = keys.NewRouter(a.machine, page, bindings)
	return a, nil
}

// notifier shows machine notices in the page and hands them to the observer
type notifier struct{ a *App }

func (n notifier) Notify(msg string) {
	n.a.page.Notify(msg)
	n.a.publish(Event{Kind: Notice, Text: msg})
}

// SendKey queues a key from a source other than the page, such as the
// terminal. It drops the key when the queue is full.
func (a *App) SendKey(k keys.RawKey) {
	select {
	case a.input <- k:
	default:
		logging.Warn("Input queue full, dropping %s", keys.Normalize(k))
	}
}

// Reload swaps in a new configuration. Only the latest pending one is kept.
func (a *App) Reload(cfg *config.Config) {
	for {
		select {
		case a.reloads <- cfg:
			return
		default:
		}
		select {
		case <-a.reloads:
		default:
		}
	}
}

// Run processes events until ctx is cancelled or a source closes
func (a *App) Run(ctx context.Context, src Sources) error {
	logging.Info("Event loop started")
	defer logging.Info("Event loop stopped")

	a.publish(Event{Kind: Reloaded})
	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return nil
		case <-src.Done:
			return errors.New("browser closed")
		case k, ok := <-src.Keys:
			if !ok {
				return errors.New("page key stream closed")
			}
			a.handleKey(ctx, k)
		case k := <-a.input:
			a.handleKey(ctx, k)
		case url, ok := <-src.Navigations:
			if !ok {
				src.Navigations = nil
				continue
			}
			a.handleNavigation(url)
		case cfg := <-a.reloads:
			a.applyConfig(cfg)
		}
	}
}

func (a *App) handleKey(ctx context.Context, k keys.RawKey) {
	res := a.router.Handle(ctx, k)
	if !res.Handled {
		return
	}
	if res.Err != nil {
		logging.Warn("Key %s: %v", res.Descriptor, res.Err)
	} else {
		logging.Debug("Key %s: %s %s", res.Descriptor, res.Command, res.Outcome.Kind)
	}
	a.syncHinting()
	a.publish(Event{Kind: KeyHandled, Result: res})
}

// handleNavigation drops a session whose document went away
func (a *App) handleNavigation(url string) {
	logging.Debug("Navigated to %s", url)
	a.hinting = nil
	if a.machine.Mode() != hint.Idle {
		if out := a.machine.Cancel(); out.Err != nil {
			logging.Debug("Markers of the previous document: %v", out.Err)
		}
	}
	a.syncHinting()
	a.publish(Event{Kind: Navigated, Text: url})
}

func (a *App) applyConfig(cfg *config.Config) {
	bindings, err := cfg.Bindings()
	if err != nil {
		logging.Error("Ignoring configuration: %v", err)
		a.publish(Event{Kind: Notice, Text: err.Error()})
		return
	}
	prev := a.machine.Options().Alphabet
	a.machine.SetOptions(cfg.HintOptions())
	a.router.SetBindings(bindings)
	a.page.SetStyle(cfg.Style)
	logging.Info("Configuration applied (alphabet %s -> %s)", prev, cfg.Hints.Alphabet)
	a.publish(Event{Kind: Reloaded})
}

// syncHinting tells the page whether to swallow keys
func (a *App) syncHinting() {
	on := a.machine.Mode() != hint.Idle
	if a.hinting != nil && *a.hinting == on {
		return
	}
	if err := a.page.SetHinting(on); err != nil {
		logging.Warn("Could not set hinting flag: %v", err)
		return
	}
	a.hinting = &on
}

func (a *App) shutdown() {
	if a.machine.Mode() == hint.Idle {
		return
	}
	if out := a.machine.Cancel(); out.Err != nil {
		logging.Warn("Removing markers on shutdown: %v", out.Err)
	}
}

func (a *App) publish(ev Event) {
	if a.observe == nil {
		return
	}
	ev.Status = a.machine.Status()
	a.observe(ev)
}
