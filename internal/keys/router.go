package keys

import (
	"context"
	"fmt"

	"github.com/lance13c/vimnav/internal/hint"
	"github.com/lance13c/vimnav/internal/logging"
)

// Hinter is the part of the hint machine keys drive
type Hinter interface {
	Mode() hint.Mode
	Start(newTab bool) hint.Outcome
	Extend(ch string) hint.Outcome
	Trim() hint.Outcome
	Confirm(newTab bool) hint.Outcome
	Cancel() hint.Outcome
	Redisplay() hint.Outcome
	Hide() hint.Outcome
	Reposition() hint.Outcome
}

// Executor runs page commands such as scrolling
type Executor interface {
	Execute(ctx context.Context, cmd Command) error
}

// Bindings is the full key configuration of a router
type Bindings struct {
	Passive Table
	Hinting Table
	// Accept and NewTab confirm a pending match
	Accept string
	NewTab string
}

// DefaultBindings returns the stock key configuration
func DefaultBindings() Bindings {
	return Bindings{
		Passive: DefaultPassive(),
		Hinting: DefaultHinting(),
		Accept:  "g",
		NewTab:  "t",
	}
}

// Result reports what a key event did
type Result struct {
	Descriptor string
	// Handled is false when the event was skipped or unbound
	Handled bool
	Command Command
	Outcome hint.Outcome
	Err     error
}

// Router dispatches key events by phase and navigation mode
type Router struct {
	hinter   Hinter
	exec     Executor
	bindings Bindings
}

// NewRouter creates a router. Nil tables in b get the defaults.
func NewRouter(h Hinter, exec Executor, b Bindings) *Router {
	r := &Router{hinter: h, exec: exec}
	r.SetBindings(b)
	return r
}

// SetBindings replaces the key configuration
func (r *Router) SetBindings(b Bindings) {
	def := DefaultBindings()
	if b.Passive == nil {
		b.Passive = def.Passive
	}
	if b.Hinting == nil {
		b.Hinting = def.Hinting
	}
	if b.Accept == "" {
		b.Accept = def.Accept
	}
	if b.NewTab == "" {
		b.NewTab = def.NewTab
	}
	r.bindings = b
}

// Bindings returns the current key configuration
func (r *Router) Bindings() Bindings { return r.bindings }

// Handle routes one key event
func (r *Router) Handle(ctx context.Context, k RawKey) Result {
	switch k.Phase {
	case Down:
		return r.down(ctx, k)
	case Up:
		return r.up(ctx, k)
	}

	down := r.down(ctx, k)
	up := r.up(ctx, k)
	if !up.Handled && down.Handled {
		return down
	}
	return up
}

// down runs repeatable commands and the Esc escape hatch
func (r *Router) down(ctx context.Context, k RawKey) Result {
	desc := Normalize(k)
	res := Result{Descriptor: desc}

	if r.hinter.Mode() != hint.Idle {
		if k.Code == CodeEscape {
			res.Handled = true
			res.Command = StopHints
			res.Outcome = r.hinter.Cancel()
			return res
		}
	} else if k.Editable {
		return res
	}

	cmd := r.active().Lookup(desc)
	if cmd == NoCommand || !cmd.Repeatable() {
		return res
	}
	return r.run(ctx, res, cmd)
}

// up feeds labels to the machine and runs one-shot commands
func (r *Router) up(ctx context.Context, k RawKey) Result {
	desc := Normalize(k)
	res := Result{Descriptor: desc}

	switch r.hinter.Mode() {
	case hint.AwaitingConfirmation:
		switch desc {
		case r.bindings.Accept:
			res.Handled = true
			res.Outcome = r.hinter.Confirm(false)
			return res
		case r.bindings.NewTab:
			res.Handled = true
			res.Outcome = r.hinter.Confirm(true)
			return res
		case Backspace:
			res.Handled = true
			res.Outcome = r.hinter.Trim()
			return res
		}

	case hint.Hinting:
		switch {
		case IsLabelChar(desc):
			res.Handled = true
			res.Outcome = r.hinter.Extend(desc)
			return res
		case desc == Backspace:
			res.Handled = true
			res.Outcome = r.hinter.Trim()
			return res
		}

	case hint.Idle:
		if k.Editable || k.Code == CodeEscape {
			return res
		}
	}

	cmd := r.active().Lookup(desc)
	if cmd == NoCommand || cmd.Repeatable() {
		return res
	}
	return r.run(ctx, res, cmd)
}

func (r *Router) active() Table {
	if r.hinter.Mode() == hint.Idle {
		return r.bindings.Passive
	}
	return r.bindings.Hinting
}

func (r *Router) run(ctx context.Context, res Result, cmd Command) Result {
	res.Handled = true
	res.Command = cmd
	logging.Debug("Key %s -> %s", res.Descriptor, cmd)

	if cmd.IsHintCommand() {
		res.Outcome = r.hintCommand(cmd)
		return res
	}
	if r.exec == nil {
		res.Err = fmt.Errorf("no executor for %s", cmd)
		return res
	}
	if err := r.exec.Execute(ctx, cmd); err != nil {
		res.Err = fmt.Errorf("%s: %w", cmd, err)
		logging.Warn("Command %s failed: %v", cmd, err)
	}
	return res
}

func (r *Router) hintCommand(cmd Command) hint.Outcome {
	switch cmd {
	case StartHints:
		return r.hinter.Start(false)
	case StartHintsNewTab:
		return r.hinter.Start(true)
	case RedisplayHints:
		return r.hinter.Redisplay()
	case HideHints:
		return r.hinter.Hide()
	case RepositionHints:
		return r.hinter.Reposition()
	default:
		return r.hinter.Cancel()
	}
}
