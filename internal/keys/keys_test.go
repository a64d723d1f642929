package keys

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lance13c/vimnav/internal/hint"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		key  RawKey
		want string
	}{
		{"lower letter", RawKey{Code: 'F'}, "f"},
		{"shifted letter", RawKey{Code: 'F', Shift: true}, "F"},
		{"digit", RawKey{Code: '7'}, "7"},
		{"keypad digit", RawKey{Code: 103}, "7"},
		{"keypad zero", RawKey{Code: 96}, "0"},
		{"keypad multiply", RawKey{Code: 106}, "*"},
		{"keypad decimal", RawKey{Code: 110}, "."},
		{"control", RawKey{Code: 'H', Ctrl: true}, "^h"},
		{"control shift", RawKey{Code: 'H', Ctrl: true, Shift: true}, "^H"},
		{"backspace", RawKey{Code: CodeBackspace}, Backspace},
		{"escape", RawKey{Code: CodeEscape}, Escape},
		{"enter", RawKey{Code: CodeEnter}, Enter},
		{"tab", RawKey{Code: CodeTab}, Tab},
		{"space", RawKey{Code: CodeSpace}, Space},
		{"control backspace", RawKey{Code: CodeBackspace, Ctrl: true}, "^<BS>"},
		{"semicolon", RawKey{Code: 186}, ";"},
		{"shifted semicolon", RawKey{Code: 186, Shift: true}, ":"},
		{"backslash", RawKey{Code: 220}, "\\"},
		{"quote", RawKey{Code: 222}, "'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.key); got != tt.want {
				t.Errorf("Normalize(%+v) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestCodeOfRoundTrips(t *testing.T) {
	for r := rune(33); r < 127; r++ {
		code, shift, ok := CodeOf(r)
		if !ok {
			t.Errorf("%q has no key code", r)
			continue
		}
		// shifted digits report the digit key, as browsers do
		if strings.ContainsRune(shiftedDigits, r) {
			continue
		}
		if got := Normalize(RawKey{Code: code, Shift: shift}); got != string(r) {
			t.Errorf("%q -> code %d shift %v -> %q", r, code, shift, got)
		}
	}
	if _, _, ok := CodeOf('é'); ok {
		t.Error("non ASCII characters have no key code")
	}
}

func TestIsLabelChar(t *testing.T) {
	for _, d := range []string{"0", "9", "a", "z", "A", "Z"} {
		if !IsLabelChar(d) {
			t.Errorf("%q should be a label character", d)
		}
	}
	for _, d := range []string{"", "^a", "<BS>", "*", "ab"} {
		if IsLabelChar(d) {
			t.Errorf("%q should not be a label character", d)
		}
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(map[string]string{"x": "scroll-down", "^x": "start-hints"})
	if err != nil {
		t.Fatal(err)
	}
	if table.Lookup("x") != ScrollDown || table.Lookup("^x") != StartHints {
		t.Errorf("table = %v", table)
	}
	if table.Lookup("q") != NoCommand {
		t.Error("unbound key should map to NoCommand")
	}

	table, err = ParseTable(map[string]string{"x": "none"})
	if err != nil || len(table) != 0 {
		t.Errorf("none should unbind: %v, %v", table, err)
	}

	if _, err := ParseTable(map[string]string{"x": "jump"}); err == nil {
		t.Error("expected an error for an unknown command")
	}
	if _, err := ParseTable(map[string]string{"": "page-up"}); err == nil {
		t.Error("expected an error for an empty descriptor")
	}
}

func TestDefaultTablesRoundTripNames(t *testing.T) {
	for _, table := range []Table{DefaultPassive(), DefaultHinting()} {
		back, err := ParseTable(table.Names())
		if err != nil {
			t.Fatal(err)
		}
		if len(back) != len(table) {
			t.Fatalf("lost bindings: %d vs %d", len(back), len(table))
		}
		for k, c := range table {
			if back[k] != c {
				t.Errorf("%s: %v != %v", k, back[k], c)
			}
		}
	}
	if len(CommandNames()) != int(StopHints) {
		t.Errorf("CommandNames lists %d commands", len(CommandNames()))
	}
}

func TestRepeatable(t *testing.T) {
	for _, c := range []Command{ScrollLeft, ScrollRight, ScrollUp, ScrollDown} {
		if !c.Repeatable() {
			t.Errorf("%s should repeat", c)
		}
	}
	for _, c := range []Command{HalfPageDown, PageUp, ScrollTop, StartHints, StopHints} {
		if c.Repeatable() {
			t.Errorf("%s should not repeat", c)
		}
	}
}

type fakeHinter struct {
	mode  hint.Mode
	calls []string
}

func (f *fakeHinter) Mode() hint.Mode { return f.mode }

func (f *fakeHinter) record(call string) hint.Outcome {
	f.calls = append(f.calls, call)
	return hint.Outcome{Kind: hint.Narrowed}
}

func (f *fakeHinter) Start(newTab bool) hint.Outcome {
	f.mode = hint.Hinting
	if newTab {
		return f.record("start-tab")
	}
	return f.record("start")
}
func (f *fakeHinter) Extend(ch string) hint.Outcome { return f.record("extend " + ch) }
func (f *fakeHinter) Trim() hint.Outcome            { return f.record("trim") }
func (f *fakeHinter) Confirm(newTab bool) hint.Outcome {
	f.mode = hint.Idle
	if newTab {
		return f.record("confirm-tab")
	}
	return f.record("confirm")
}
func (f *fakeHinter) Cancel() hint.Outcome {
	f.mode = hint.Idle
	return f.record("cancel")
}
func (f *fakeHinter) Redisplay() hint.Outcome  { return f.record("redisplay") }
func (f *fakeHinter) Hide() hint.Outcome       { return f.record("hide") }
func (f *fakeHinter) Reposition() hint.Outcome { return f.record("reposition") }

type fakeExecutor struct {
	cmds []Command
	err  error
}

func (f *fakeExecutor) Execute(ctx context.Context, cmd Command) error {
	f.cmds = append(f.cmds, cmd)
	return f.err
}

func newRouter(mode hint.Mode) (*Router, *fakeHinter, *fakeExecutor) {
	h := &fakeHinter{mode: mode}
	e := &fakeExecutor{}
	return NewRouter(h, e, Bindings{}), h, e
}

func key(code int, phase Phase) RawKey { return RawKey{Code: code, Phase: phase} }

func TestRepeatableRunsOnDownOnly(t *testing.T) {
	r, _, e := newRouter(hint.Idle)
	ctx := context.Background()

	r.Handle(ctx, key('J', Down))
	r.Handle(ctx, key('J', Down))
	if res := r.Handle(ctx, key('J', Up)); res.Handled {
		t.Error("key up should not run a repeatable command")
	}
	if len(e.cmds) != 2 || e.cmds[0] != ScrollDown {
		t.Errorf("commands = %v", e.cmds)
	}
}

func TestOneShotRunsOnUpOnly(t *testing.T) {
	r, _, e := newRouter(hint.Idle)
	ctx := context.Background()

	if res := r.Handle(ctx, key('D', Down)); res.Handled {
		t.Error("key down should not run a one-shot command")
	}
	res := r.Handle(ctx, key('D', Up))
	if !res.Handled || res.Command != PageDown {
		t.Fatalf("result = %+v", res)
	}
	if len(e.cmds) != 1 {
		t.Errorf("commands = %v", e.cmds)
	}
}

func TestEditableTargetsPassThrough(t *testing.T) {
	r, h, e := newRouter(hint.Idle)
	ctx := context.Background()

	for _, phase := range []Phase{Down, Up, Press} {
		k := RawKey{Code: 'F', Phase: phase, Editable: true}
		if res := r.Handle(ctx, k); res.Handled {
			t.Errorf("%s in editable target was handled", phase)
		}
	}
	if len(h.calls) != 0 || len(e.cmds) != 0 {
		t.Errorf("calls = %v, commands = %v", h.calls, e.cmds)
	}
}

func TestHintingFlow(t *testing.T) {
	r, h, _ := newRouter(hint.Idle)
	ctx := context.Background()

	r.Handle(ctx, key('F', Press))
	if h.mode != hint.Hinting {
		t.Fatal("f should start hinting")
	}
	r.Handle(ctx, key('A', Up))
	r.Handle(ctx, key(CodeBackspace, Up))
	r.Handle(ctx, key(99, Up)) // keypad 3
	want := "start extend a trim extend 3"
	if got := strings.Join(h.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

func TestEscapeCancelsOnKeyDown(t *testing.T) {
	r, h, _ := newRouter(hint.Hinting)
	ctx := context.Background()

	res := r.Handle(ctx, key(CodeEscape, Down))
	if !res.Handled || res.Command != StopHints {
		t.Fatalf("result = %+v", res)
	}
	if res := r.Handle(ctx, key(CodeEscape, Up)); res.Handled {
		t.Error("escape up while idle should be skipped")
	}
	if len(h.calls) != 1 || h.calls[0] != "cancel" {
		t.Errorf("calls = %v", h.calls)
	}
}

func TestConfirmKeys(t *testing.T) {
	tests := []struct {
		name string
		key  RawKey
		want string
	}{
		{"accept", key('G', Up), "confirm"},
		{"new tab", key('T', Up), "confirm-tab"},
		{"backspace", key(CodeBackspace, Up), "trim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, h, _ := newRouter(hint.AwaitingConfirmation)
			if res := r.Handle(context.Background(), tt.key); !res.Handled {
				t.Fatal("not handled")
			}
			if len(h.calls) != 1 || h.calls[0] != tt.want {
				t.Errorf("calls = %v, want %s", h.calls, tt.want)
			}
		})
	}

	r, h, _ := newRouter(hint.AwaitingConfirmation)
	r.Handle(context.Background(), key('X', Up))
	if len(h.calls) != 0 {
		t.Errorf("other letters must not extend while awaiting confirmation: %v", h.calls)
	}
}

func TestCustomConfirmKeys(t *testing.T) {
	h := &fakeHinter{mode: hint.AwaitingConfirmation}
	r := NewRouter(h, &fakeExecutor{}, Bindings{Accept: Enter, NewTab: Space})

	r.Handle(context.Background(), key(CodeSpace, Up))
	if len(h.calls) != 1 || h.calls[0] != "confirm-tab" {
		t.Errorf("calls = %v", h.calls)
	}
}

func TestHintingTable(t *testing.T) {
	tests := []struct {
		key  RawKey
		want string
	}{
		{RawKey{Code: 'S', Ctrl: true, Phase: Up}, "redisplay"},
		{RawKey{Code: 'D', Ctrl: true, Phase: Up}, "hide"},
		{RawKey{Code: 'R', Ctrl: true, Phase: Up}, "reposition"},
		{RawKey{Code: 'F', Ctrl: true, Phase: Up}, "cancel"},
	}
	for _, tt := range tests {
		r, h, _ := newRouter(hint.Hinting)
		r.Handle(context.Background(), tt.key)
		if len(h.calls) != 1 || h.calls[0] != tt.want {
			t.Errorf("%s: calls = %v, want %s", Normalize(tt.key), h.calls, tt.want)
		}
	}

	r, _, e := newRouter(hint.Hinting)
	r.Handle(context.Background(), RawKey{Code: 'J', Ctrl: true, Phase: Press})
	if len(e.cmds) != 1 || e.cmds[0] != ScrollDown {
		t.Errorf("^j while hinting: commands = %v", e.cmds)
	}
}

func TestExecutorErrorsAreReported(t *testing.T) {
	h := &fakeHinter{}
	e := &fakeExecutor{err: errors.New("already at top")}
	r := NewRouter(h, e, Bindings{})

	res := r.Handle(context.Background(), RawKey{Code: 'U', Shift: true, Phase: Press})
	if res.Command != URLPageUp || !errors.Is(res.Err, e.err) {
		t.Errorf("result = %+v", res)
	}
}
