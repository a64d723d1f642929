package browser

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"

	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/keys"
	"github.com/lance13c/vimnav/internal/overlay"
)

type call struct {
	script  string
	arg     map[string]interface{}
	gesture bool
}

// fakeTab answers scripts without a browser
type fakeTab struct {
	url      string
	calls    []call
	response string
	err      error

	listeners []func(ev interface{})
	installs  []string
}

func (f *fakeTab) Listen(fn func(ev interface{})) { f.listeners = append(f.listeners, fn) }

func (f *fakeTab) Install(script, binding string) error {
	f.installs = append(f.installs, binding)
	return f.err
}

func (f *fakeTab) Evaluate(script string, result interface{}) error {
	f.calls = append(f.calls, call{script: script})
	return f.err
}

func (f *fakeTab) Call(fn string, arg interface{}, result interface{}, userGesture bool) error {
	raw, _ := json.Marshal(arg)
	var decoded map[string]interface{}
	json.Unmarshal(raw, &decoded)
	f.calls = append(f.calls, call{script: fn, arg: decoded, gesture: userGesture})
	if f.err != nil {
		return f.err
	}
	resp := f.response
	if resp == "" {
		resp = "true"
		if _, ok := result.(*[]string); ok {
			resp = "[]"
		}
	}
	return json.Unmarshal([]byte(resp), result)
}

func (f *fakeTab) PageInfo() (string, string, error) { return f.url, "", nil }

func (f *fakeTab) last() call { return f.calls[len(f.calls)-1] }

func pageElement(ref, name string) *dom.Element {
	e := dom.NewElement(name)
	e.SetRef(ref)
	return e
}

func TestCreateSendsMarkers(t *testing.T) {
	tab := &fakeTab{}
	p := newPage(tab, overlay.DefaultStyle())

	err := p.Create([]overlay.Marker{
		{Index: 0, Target: pageElement("7", "a"), Label: "1"},
		{Index: 1, Target: pageElement("9", "a"), Label: "2", Position: &dom.Rect{Top: 4, Left: 2}},
		{Index: 2, Target: dom.NewElement("a"), Label: "3"},
	})
	if err == nil || !strings.Contains(err.Error(), "marker 2") {
		t.Fatalf("expected an error for the unreferenced target, got %v", err)
	}

	c := tab.last()
	if c.script != createMarkersScript {
		t.Fatal("wrong script")
	}
	markers := c.arg["markers"].([]interface{})
	if len(markers) != 2 {
		t.Fatalf("sent %d markers, want 2", len(markers))
	}
	second := markers[1].(map[string]interface{})
	pos := second["pos"].(map[string]interface{})
	if second["ref"] != "9" || pos["top"] != 4.0 || pos["left"] != 2.0 {
		t.Errorf("marker = %v", second)
	}
	if style := c.arg["style"].(map[string]interface{}); style["marker_id"] != "VimNavLabel" {
		t.Errorf("style = %v", style)
	}
}

func TestBatchJoinsPageFailures(t *testing.T) {
	tab := &fakeTab{response: `["marker 1: not found","marker 3: not found"]`}
	p := newPage(tab, overlay.DefaultStyle())

	err := p.Update([]overlay.View{{Index: 1, Text: "a", State: overlay.Found, Visible: true}})
	if err == nil || !strings.Contains(err.Error(), "marker 1") || !strings.Contains(err.Error(), "marker 3") {
		t.Fatalf("err = %v", err)
	}
	colors := tab.last().arg["colors"].(map[string]interface{})
	found := colors["found"].(map[string]interface{})
	if found["fg"] != "yellow" || found["bg"] != "red" {
		t.Errorf("found colors = %v", found)
	}
}

func TestActivationUsesUserGesture(t *testing.T) {
	tab := &fakeTab{}
	p := newPage(tab, overlay.DefaultStyle())

	if err := p.Click(pageElement("3", "button")); err != nil {
		t.Fatal(err)
	}
	c := tab.last()
	if !c.gesture || c.arg["action"] != "click" || c.arg["ref"] != "3" {
		t.Errorf("call = %+v", c)
	}

	if err := p.OpenTab("/next"); err != nil {
		t.Fatal(err)
	}
	if c := tab.last(); c.arg["action"] != "open" || c.arg["href"] != "/next" {
		t.Errorf("call = %+v", c)
	}

	if err := p.Focus(dom.NewElement("input")); err == nil {
		t.Error("expected an error for an element without a page reference")
	}
}

func TestExecuteScroll(t *testing.T) {
	tests := []struct {
		cmd  keys.Command
		want scrollStep
	}{
		{keys.ScrollDown, scrollStep{Y: 5}},
		{keys.ScrollLeft, scrollStep{X: -15}},
		{keys.HalfPageUp, scrollStep{Pages: -0.5}},
		{keys.PageDown, scrollStep{Pages: 1}},
		{keys.ScrollBottom, scrollStep{To: "bottom"}},
	}
	for _, tt := range tests {
		tab := &fakeTab{}
		p := newPage(tab, overlay.DefaultStyle())
		if err := p.Execute(context.Background(), tt.cmd); err != nil {
			t.Fatalf("%s: %v", tt.cmd, err)
		}
		arg := tab.last().arg
		got := scrollStep{X: arg["x"].(float64), Y: arg["y"].(float64), Pages: arg["pages"].(float64)}
		if to, ok := arg["to"].(string); ok {
			got.To = to
		}
		if got != tt.want {
			t.Errorf("%s: step = %+v, want %+v", tt.cmd, got, tt.want)
		}
	}

	p := newPage(&fakeTab{}, overlay.DefaultStyle())
	if err := p.Execute(context.Background(), keys.StartHints); err == nil {
		t.Error("hint commands are not page commands")
	}
}

func TestGoUp(t *testing.T) {
	tab := &fakeTab{url: "https://docs.example.com/guide/intro"}
	p := newPage(tab, overlay.DefaultStyle())

	if err := p.Execute(context.Background(), keys.URLPageUp); err != nil {
		t.Fatal(err)
	}
	if c := tab.last(); c.arg["action"] != "navigate" || c.arg["href"] != "https://docs.example.com/guide/" {
		t.Errorf("call = %+v", c)
	}

	if err := p.Execute(context.Background(), keys.URLDomainUp); err != nil {
		t.Fatal(err)
	}
	if c := tab.last(); c.arg["href"] != "https://example.com" {
		t.Errorf("call = %+v", c)
	}

	tab.url = "https://example.com/"
	err := p.Execute(context.Background(), keys.URLPageUp)
	if !errors.Is(err, ErrTopPage) {
		t.Fatalf("err = %v", err)
	}
	if c := tab.last(); c.script != noticeScript || c.arg["text"] != ErrTopPage.Error() {
		t.Errorf("expected a notice, got %+v", c)
	}
}

func TestInstallKeyHandlersOnce(t *testing.T) {
	tab := &fakeTab{}
	p := newPage(tab, overlay.DefaultStyle())

	for i := 0; i < 2; i++ {
		if err := p.InstallKeyHandlers(); err != nil {
			t.Fatalf("install %d: %v", i, err)
		}
	}
	if len(tab.listeners) != 1 || len(tab.installs) != 1 || tab.installs[0] != keyBinding {
		t.Fatalf("listeners = %d, installs = %v", len(tab.listeners), tab.installs)
	}

	emit := tab.listeners[0]
	emit(&cdpruntime.EventBindingCalled{Name: "other", Payload: `{"code":70,"phase":"up"}`})
	emit(&cdpruntime.EventBindingCalled{Name: keyBinding, Payload: `{"code":70,"phase":"up"}`})
	emit(&page.EventFrameNavigated{Frame: &cdp.Frame{ParentID: "top", URL: "https://example.com/frame"}})
	emit(&page.EventFrameNavigated{Frame: &cdp.Frame{URL: "https://example.com/next"}})

	if got := len(p.Keys()); got != 1 {
		t.Fatalf("queued %d keys, want 1", got)
	}
	if k := <-p.Keys(); k.Code != 'F' || k.Phase != keys.Up {
		t.Errorf("key = %+v", k)
	}
	if got := len(p.Navigations()); got != 1 {
		t.Fatalf("queued %d navigations, want 1", got)
	}
	if url := <-p.Navigations(); url != "https://example.com/next" {
		t.Errorf("navigation = %q", url)
	}
}

func TestInstallKeyHandlersRetriesAfterFailure(t *testing.T) {
	tab := &fakeTab{err: errors.New("target closed")}
	p := newPage(tab, overlay.DefaultStyle())

	if err := p.InstallKeyHandlers(); err == nil {
		t.Fatal("expected the install error")
	}
	tab.err = nil
	if err := p.InstallKeyHandlers(); err != nil {
		t.Fatal(err)
	}
	if len(tab.installs) != 2 {
		t.Errorf("installs = %v", tab.installs)
	}
}
