package dom

import (
	"errors"
	"strings"
	"testing"
)

func TestInsertBeforeAndRemove(t *testing.T) {
	root := NewDocument()
	a := root.AppendChild(NewElement("a"))
	b := root.AppendChild(NewElement("b"))

	marker := NewElement("span")
	if err := root.InsertBefore(marker, b); err != nil {
		t.Fatal(err)
	}

	got := names(root.ChildElements())
	if got != "a,span,b" {
		t.Fatalf("children = %s, want a,span,b", got)
	}
	if marker.Parent() != Node(root) {
		t.Error("marker parent not set")
	}

	if err := root.RemoveChild(marker); err != nil {
		t.Fatal(err)
	}
	if got := names(root.ChildElements()); got != "a,b" {
		t.Fatalf("children after remove = %s", got)
	}
	if marker.Parent() != nil {
		t.Error("removed marker still has a parent")
	}

	if err := root.RemoveChild(marker); !errors.Is(err, ErrNotChild) {
		t.Errorf("second remove: got %v, want ErrNotChild", err)
	}
	if err := a.InsertBefore(NewElement("i"), b); !errors.Is(err, ErrNotChild) {
		t.Errorf("foreign ref: got %v, want ErrNotChild", err)
	}
}

func TestDetachedNodeHasNilParent(t *testing.T) {
	el := NewElement("div")
	if el.Parent() != nil {
		t.Error("detached element must report a nil parent interface")
	}
	if el.OffsetParent() != nil {
		t.Error("offset parent must be a nil interface when unset")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		el   *Element
		want Category
	}{
		{"anchor", NewElement("a", A("href", "/x")), Category{Kind: Link, Href: "/x"}},
		{"anchor with onclick", NewElement("a", A("href", "/x"), A("onclick", "f()")), Category{Kind: Link, Href: "/x"}},
		{"anchor without href", NewElement("a", A("tabindex", "0")), Category{Kind: Unknown}},
		{"anchor with empty href", NewElement("a", A("href", " ")), Category{Kind: Unknown}},
		{"onclick div", NewElement("div", A("onclick", "f()")), Category{Kind: ScriptHandler}},
		{"text input", NewElement("input", A("type", "text")), Category{Kind: FormControl, Control: TextEntry}},
		{"password input", NewElement("input", A("type", "PASSWORD")), Category{Kind: FormControl, Control: TextEntry}},
		{"file input", NewElement("input", A("type", "file")), Category{Kind: FormControl, Control: TextEntry}},
		{"untyped input", NewElement("input"), Category{Kind: FormControl, Control: TextEntry}},
		{"checkbox", NewElement("input", A("type", "checkbox")), Category{Kind: FormControl, Control: NativeInput}},
		{"textarea", NewElement("textarea"), Category{Kind: FormControl, Control: TextArea}},
		{"select", NewElement("select"), Category{Kind: FormControl, Control: Select}},
		{"area with href", NewElement("area", A("href", "/map")), Category{Kind: Link, Href: "/map"}},
		{"tabindex span", NewElement("span", A("tabindex", "-1")), Category{Kind: Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.el); got != tt.want {
				t.Errorf("Classify = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEditable(t *testing.T) {
	tests := []struct {
		el   *Element
		want bool
	}{
		{NewElement("textarea"), true},
		{NewElement("input"), true},
		{NewElement("input", A("type", "password")), true},
		{NewElement("input", A("type", "submit")), false},
		{NewElement("div", A("contenteditable", "true")), true},
		{NewElement("div"), false},
	}
	for _, tt := range tests {
		if got := Editable(tt.el); got != tt.want {
			t.Errorf("Editable(%s %v) = %v, want %v", tt.el.Name(), tt.el.Attrs(), got, tt.want)
		}
	}
	if Editable(nil) {
		t.Error("Editable(nil) = true")
	}
}

func TestParseHTML(t *testing.T) {
	src := `<!doctype html>
<html><head><title> Example </title><base href="https://example.com/docs/"><script>var x;</script></head>
<body>
  <a href="/one">One</a>
  <div hidden><a href="/two">Two</a></div>
  <input type="hidden" name="csrf">
  <button style="display: none !important">Hidden</button>
  <span style="width: 0px; height:12px" onclick="go()">Zero</span>
  <p style="VISIBILITY: Hidden">secret</p>
</body></html>`

	page, err := ParseHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Example" {
		t.Errorf("Title = %q", page.Title)
	}
	if page.Base != "https://example.com/docs/" {
		t.Errorf("Base = %q", page.Base)
	}

	byName := func(name string) []*Element {
		return page.Root.Find(func(e *Element) bool { return e.Name() == name })
	}

	anchors := byName("a")
	if len(anchors) != 2 {
		t.Fatalf("found %d anchors, want 2", len(anchors))
	}
	if anchors[0].Style().Hidden() {
		t.Error("first anchor should be visible")
	}
	if anchors[0].Offset().Width <= 0 || anchors[0].Offset().Height <= 0 {
		t.Errorf("first anchor has no size: %+v", anchors[0].Offset())
	}
	if anchors[0].TextContent() != "One" {
		t.Errorf("anchor text = %q", anchors[0].TextContent())
	}
	if anchors[0].Offset().Top >= anchors[1].Offset().Top {
		t.Error("document order should give increasing tops")
	}

	if div := anchors[1].ParentElement(); !div.Style().Hidden() {
		t.Error("hidden attribute must hide the element")
	}
	if !byName("script")[0].Style().Hidden() {
		t.Error("script must not render")
	}
	if !byName("input")[0].Style().Hidden() {
		t.Error("hidden input must not render")
	}
	if !byName("button")[0].Style().Hidden() {
		t.Error("inline display:none !important must hide")
	}
	span := byName("span")[0]
	if span.Offset().Width != 0 || span.Offset().Height != 12 {
		t.Errorf("span offset = %+v", span.Offset())
	}
	if !byName("p")[0].Style().Hidden() {
		t.Error("inline visibility must be case-insensitive")
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	root := NewDocument()
	outer := root.AppendChild(NewElement("div"))
	outer.AppendChild(NewElement("a"))
	root.AppendChild(NewElement("p"))

	var seen []string
	Walk(root, func(n Node) bool {
		seen = append(seen, n.Name())
		return n.Name() != "div"
	})
	if got := strings.Join(seen, ","); got != "div,p" {
		t.Errorf("visited %s, want div,p", got)
	}
}

func names(els []*Element) string {
	var parts []string
	for _, e := range els {
		parts = append(parts, e.Name())
	}
	return strings.Join(parts, ",")
}
