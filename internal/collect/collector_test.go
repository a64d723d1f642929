package collect

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/label"
)

func sized(el *dom.Element) *dom.Element {
	el.SetOffset(dom.Offset{Width: 10, Height: 10})
	return el
}

func TestCollectFiltersAndOrders(t *testing.T) {
	root := dom.NewDocument()
	body := root.AppendChild(sized(dom.NewElement("body")))

	link := body.AppendChild(sized(dom.NewElement("a", dom.A("href", "/a"))))
	nested := link.AppendChild(sized(dom.NewElement("span", dom.A("onclick", "x()"))))

	hidden := body.AppendChild(sized(dom.NewElement("div")))
	hidden.SetStyle(dom.Style{Display: "none"})
	hidden.AppendChild(sized(dom.NewElement("a", dom.A("href", "/hidden"))))

	invisible := body.AppendChild(sized(dom.NewElement("div")))
	invisible.SetStyle(dom.Style{Visibility: "hidden"})
	invisible.AppendChild(sized(dom.NewElement("button", dom.A("onclick", "x()"))))

	body.AppendChild(dom.NewElement("input")) // no size
	body.AppendChild(sized(dom.NewElement("p")))
	field := body.AppendChild(sized(dom.NewElement("textarea")))
	focusable := body.AppendChild(sized(dom.NewElement("div", dom.A("tabindex", "0"))))

	res, err := New(label.SettingOptimal).Collect(root)
	if err != nil {
		t.Fatal(err)
	}
	if res.Empty {
		t.Fatal("result should not be empty")
	}

	want := []*dom.Element{link, nested, field, focusable}
	if len(res.Candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(res.Candidates), len(want))
	}
	for i, c := range res.Candidates {
		if c.Node != dom.Node(want[i]) {
			t.Errorf("candidate %d is %s, want %s", i, c.Node.Name(), want[i].Name())
		}
		if c.Index != i {
			t.Errorf("candidate %d has index %d", i, c.Index)
		}
		if c.Label != fmt.Sprint(i+1) {
			t.Errorf("candidate %d label %q, want %d", i, c.Label, i+1)
		}
	}
	if res.Candidates[0].Category.Kind != dom.Link {
		t.Errorf("first candidate category = %v", res.Candidates[0].Category)
	}
	if res.Candidates[1].Category.Kind != dom.ScriptHandler {
		t.Errorf("second candidate category = %v", res.Candidates[1].Category)
	}
}

func TestCollectEmpty(t *testing.T) {
	root := dom.NewDocument()
	root.AppendChild(sized(dom.NewElement("p")))

	res, err := New(label.SettingOptimal).Collect(root)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Empty || len(res.Candidates) != 0 || res.LabelDigits() != 0 {
		t.Errorf("got %+v, want empty", res)
	}
}

func TestCollectForty(t *testing.T) {
	root := dom.NewDocument()
	for i := 0; i < 40; i++ {
		root.AppendChild(sized(dom.NewElement("a", dom.A("href", fmt.Sprintf("/%d", i)))))
	}

	res, err := New(label.SettingOptimal).Collect(root)
	if err != nil {
		t.Fatal(err)
	}
	if res.Codec.Base() != 50 || res.LabelDigits() != 1 {
		t.Fatalf("base=%d digits=%d", res.Codec.Base(), res.LabelDigits())
	}
	var first []string
	for _, c := range res.Candidates[:14] {
		first = append(first, c.Label)
	}
	if got := strings.Join(first, ""); got != "abcdefghijklmn" {
		t.Errorf("labels = %s", got)
	}
}

func TestCollectBadAlphabet(t *testing.T) {
	root := dom.NewDocument()
	root.AppendChild(sized(dom.NewElement("a", dom.A("href", "/"))))

	if _, err := New("aa").Collect(root); err == nil {
		t.Error("expected an error for a duplicate-symbol alphabet")
	}
}

func TestIsVisibleDetached(t *testing.T) {
	el := sized(dom.NewElement("a", dom.A("href", "/")))
	if IsVisible(el) {
		t.Error("detached element must not be visible")
	}
	parent := dom.NewElement("div")
	parent.AppendChild(el)
	if IsVisible(el) {
		t.Error("element under a detached parent must not be visible")
	}
}

func TestPageRect(t *testing.T) {
	table := dom.NewElement("table")
	table.SetOffset(dom.Offset{Top: 100, Left: 20})
	div := dom.NewElement("div")
	div.SetOffset(dom.Offset{Top: 50, Left: 50})
	div.SetOffsetParent(table)
	cell := dom.NewElement("td")
	cell.SetOffset(dom.Offset{Top: 7, Left: 3})
	cell.SetOffsetParent(div)
	link := dom.NewElement("a")
	link.SetOffset(dom.Offset{Top: 1, Left: 2, Width: 30, Height: 12})
	link.SetOffsetParent(cell)

	got := PageRect(link)
	want := dom.Rect{Top: 108, Left: 25, Width: 30, Height: 12}
	if got != want {
		t.Errorf("PageRect = %+v, want %+v", got, want)
	}
}

func TestCollectParsedHTML(t *testing.T) {
	page, err := dom.ParseHTML(strings.NewReader(`<html><head><link href="/style.css"></head>
<body><a href="/a">a</a><div style="display:none"><a href="/b">b</a></div>
<form><input name="q"><input type="hidden" name="t"><select><option>x</option></select></form></body></html>`))
	if err != nil {
		t.Fatal(err)
	}

	res, err := New(label.SettingNumeric).Collect(page.Root)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, c := range res.Candidates {
		got = append(got, c.Label+"="+c.Node.Name())
	}
	if strings.Join(got, " ") != "1=a 2=input 3=select" {
		t.Errorf("candidates = %v", got)
	}
}
