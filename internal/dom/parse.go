package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a parsed static document
type Page struct {
	Root  *Element
	Title string
	// Base is the href of the first <base> element, if any
	Base string
}

// ParseHTML parses a static document into an Element tree.
//
// Static HTML has no layout, so geometry is synthesised: every rendered
// element is one unit square placed at its document order, unless inline
// width/height say otherwise. Visibility comes from inline style, the
// hidden attribute and tags that never render.
func ParseHTML(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &Page{
		Root:  NewDocument(),
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if base, ok := doc.Find("base[href]").First().Attr("href"); ok {
		page.Base = base
	}

	order := 0
	for _, n := range doc.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(page.Root, c, &order)
		}
	}
	return page, nil
}

func convert(parent *Element, n *html.Node, order *int) {
	switch n.Type {
	case html.TextNode:
		parent.AppendChild(NewText(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	el := NewElement(n.Data)
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		el.SetAttr(a.Key, a.Val)
	}

	*order++
	offset := Offset{Top: float64(*order), Width: 1, Height: 1}
	style := Style{Display: "inline", Visibility: "visible"}
	if neverRendered(n) || hasHTMLAttr(n, "hidden") {
		style.Display = "none"
		offset.Width, offset.Height = 0, 0
	}
	applyInlineStyle(AttrOr(el, "style", ""), &style, &offset)
	el.SetStyle(style)
	el.SetOffset(offset)

	parent.AppendChild(el)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		convert(el, c, order)
	}
}

func neverRendered(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript,
		atom.Title, atom.Meta, atom.Link, atom.Base:
		return true
	case atom.Input:
		for _, a := range n.Attr {
			if a.Key == "type" && strings.EqualFold(a.Val, "hidden") {
				return true
			}
		}
	}
	return false
}

func hasHTMLAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// applyInlineStyle reads the declarations of a style attribute that matter
// for hinting
func applyInlineStyle(decl string, style *Style, offset *Offset) {
	for _, part := range strings.Split(decl, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important")))

		switch prop {
		case "display":
			style.Display = value
		case "visibility":
			style.Visibility = value
		case "width":
			if v, ok := parseLength(value); ok {
				offset.Width = v
			}
		case "height":
			if v, ok := parseLength(value); ok {
				offset.Height = v
			}
		}
	}
}

func parseLength(v string) (float64, bool) {
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
