// Package collect finds the clickable elements of a document and labels them.
package collect

import (
	"fmt"

	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/label"
)

// Candidate is one labelled element
type Candidate struct {
	Node     dom.Node
	Rect     dom.Rect
	Index    int
	Category dom.Category
	Label    string
}

// Result is the outcome of one collection pass
type Result struct {
	Candidates []Candidate
	Codec      *label.Codec
	// Empty is set when nothing on the page qualified
	Empty bool
}

// LabelDigits returns the label width of the result
func (r *Result) LabelDigits() int {
	if r.Codec == nil {
		return 0
	}
	return r.Codec.LabelDigits()
}

// Collector walks a document and keeps elements that can be hinted
type Collector struct {
	alphabet string
}

// New creates a collector for an alphabet setting (see label.Choose)
func New(alphabet string) *Collector {
	return &Collector{alphabet: alphabet}
}

// Collect performs one pre-order traversal below root
func (c *Collector) Collect(root dom.Node) (*Result, error) {
	var nodes []dom.Node
	dom.Walk(root, func(n dom.Node) bool {
		if IsCandidate(n) {
			nodes = append(nodes, n)
		}
		return true
	})

	if len(nodes) == 0 {
		return &Result{Empty: true}, nil
	}

	codec, err := label.ForSetting(c.alphabet, len(nodes))
	if err != nil {
		return nil, fmt.Errorf("failed to build label codec: %w", err)
	}

	cands := make([]Candidate, len(nodes))
	for i, n := range nodes {
		cands[i] = Candidate{
			Node:     n,
			Rect:     PageRect(n),
			Index:    i,
			Category: dom.Classify(n),
			Label:    codec.Encode(i),
		}
	}
	return &Result{Candidates: cands, Codec: codec}, nil
}

// IsCandidate reports whether n is a visible, sized, clickable element
func IsCandidate(n dom.Node) bool {
	return n.Kind() == dom.ElementNode &&
		IsDisplayable(n) &&
		IsVisible(n) &&
		IsClickable(n)
}

// IsDisplayable reports whether n has a rendered size
func IsDisplayable(n dom.Node) bool {
	o := n.Offset()
	return o.Width > 0 && o.Height > 0
}

// IsVisible reports whether neither n nor any ancestor is hidden.
// Nodes that are not attached to a document are never visible.
func IsVisible(n dom.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Kind() == dom.DocumentNode {
			return true
		}
		if cur.Style().Hidden() {
			return false
		}
	}
	return false
}

// IsClickable reports whether n is a form field or carries a focus or click hook
func IsClickable(n dom.Node) bool {
	switch n.Name() {
	case "input", "select", "textarea":
		return true
	}
	return dom.HasAttr(n, "tabindex") ||
		dom.HasAttr(n, "href") ||
		dom.HasAttr(n, "onclick")
}

// PageRect sums the offsets of n and its offset parents. Offsets of div,
// fieldset and li parents are left out, which keeps labels from drifting
// inside nested layout containers.
func PageRect(n dom.Node) dom.Rect {
	o := n.Offset()
	r := dom.Rect{Top: o.Top, Left: o.Left, Width: o.Width, Height: o.Height}

	for p := n.OffsetParent(); p != nil; p = p.OffsetParent() {
		switch p.Name() {
		case "div", "fieldset", "li":
			continue
		}
		po := p.Offset()
		r.Top += po.Top
		r.Left += po.Left
	}
	return r
}
