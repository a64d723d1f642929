// Package dom describes the document capability the hinting core runs on.
//
// Collection, overlay placement and activation only need to walk element
// trees and read a handful of properties, so they are written against the
// Node interface. Element is the in-memory implementation used by the
// offline parser, the browser snapshot and the tests.
package dom

// NodeKind is the kind of a document node
type NodeKind int

const (
	DocumentNode NodeKind = iota
	ElementNode
	TextNode
	OtherNode
)

// Style holds the computed properties that decide visibility
type Style struct {
	Display    string
	Visibility string
}

// Hidden reports whether the style alone hides the node
func (s Style) Hidden() bool {
	return s.Display == "none" || s.Visibility == "hidden"
}

// Offset is the layout box of a node relative to its offset parent
type Offset struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Rect is a box in page coordinates
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Node is the read side of a document node
type Node interface {
	Kind() NodeKind
	// Name returns the lower-case tag name for elements
	Name() string
	Attr(name string) (string, bool)
	Style() Style
	Offset() Offset
	OffsetParent() Node
	Parent() Node
	Children() []Node
}

// HasAttr reports whether n carries the attribute at all
func HasAttr(n Node, name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// AttrOr returns the attribute value or def when it is missing
func AttrOr(n Node, name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Walk visits every node below root in pre-order. Returning false from fn
// skips the node's children.
func Walk(root Node, fn func(Node) bool) {
	for _, c := range root.Children() {
		if fn(c) {
			Walk(c, fn)
		}
	}
}
