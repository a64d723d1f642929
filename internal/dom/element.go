package dom

import (
	"errors"
	"strings"
)

// ErrNotChild is returned when a reference node is not a child of the receiver
var ErrNotChild = errors.New("node is not a child of this element")

// Attribute is one name/value pair, kept in source order
type Attribute struct {
	Name  string
	Value string
}

// Element is a mutable in-memory node
type Element struct {
	kind         NodeKind
	name         string
	attrs        []Attribute
	style        Style
	offset       Offset
	offsetParent *Element
	parent       *Element
	children     []*Element
	text         string
	ref          string
}

// NewDocument creates an empty document root
func NewDocument() *Element {
	return &Element{kind: DocumentNode, name: "#document"}
}

// NewElement creates a detached element
func NewElement(name string, attrs ...Attribute) *Element {
	return &Element{
		kind:  ElementNode,
		name:  strings.ToLower(name),
		attrs: append([]Attribute(nil), attrs...),
	}
}

// NewText creates a detached text node
func NewText(text string) *Element {
	return &Element{kind: TextNode, name: "#text", text: text}
}

// A is shorthand for an Attribute literal
func A(name, value string) Attribute {
	return Attribute{Name: strings.ToLower(name), Value: value}
}

func (e *Element) Kind() NodeKind { return e.kind }
func (e *Element) Name() string   { return e.name }
func (e *Element) Style() Style   { return e.style }
func (e *Element) Offset() Offset { return e.offset }

// Text returns the text of a text node
func (e *Element) Text() string { return e.text }

// SetText replaces the text of a text node
func (e *Element) SetText(text string) { e.text = text }

// Ref returns the backend reference this element mirrors, if any
func (e *Element) Ref() string { return e.ref }

// SetRef records the backend reference this element mirrors
func (e *Element) SetRef(ref string) { e.ref = ref }

// Attr returns the value of an attribute
func (e *Element) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attributes
func (e *Element) Attrs() []Attribute {
	return append([]Attribute(nil), e.attrs...)
}

// SetAttr adds or replaces an attribute
func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attribute{Name: name, Value: value})
}

// SetStyle replaces the style
func (e *Element) SetStyle(s Style) { e.style = s }

// SetOffset replaces the layout box
func (e *Element) SetOffset(o Offset) { e.offset = o }

// SetOffsetParent sets the node offsets are measured against
func (e *Element) SetOffsetParent(p *Element) { e.offsetParent = p }

// OffsetParent returns the offset parent or nil
func (e *Element) OffsetParent() Node {
	if e.offsetParent == nil {
		return nil
	}
	return e.offsetParent
}

// Parent returns the parent node or nil for detached nodes and the root
func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// ParentElement returns the concrete parent
func (e *Element) ParentElement() *Element { return e.parent }

// Children returns the child nodes
func (e *Element) Children() []Node {
	nodes := make([]Node, len(e.children))
	for i, c := range e.children {
		nodes[i] = c
	}
	return nodes
}

// ChildElements returns the concrete children
func (e *Element) ChildElements() []*Element {
	return append([]*Element(nil), e.children...)
}

// AppendChild attaches child as the last child, detaching it first
func (e *Element) AppendChild(child *Element) *Element {
	child.detach()
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Append attaches several children and returns the receiver
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		e.AppendChild(c)
	}
	return e
}

// InsertBefore attaches child immediately before ref
func (e *Element) InsertBefore(child, ref *Element) error {
	if ref == nil {
		e.AppendChild(child)
		return nil
	}
	if ref.parent != e {
		return ErrNotChild
	}
	child.detach()
	idx := e.indexOf(ref)
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = child
	child.parent = e
	return nil
}

// RemoveChild detaches child
func (e *Element) RemoveChild(child *Element) error {
	if child.parent != e {
		return ErrNotChild
	}
	child.detach()
	return nil
}

func (e *Element) detach() {
	p := e.parent
	if p == nil {
		return
	}
	if idx := p.indexOf(e); idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	e.parent = nil
}

func (e *Element) indexOf(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Find returns every element below e for which match is true, in document order
func (e *Element) Find(match func(*Element) bool) []*Element {
	var found []*Element
	var visit func(*Element)
	visit = func(n *Element) {
		for _, c := range n.children {
			if match(c) {
				found = append(found, c)
			}
			visit(c)
		}
	}
	visit(e)
	return found
}

// TextContent returns the concatenated text below e
func (e *Element) TextContent() string {
	if e.kind == TextNode {
		return e.text
	}
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}
