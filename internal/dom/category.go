package dom

import "strings"

// CategoryKind tags how an element gets activated
type CategoryKind int

const (
	Unknown CategoryKind = iota
	Link
	FormControl
	ScriptHandler
)

func (k CategoryKind) String() string {
	switch k {
	case Link:
		return "link"
	case FormControl:
		return "form-control"
	case ScriptHandler:
		return "script-handler"
	default:
		return "unknown"
	}
}

// ControlKind distinguishes form controls
type ControlKind int

const (
	NoControl ControlKind = iota
	// TextEntry covers text, password and file inputs
	TextEntry
	// NativeInput covers every other input type (buttons, checkboxes, ...)
	NativeInput
	TextArea
	Select
)

func (k ControlKind) String() string {
	switch k {
	case TextEntry:
		return "text-entry"
	case NativeInput:
		return "native-input"
	case TextArea:
		return "textarea"
	case Select:
		return "select"
	default:
		return "none"
	}
}

// Category is the activation strategy of an element, computed once at collection
type Category struct {
	Kind    CategoryKind
	Control ControlKind
	Href    string
}

func (c Category) String() string {
	switch c.Kind {
	case Link:
		return "link " + c.Href
	case FormControl:
		return c.Control.String()
	default:
		return c.Kind.String()
	}
}

// Classify derives the activation category of n.
// Anchors win over onclick handlers, and a missing or empty href never
// makes a link.
func Classify(n Node) Category {
	name := n.Name()
	href := strings.TrimSpace(AttrOr(n, "href", ""))

	switch {
	case name == "a" && href != "":
		return Category{Kind: Link, Href: href}
	case HasAttr(n, "onclick"):
		return Category{Kind: ScriptHandler}
	case name == "input":
		switch strings.ToLower(AttrOr(n, "type", "text")) {
		case "text", "password", "file":
			return Category{Kind: FormControl, Control: TextEntry}
		default:
			return Category{Kind: FormControl, Control: NativeInput}
		}
	case name == "textarea":
		return Category{Kind: FormControl, Control: TextArea}
	case name == "select":
		return Category{Kind: FormControl, Control: Select}
	case href != "":
		return Category{Kind: Link, Href: href}
	}
	return Category{Kind: Unknown}
}

// Editable reports whether n consumes typed keys itself
func Editable(n Node) bool {
	if n == nil || n.Kind() != ElementNode {
		return false
	}
	switch n.Name() {
	case "textarea":
		return true
	case "input":
		t := strings.ToLower(AttrOr(n, "type", "text"))
		return t == "text" || t == "password"
	}
	return strings.EqualFold(AttrOr(n, "contenteditable", ""), "true")
}
