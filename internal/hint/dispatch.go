package hint

import (
	"errors"
	"fmt"

	"github.com/lance13c/vimnav/internal/collect"
	"github.com/lance13c/vimnav/internal/dom"
)

// ErrNoActivation is returned for elements with no known activation strategy
var ErrNoActivation = errors.New("no idea what to do with this element")

// Activator performs the terminal actions on the page
type Activator interface {
	Navigate(href string) error
	OpenTab(href string) error
	// Click calls the element's native click
	Click(n dom.Node) error
	// DispatchClick synthesises a bubbling mouse click event
	DispatchClick(n dom.Node) error
	Focus(n dom.Node) error
	Select(n dom.Node) error
}

// Dispatch activates a matched candidate according to its category
func Dispatch(a Activator, c collect.Candidate, newTab bool) error {
	switch c.Category.Kind {
	case dom.Link:
		if newTab {
			return a.OpenTab(c.Category.Href)
		}
		return a.Navigate(c.Category.Href)

	case dom.ScriptHandler:
		return a.DispatchClick(c.Node)

	case dom.FormControl:
		switch c.Category.Control {
		case dom.TextEntry:
			return run(c.Node, a.Focus, a.Select, a.Click)
		case dom.NativeInput:
			return a.Click(c.Node)
		case dom.TextArea, dom.Select:
			return run(c.Node, a.Focus, a.Select)
		}
	}
	return fmt.Errorf("%w: %s", ErrNoActivation, c.Node.Name())
}

// run applies steps in order and stops at the first failure
func run(n dom.Node, steps ...func(dom.Node) error) error {
	for _, step := range steps {
		if err := step(n); err != nil {
			return err
		}
	}
	return nil
}
