package overlay

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lance13c/vimnav/internal/dom"
)

// MarkerAttr is the attribute holding a marker's index
const MarkerAttr = "data-vimnav-marker"

// ElementSurface draws markers as <span> siblings inside an in-memory tree
type ElementSurface struct {
	style   Style
	markers map[int]*dom.Element
}

// NewElementSurface creates a surface for dom.Element trees
func NewElementSurface(style Style) *ElementSurface {
	return &ElementSurface{style: style, markers: make(map[int]*dom.Element)}
}

// Create inserts one span before each target
func (s *ElementSurface) Create(markers []Marker) error {
	var errs []error
	for _, mk := range markers {
		target, ok := mk.Target.(*dom.Element)
		if !ok || target.ParentElement() == nil {
			errs = append(errs, fmt.Errorf("marker %d: target is not an attached element", mk.Index))
			continue
		}

		span := dom.NewElement("span",
			dom.A("id", s.style.MarkerID),
			dom.A(MarkerAttr, strconv.Itoa(mk.Index)),
		)
		span.AppendChild(dom.NewText(mk.Label))
		span.SetStyle(dom.Style{Display: "inline", Visibility: "hidden"})
		if mk.Position != nil {
			span.SetAttr("style", fmt.Sprintf("position: absolute; left: %gpx; top: %gpx", mk.Position.Left, mk.Position.Top))
		}

		if err := target.ParentElement().InsertBefore(span, target); err != nil {
			errs = append(errs, fmt.Errorf("marker %d: %w", mk.Index, err))
			continue
		}
		s.markers[mk.Index] = span
	}
	return errors.Join(errs...)
}

// Update rewrites text, state and visibility
func (s *ElementSurface) Update(views []View) error {
	var errs []error
	for _, v := range views {
		span, ok := s.markers[v.Index]
		if !ok {
			errs = append(errs, fmt.Errorf("marker %d does not exist", v.Index))
			continue
		}
		for _, c := range span.ChildElements() {
			c.SetText(v.Text)
		}
		span.SetAttr("data-state", v.State.String())
		visibility := "hidden"
		if v.Visible {
			visibility = "visible"
		}
		span.SetStyle(dom.Style{Display: "inline", Visibility: visibility})
	}
	return errors.Join(errs...)
}

// Remove detaches the markers
func (s *ElementSurface) Remove(indices []int) error {
	var errs []error
	for _, i := range indices {
		span, ok := s.markers[i]
		if !ok {
			errs = append(errs, fmt.Errorf("marker %d does not exist", i))
			continue
		}
		delete(s.markers, i)
		if p := span.ParentElement(); p != nil {
			if err := p.RemoveChild(span); err != nil {
				errs = append(errs, fmt.Errorf("marker %d: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Marker returns the span drawn for index i
func (s *ElementSurface) Marker(i int) (*dom.Element, bool) {
	span, ok := s.markers[i]
	return span, ok
}

// Markers returns every marker element still attached below root
func Markers(root *dom.Element) []*dom.Element {
	return root.Find(func(e *dom.Element) bool {
		return dom.HasAttr(e, MarkerAttr)
	})
}
