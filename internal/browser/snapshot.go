package browser

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/keys"
)

// RefAttr tags page elements so later calls can find them again
const RefAttr = "data-vimnav-id"

// rawNode is one element as reported by snapshotScript
type rawNode struct {
	Ref          string            `json:"ref"`
	Parent       int               `json:"parent"`
	Name         string            `json:"name"`
	Attrs        map[string]string `json:"attrs"`
	Display      string            `json:"display"`
	Visibility   string            `json:"visibility"`
	Top          float64           `json:"top"`
	Left         float64           `json:"left"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	OffsetParent string            `json:"offsetParent"`
}

// buildTree turns the flat pre-order node list into an element tree below a
// document root. Parent -1 attaches to the root.
func buildTree(nodes []rawNode) (*dom.Element, error) {
	root := dom.NewDocument()
	elems := make([]*dom.Element, len(nodes))
	byRef := make(map[string]*dom.Element, len(nodes))

	for i, n := range nodes {
		names := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			names = append(names, k)
		}
		sort.Strings(names)
		attrs := make([]dom.Attribute, len(names))
		for j, k := range names {
			attrs[j] = dom.A(k, n.Attrs[k])
		}

		e := dom.NewElement(n.Name, attrs...)
		e.SetRef(n.Ref)
		e.SetStyle(dom.Style{Display: n.Display, Visibility: n.Visibility})
		e.SetOffset(dom.Offset{Top: n.Top, Left: n.Left, Width: n.Width, Height: n.Height})
		elems[i] = e
		if n.Ref != "" {
			byRef[n.Ref] = e
		}

		switch {
		case n.Parent < 0:
			root.AppendChild(e)
		case n.Parent < i:
			elems[n.Parent].AppendChild(e)
		default:
			return nil, fmt.Errorf("node %d (%s) has parent %d out of order", i, n.Name, n.Parent)
		}
	}

	for i, n := range nodes {
		if n.OffsetParent == "" {
			continue
		}
		if p, ok := byRef[n.OffsetParent]; ok {
			elems[i].SetOffsetParent(p)
		}
	}
	return root, nil
}

// keyPayload is what the in-page key handler sends through the binding
type keyPayload struct {
	Code     int    `json:"code"`
	Shift    bool   `json:"shift"`
	Ctrl     bool   `json:"ctrl"`
	Phase    string `json:"phase"`
	Editable bool   `json:"editable"`
}

// decodeKey parses a binding payload into a raw key
func decodeKey(payload string) (keys.RawKey, error) {
	var p keyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return keys.RawKey{}, fmt.Errorf("failed to decode key event: %w", err)
	}

	k := keys.RawKey{Code: p.Code, Shift: p.Shift, Ctrl: p.Ctrl, Editable: p.Editable}
	switch p.Phase {
	case "down":
		k.Phase = keys.Down
	case "up":
		k.Phase = keys.Up
	default:
		return keys.RawKey{}, fmt.Errorf("unknown key phase %q", p.Phase)
	}
	return k, nil
}
