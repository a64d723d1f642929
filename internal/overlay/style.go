package overlay

// Style holds the visual parameters of markers
type Style struct {
	FontSize          string  `yaml:"font_size"`
	Color             string  `yaml:"color"`
	Background        string  `yaml:"background"`
	PartialColor      string  `yaml:"partial_color"`
	PartialBackground string  `yaml:"partial_background"`
	FoundColor        string  `yaml:"found_color"`
	FoundBackground   string  `yaml:"found_background"`
	Opacity           float64 `yaml:"opacity"`
	// MarkerID tags every marker element so it can be told apart from page content
	MarkerID string `yaml:"marker_id"`
}

// DefaultStyle returns the stock marker look
func DefaultStyle() Style {
	return Style{
		FontSize:          "12px",
		Color:             "red",
		Background:        "lightyellow",
		PartialColor:      "blue",
		PartialBackground: "lightgreen",
		FoundColor:        "yellow",
		FoundBackground:   "red",
		Opacity:           0.6,
		MarkerID:          "VimNavLabel",
	}
}

// Colors returns foreground and background for a state
func (s Style) Colors(state State) (fg, bg string) {
	switch state {
	case Partial:
		return s.PartialColor, s.PartialBackground
	case Found:
		return s.FoundColor, s.FoundBackground
	default:
		return s.Color, s.Background
	}
}
