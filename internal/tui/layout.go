package tui

// Minimum terminal size for the player.
const (
	MinWidth  = 60
	MinHeight = 16
)

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed geometry for a given terminal size.
type Layout struct {
	Header, Tabs Rect
	Body, Footer Rect
	TooSmall     bool // true when terminal is below MinWidth×MinHeight
}

// Calculate computes the layout for a terminal of the given dimensions.
//
//   - Header: full width, 1 row at top
//   - Tabs: full width, 1 row under the header
//   - Footer: full width, 1 row at bottom
//   - Body: everything else, drawn with a border
func Calculate(width, height int) Layout {
	if width < MinWidth || height < MinHeight {
		return Layout{TooSmall: true}
	}
	return Layout{
		Header: Rect{X: 0, Y: 0, Width: width, Height: 1},
		Tabs:   Rect{X: 0, Y: 1, Width: width, Height: 1},
		Body:   Rect{X: 0, Y: 2, Width: width, Height: height - 3},
		Footer: Rect{X: 0, Y: height - 1, Width: width, Height: 1},
	}
}

// innerDims returns the content dimensions for a rect accounting for the
// 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
