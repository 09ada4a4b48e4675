package layout

import "math"

// Size is a width and height in whole pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Rect returns the rectangle of this size with its top-left corner at (x, y).
func (s Size) Rect(x, y int) Rect {
	return Rect{X: x, Y: y, W: s.W, H: s.H}
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Shrink returns r with the margins cut away from each side.
func (r Rect) Shrink(m Margins) Rect {
	return Rect{
		X: r.X + m.Left,
		Y: r.Y + m.Top,
		W: r.W - m.Left - m.Right,
		H: r.H - m.Top - m.Bottom,
	}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Margins reserve space around a block's drawable area.
type Margins struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// scaled multiplies a pixel quantity by f and drops the fraction.
// The epsilon absorbs binary rounding so that 20*1.4 yields 28, not 27.
func scaled(v float64, f float64) int {
	return int(math.Floor(v*f + 1e-9))
}
