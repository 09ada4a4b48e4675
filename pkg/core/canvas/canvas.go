// Package canvas records drawing primitives in call order.
//
// [Canvas] implements [layout.Surface]. The layout engine draws into it,
// the pipeline freezes it, and the serializers in package sink read the
// recorded elements, possibly from several goroutines at once.
//
//	c := canvas.New(chart.Size())
//	if err := chart.Render(fm, c, 0, 0); err != nil {
//	    return err
//	}
//	c.Freeze()
//	svg := sink.RenderSVG(c)
package canvas

import (
	"sync"

	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/errors"
)

// Kind identifies a primitive.
type Kind string

const (
	KindRect  Kind = "rect"
	KindText  Kind = "text"
	KindHLine Kind = "hline"
	KindVLine Kind = "vline"
)

// ErrFrozen is returned when drawing onto a frozen canvas.
var ErrFrozen = errors.New(errors.ErrCodeInternal, "canvas is frozen")

// Attr is a style attribute set on an element.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Element is one recorded primitive. Lines are one pixel thick, so an HLine
// has H == 1 and a VLine has W == 1.
type Element struct {
	Kind  Kind         `json:"kind"`
	X     int          `json:"x"`
	Y     int          `json:"y"`
	W     int          `json:"w"`
	H     int          `json:"h"`
	Text  string       `json:"text,omitempty"`
	Font  *layout.Font `json:"font,omitempty"`
	Attrs []Attr       `json:"attrs,omitempty"`
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Canvas is a recording [layout.Surface].
type Canvas struct {
	mu       sync.RWMutex
	size     layout.Size
	elements []*Element
	frozen   bool
}

// New returns an empty canvas of the given size.
func New(size layout.Size) *Canvas {
	return &Canvas{size: size}
}

// Size returns the size the canvas was created with.
func (c *Canvas) Size() layout.Size { return c.size }

// shape is the handle returned to the layout engine.
type shape struct {
	c *Canvas
	e *Element
}

// Set replaces or appends an attribute. It is ignored once the canvas is
// frozen.
func (s shape) Set(attr layout.Attr, value string) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.frozen {
		return
	}
	for i := range s.e.Attrs {
		if s.e.Attrs[i].Name == string(attr) {
			s.e.Attrs[i].Value = value
			return
		}
	}
	s.e.Attrs = append(s.e.Attrs, Attr{Name: string(attr), Value: value})
}

func (c *Canvas) add(e *Element) (layout.Shape, error) {
	if e.W < 0 || e.H < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s at (%d, %d) has negative size %dx%d", e.Kind, e.X, e.Y, e.W, e.H)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return nil, ErrFrozen
	}
	c.elements = append(c.elements, e)
	return shape{c: c, e: e}, nil
}

// Rect appends an unfilled rectangle.
func (c *Canvas) Rect(x, y, w, h int) (layout.Shape, error) {
	return c.add(&Element{Kind: KindRect, X: x, Y: y, W: w, H: h, Attrs: []Attr{{Name: string(layout.AttrFill), Value: "none"}}})
}

// Text appends a text run with its baseline origin at (x, y).
func (c *Canvas) Text(text string, x, y int, font layout.Font) (layout.Shape, error) {
	return c.add(&Element{Kind: KindText, X: x, Y: y, Text: text, Font: &font})
}

// HLine appends a horizontal line of width w.
func (c *Canvas) HLine(x, y, w int) (layout.Shape, error) {
	return c.add(&Element{Kind: KindHLine, X: x, Y: y, W: w, H: 1})
}

// VLine appends a vertical line of height h.
func (c *Canvas) VLine(x, y, h int) (layout.Shape, error) {
	return c.add(&Element{Kind: KindVLine, X: x, Y: y, W: 1, H: h})
}

// Freeze makes the canvas read-only. Further drawing returns ErrFrozen.
func (c *Canvas) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (c *Canvas) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// Len returns the number of recorded elements.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.elements)
}

// Elements returns a copy of the recorded elements in drawing order.
func (c *Canvas) Elements() []Element {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Element, len(c.elements))
	for i, e := range c.elements {
		out[i] = *e
		out[i].Attrs = append([]Attr(nil), e.Attrs...)
		if e.Font != nil {
			f := *e.Font
			out[i].Font = &f
		}
	}
	return out
}
