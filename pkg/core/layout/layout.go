package layout

// FontMetrics measures text for the layout blocks. Implementations must be
// deterministic for a fixed font, size and text.
type FontMetrics interface {
	// TextBounds returns the bounding box of text relative to its baseline
	// origin. Y is negative for glyphs above the baseline.
	TextBounds(text string) Rect
	// LineHeight is the font size in pixels used for drawing text.
	LineHeight() int
	// FullHeight is the ascent plus descent reserved for a line of labels.
	FullHeight() int
	// Family is the font family name written into text primitives.
	Family() string
}

// Attr names a style attribute that can be set on a drawn shape.
type Attr string

const (
	AttrFill       Attr = "fill"
	AttrStroke     Attr = "stroke"
	AttrFontWeight Attr = "font-weight"
	AttrFontStyle  Attr = "font-style"
)

// Shape is a handle to a primitive already appended to a surface.
type Shape interface {
	Set(attr Attr, value string)
}

// Font describes the face used by a text primitive.
type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

// Surface accumulates drawing primitives in call order.
type Surface interface {
	Rect(x, y, w, h int) (Shape, error)
	Text(text string, x, y int, font Font) (Shape, error)
	HLine(x, y, w int) (Shape, error)
	VLine(x, y, h int) (Shape, error)
}

// Renderer is the drawing half of the two-phase protocol. Every block
// implements it; the measuring half differs per block because each one
// takes its dependencies as explicit arguments.
type Renderer interface {
	Render(fm FontMetrics, s Surface, x, y int) error
}

// Options holds settings shared by all blocks of a chart. The chart owns the
// single value and its blocks read it through a pointer.
type Options struct {
	// Debug draws outlines around blocks, drawable areas and labels.
	Debug bool
}

func (o *Options) debug() bool { return o != nil && o.Debug }

// Layout is the measured extent of a block.
type Layout struct {
	Size    Size    `json:"size"`
	Margins Margins `json:"margins"`
}

// pen wraps a surface and keeps the first error it returns. Once an error is
// recorded every further call is a no-op, so render code can draw straight
// through and check once at the end.
type pen struct {
	s   Surface
	fm  FontMetrics
	err error
}

type nopShape struct{}

func (nopShape) Set(Attr, string) {}

func (p *pen) keep(sh Shape, err error) Shape {
	if err != nil {
		p.err = err
		return nopShape{}
	}
	return sh
}

func (p *pen) rect(x, y, w, h int) Shape {
	if p.err != nil {
		return nopShape{}
	}
	return p.keep(p.s.Rect(x, y, w, h))
}

func (p *pen) text(text string, x, y int) Shape {
	if p.err != nil {
		return nopShape{}
	}
	return p.keep(p.s.Text(text, x, y, Font{Family: p.fm.Family(), Size: p.fm.LineHeight()}))
}

func (p *pen) hline(x, y, w int) Shape {
	if p.err != nil {
		return nopShape{}
	}
	return p.keep(p.s.HLine(x, y, w))
}

func (p *pen) vline(x, y, h int) Shape {
	if p.err != nil {
		return nopShape{}
	}
	return p.keep(p.s.VLine(x, y, h))
}

func (p *pen) outline(r Rect, color string) {
	p.rect(r.X, r.Y, r.W, r.H).Set(AttrStroke, color)
}
