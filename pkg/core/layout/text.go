package layout

// Title is the bold caption above the plot.
type Title struct {
	Layout

	text     string
	opts     *Options
	measured bool
}

// NewTitle creates a title block. opts may be nil.
func NewTitle(text string, opts *Options) *Title {
	return &Title{text: text, opts: opts}
}

// Text returns the caption.
func (t *Title) Text() string { return t.text }

// Measure sizes the block to the caption's width and one label line.
func (t *Title) Measure(fm FontMetrics) {
	t.Size = Size{W: fm.TextBounds(t.text).W, H: fm.FullHeight()}
	t.measured = true
}

// Render draws the caption left-aligned at x.
func (t *Title) Render(fm FontMetrics, s Surface, x, y int) error {
	if !t.measured {
		panic("layout: Title rendered before Measure")
	}
	p := &pen{s: s, fm: fm}
	// can end up wider than the plot
	p.text(t.text, x, y+fm.LineHeight()).Set(AttrFontWeight, "bold")

	if t.opts.debug() {
		p.outline(t.Size.Rect(x, y), "green")
	}
	return p.err
}

// HAxis is the italic caption centered under the plot.
type HAxis struct {
	Layout

	text      string
	opts      *Options
	textWidth int
}

// NewHAxis creates an axis caption block. opts may be nil.
func NewHAxis(text string, opts *Options) *HAxis {
	return &HAxis{text: text, opts: opts}
}

// Text returns the caption.
func (h *HAxis) Text() string { return h.text }

// Measure sizes the block. width is the plot width the caption centers under.
func (h *HAxis) Measure(fm FontMetrics, width int) {
	if width <= 0 {
		panic("layout: HAxis measured with a non-positive width")
	}
	h.textWidth = fm.TextBounds(h.text).W
	h.Size = Size{W: width, H: fm.FullHeight()}
}

// Render draws the caption centered in the block.
func (h *HAxis) Render(fm FontMetrics, s Surface, x, y int) error {
	if h.Size.W <= 0 {
		panic("layout: HAxis rendered before Measure")
	}
	p := &pen{s: s, fm: fm}
	tx := x + (h.Size.W-h.textWidth)/2
	p.text(h.text, tx, y+fm.LineHeight()).Set(AttrFontStyle, "italic")

	if h.opts.debug() {
		p.outline(h.Size.Rect(x, y), "green")
	}
	return p.err
}
