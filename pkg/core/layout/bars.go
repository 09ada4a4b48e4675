package layout

import (
	"math"

	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/errors"
)

// Visual constants of the plot area. They are tuned by eye and kept as is.
const (
	annotationBorderFactor = 0.2
	handleFactor           = 0.75
	handleGap              = 2
	tickSpacingFactor      = 3
	barStepFactor          = 1.5
	tickLabelLift          = 2

	// maxExtent bounds every measured pixel length.
	maxExtent = 1 << 24

	firstTickColor      = "#333"
	tickColor           = "#ccc"
	tickTextColor       = "#000"
	annotationColor     = "#fff"
	annotationColorAlt  = "#000"
	annotationHandColor = "#999"
)

// Tick is a labeled reference point on the value axis.
type Tick struct {
	Pos    int     `json:"pos"`
	Value  float64 `json:"value"`
	Label  string  `json:"label"`
	Bounds Rect    `json:"bounds"`
}

// Bar is the measured geometry of one item, relative to the block origin.
type Bar struct {
	Name             string  `json:"name"`
	Value            float64 `json:"value"`
	Color            string  `json:"color"`
	Rect             Rect    `json:"rect"`
	Annotation       string  `json:"annotation"`
	AnnotationBounds Rect    `json:"annotation_bounds"`
	Inside           bool    `json:"inside"`
}

// Bars is the plot area: tick guides and labels, one bar per item and the
// value annotations.
type Bars struct {
	Layout

	items []config.Item
	axis  *config.HorAxis
	opts  *Options

	ceiling    float64
	itemHeight int
	ticks      []Tick
	bars       []Bar
	measured   bool
}

// NewBars creates the plot block. axis and opts may be nil.
func NewBars(items []config.Item, axis *config.HorAxis, opts *Options) *Bars {
	return &Bars{items: items, axis: axis, opts: opts}
}

// Measure computes the scale, the ticks and every bar. It reports
// INVALID_INPUT instead of producing degenerate geometry.
func (b *Bars) Measure(fm FontMetrics) error {
	if len(b.items) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no items to lay out")
	}
	maxValue := 0.0
	for i, it := range b.items {
		if math.IsNaN(it.Value) || math.IsInf(it.Value, 0) || it.Value < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "item %d (%q): value must be a non-negative number, got %v", i, it.Name, it.Value)
		}
		maxValue = math.Max(maxValue, it.Value)
	}

	ceiling, err := b.ceilingFor(maxValue)
	if err != nil {
		return err
	}

	if !(ceiling > 0) || math.IsInf(ceiling, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "axis ceiling must be a positive finite number, got %v", ceiling)
	}

	itemHeight := scaled(float64(fm.FullHeight()), 1+2*annotationBorderFactor)
	if itemHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font is too small: full height %d gives no room for bars", fm.FullHeight())
	}
	n := len(b.items)
	height := n*itemHeight + (n+1)*(itemHeight/2)

	suffix := ""
	if b.axis != nil {
		suffix = b.axis.Suffix
	}

	values := DefaultTicks(ceiling)
	if b.axis != nil && len(b.axis.Ticks) > 0 {
		values = b.axis.Ticks
	}
	ticks := make([]Tick, len(values))
	for i, v := range values {
		label := FormatNumber(v) + suffix
		ticks[i] = Tick{Value: v, Label: label, Bounds: fm.TextBounds(label)}
	}

	minTextW := fm.TextBounds("0" + suffix).W
	maxTextW := fm.TextBounds(FormatNumber(ceiling) + suffix).W
	for _, t := range ticks {
		maxTextW = max(maxTextW, t.Bounds.W)
	}
	labelH := fm.FullHeight()

	width := maxTextW * (len(ticks) * tickSpacingFactor)
	if b.axis != nil && b.axis.Width != nil {
		width = *b.axis.Width
	}

	margins := Margins{
		Left:   minTextW / 2,
		Right:  maxTextW / 2,
		Top:    labelH / 2,
		Bottom: labelH,
	}
	height += margins.Top + margins.Bottom

	size := Size{W: width, H: height}
	drawable := size.Rect(0, 0).Shrink(margins)
	if drawable.W <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "plot width %d leaves no room for bars", width)
	}
	if drawable.H <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "plot height %d leaves no room for bars", height)
	}
	scale := float64(drawable.W) / ceiling
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		return errors.New(errors.ErrCodeInvalidInput, "axis ceiling %v is too small to scale", ceiling)
	}

	for i := range ticks {
		if px := math.Abs(ticks[i].Value * scale); !(px <= maxExtent) {
			return errors.New(errors.ErrCodeInvalidInput, "tick %v lies %v pixels off the plot", ticks[i].Value, px)
		}
		ticks[i].Pos = drawable.X + scaled(ticks[i].Value, scale)
	}

	border := scaled(float64(itemHeight), annotationBorderFactor)
	handle := scaled(float64(fm.LineHeight()), handleFactor)
	step := scaled(float64(itemHeight), barStepFactor)

	bars := make([]Bar, 0, n)
	y := drawable.Y + itemHeight/2
	for i, it := range b.items {
		if px := it.Value * scale; px > maxExtent {
			return errors.New(errors.ErrCodeInvalidInput, "item %d (%q): bar would be %v pixels wide", i, it.Name, px)
		}
		w := scaled(it.Value, scale)
		text := FormatNumber(it.Value)
		tb := fm.TextBounds(text)

		bar := Bar{
			Name:       it.Name,
			Value:      it.Value,
			Color:      it.Color,
			Rect:       Rect{X: drawable.X, Y: y, W: w, H: itemHeight},
			Annotation: text,
		}
		ty := y + tb.H + border
		if tb.W+2*border < w {
			bar.Inside = true
			bar.AnnotationBounds = Rect{X: drawable.X + w - tb.W - border, Y: ty, W: tb.W, H: tb.H}
		} else {
			bar.AnnotationBounds = Rect{X: drawable.X + w + handle + handleGap, Y: ty, W: tb.W, H: tb.H}
		}
		bars = append(bars, bar)
		y += step
	}

	b.Size = size
	b.Margins = margins
	b.ceiling = ceiling
	b.itemHeight = itemHeight
	b.ticks = ticks
	b.bars = bars
	b.measured = true
	return nil
}

func (b *Bars) ceilingFor(maxValue float64) (float64, error) {
	if b.axis != nil && b.axis.MaxValue != nil {
		mv := *b.axis.MaxValue
		if math.IsNaN(mv) || math.IsInf(mv, 0) || mv <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "max_value must be a positive number, got %v", mv)
		}
		return mv, nil
	}
	if maxValue == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "all item values are zero, cannot derive a scale")
	}
	return NiceMaximum(maxValue)
}

// Offsets returns the annotation baseline of every bar, in item order.
// The vertical axis aligns its labels on them.
func (b *Bars) Offsets() []int {
	b.mustBeMeasured()
	offsets := make([]int, len(b.bars))
	for i, bar := range b.bars {
		offsets[i] = bar.AnnotationBounds.Y
	}
	return offsets
}

// Ceiling returns the value the axis extends to.
func (b *Bars) Ceiling() float64 { return b.ceiling }

// ItemHeight returns the height of a single bar.
func (b *Bars) ItemHeight() int { return b.itemHeight }

// Ticks returns a copy of the measured ticks.
func (b *Bars) Ticks() []Tick { return append([]Tick(nil), b.ticks...) }

// Bars returns a copy of the measured bars.
func (b *Bars) Bars() []Bar { return append([]Bar(nil), b.bars...) }

// Drawable returns the plot area inside the margins, relative to the block.
func (b *Bars) Drawable() Rect { return b.Size.Rect(0, 0).Shrink(b.Margins) }

// Overflows reports whether a bar extends past the plot area, which happens
// when max_value is below the largest item value.
func (b *Bars) Overflows() bool {
	right := b.Drawable().Right()
	for _, bar := range b.bars {
		if bar.Rect.Right() > right {
			return true
		}
	}
	return false
}

func (b *Bars) mustBeMeasured() {
	if !b.measured {
		panic("layout: Bars used before Measure")
	}
}

// Render draws the plot with its top-left corner at (x, y).
func (b *Bars) Render(fm FontMetrics, s Surface, x, y int) error {
	b.mustBeMeasured()
	p := &pen{s: s, fm: fm}
	debug := b.opts.debug()

	if debug {
		p.outline(b.Size.Rect(x, y), "red")
	}
	area := b.Size.Rect(x, y).Shrink(b.Margins)
	if debug {
		p.outline(area, "green")
	}

	for _, t := range b.ticks {
		p.vline(x+t.Pos, area.Y, area.H).Set(AttrFill, tickColor)

		tx := x + t.Pos - t.Bounds.W/2
		ty := area.Bottom() + fm.LineHeight() - tickLabelLift
		p.text(t.Label, tx, ty).Set(AttrFill, tickTextColor)

		if debug {
			p.outline(Rect{X: tx, Y: ty - t.Bounds.H, W: t.Bounds.W, H: t.Bounds.H}, "red")
		}
	}

	for _, bar := range b.bars {
		p.rect(x+bar.Rect.X, y+bar.Rect.Y, bar.Rect.W, bar.Rect.H).Set(AttrFill, bar.Color)

		color := annotationColor
		if !bar.Inside {
			color = annotationColorAlt
			hw := bar.AnnotationBounds.X - bar.Rect.Right() - handleGap
			p.hline(x+bar.Rect.Right(), y+bar.Rect.Y+b.itemHeight/2, hw).Set(AttrFill, annotationHandColor)
		}
		p.text(bar.Annotation, x+bar.AnnotationBounds.X, y+bar.AnnotationBounds.Y).Set(AttrFill, color)
	}

	// zero guide goes last so it sits on top of the bars
	p.vline(area.X, area.Y, area.H).Set(AttrFill, firstTickColor)
	return p.err
}
