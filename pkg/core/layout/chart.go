package layout

import "github.com/matzehuels/barh/pkg/config"

type state int

const (
	stateCreated state = iota
	stateMeasured
	stateRendered
)

// stateFailed marks a chart whose Measure returned an error.
const stateFailed state = -1

// Option configures a [Chart].
type Option func(*Chart)

// WithDebug enables debug outlines.
func WithDebug(on bool) Option {
	return func(c *Chart) { c.opts.Debug = on }
}

// Chart composes the title, the item name column, the plot and the axis
// caption into one canvas.
type Chart struct {
	opts Options

	bars  *Bars
	vaxis *VAxis
	title *Title // nil without a title
	haxis *HAxis // nil without an axis caption

	size  Size
	state state
}

// New creates an unmeasured chart for cfg. cfg is read, never modified,
// and must outlive the chart.
func New(cfg *config.Config, opts ...Option) *Chart {
	c := &Chart{}
	for _, opt := range opts {
		opt(c)
	}
	c.bars = NewBars(cfg.Items, cfg.HorAxis, &c.opts)
	c.vaxis = NewVAxis(cfg.Items, &c.opts)
	if cfg.Title != "" {
		c.title = NewTitle(cfg.Title, &c.opts)
	}
	if t := cfg.AxisTitle(); t != "" {
		c.haxis = NewHAxis(t, &c.opts)
	}
	return c
}

// SetDebug switches debug outlines for every block. It only affects
// rendering, so it may be called at any time before Render.
func (c *Chart) SetDebug(on bool) { c.opts.Debug = on }

// Debug reports whether debug outlines are drawn.
func (c *Chart) Debug() bool { return c.opts.Debug }

// Measure computes every block. It must be called exactly once, before
// Render. The plot is measured first since the axis caption needs its width
// and the name column its bar offsets.
func (c *Chart) Measure(fm FontMetrics) error {
	if c.state != stateCreated {
		panic("layout: Chart measured twice")
	}
	if err := c.bars.Measure(fm); err != nil {
		// a failed chart can be neither measured again nor rendered
		c.state = stateFailed
		return err
	}
	c.state = stateMeasured

	h := 0
	if c.title != nil {
		c.title.Measure(fm)
		h += c.title.Size.H
	}
	h += c.bars.Size.H
	if c.haxis != nil {
		c.haxis.Measure(fm, c.bars.Size.W)
		h += c.haxis.Size.H
	}
	c.vaxis.Measure(fm, c.bars.Offsets(), c.bars.Size.H)

	c.size = Size{W: c.bars.Size.W + c.vaxis.Size.W, H: h}
	return nil
}

// Size returns the canvas size. It is zero before Measure.
func (c *Chart) Size() Size { return c.size }

// Render draws the chart with its top-left corner at (x, y). It may be
// called repeatedly and emits the same primitives every time.
func (c *Chart) Render(fm FontMetrics, s Surface, x, y int) error {
	if c.state < stateMeasured {
		panic("layout: Chart rendered before a successful Measure")
	}

	tx := x + c.vaxis.Size.W
	ty := y
	if c.title != nil {
		if err := c.title.Render(fm, s, tx+c.bars.Margins.Left, ty); err != nil {
			return err
		}
		ty += c.title.Size.H
	}
	if err := c.vaxis.Render(fm, s, x, ty); err != nil {
		return err
	}
	if err := c.bars.Render(fm, s, tx, ty); err != nil {
		return err
	}
	ty += c.bars.Size.H
	if c.haxis != nil {
		if err := c.haxis.Render(fm, s, tx, ty); err != nil {
			return err
		}
	}

	c.state = stateRendered
	return nil
}

// Block is the placement of one component on the canvas.
type Block struct {
	Name string `json:"name"`
	Rect Rect   `json:"rect"`
}

// Measurement is a read-only view of a measured chart. Drawable and Blocks
// are in canvas coordinates; Ticks and Bars are relative to the plot block.
type Measurement struct {
	Size       Size    `json:"size"`
	Ceiling    float64 `json:"ceiling"`
	ItemHeight int     `json:"item_height"`
	Drawable   Rect    `json:"drawable"`
	Blocks     []Block `json:"blocks"`
	Ticks      []Tick  `json:"ticks"`
	Bars       []Bar   `json:"bars"`
	Overflow   bool    `json:"overflow"`
}

// Snapshot describes the measured chart as placed at the origin.
func (c *Chart) Snapshot() Measurement {
	if c.state < stateMeasured {
		panic("layout: Chart snapshot before a successful Measure")
	}

	tx := c.vaxis.Size.W
	ty := 0
	var blocks []Block
	if c.title != nil {
		blocks = append(blocks, Block{Name: "title", Rect: c.title.Size.Rect(tx+c.bars.Margins.Left, ty)})
		ty += c.title.Size.H
	}
	blocks = append(blocks,
		Block{Name: "vaxis", Rect: c.vaxis.Size.Rect(0, ty)},
		Block{Name: "bars", Rect: c.bars.Size.Rect(tx, ty)},
	)
	drawable := c.bars.Drawable()
	drawable.X += tx
	drawable.Y += ty
	if c.haxis != nil {
		blocks = append(blocks, Block{Name: "haxis", Rect: c.haxis.Size.Rect(tx, ty+c.bars.Size.H)})
	}

	return Measurement{
		Size:       c.size,
		Ceiling:    c.bars.Ceiling(),
		ItemHeight: c.bars.ItemHeight(),
		Drawable:   drawable,
		Blocks:     blocks,
		Ticks:      c.bars.Ticks(),
		Bars:       c.bars.Bars(),
		Overflow:   c.bars.Overflows(),
	}
}
