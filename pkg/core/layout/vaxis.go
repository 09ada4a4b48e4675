package layout

import "github.com/matzehuels/barh/pkg/config"

const vaxisPadding = 4

// VAxis is the column of item names to the left of the bars.
type VAxis struct {
	Layout

	items   []config.Item
	opts    *Options
	offsets []int
}

// NewVAxis creates the item name column. opts may be nil.
func NewVAxis(items []config.Item, opts *Options) *VAxis {
	return &VAxis{items: items, opts: opts}
}

// Measure sizes the column. The baselines and the height come from the
// measured plot (see [Bars.Offsets]) so the labels line up with the bars.
func (v *VAxis) Measure(fm FontMetrics, offsets []int, height int) {
	widest := 0
	for _, it := range v.items {
		widest = max(widest, fm.TextBounds(it.Name).W)
	}
	v.Size = Size{W: widest + vaxisPadding, H: height}
	v.offsets = append([]int(nil), offsets...)
}

// Render right-aligns every item name at its bar's baseline.
func (v *VAxis) Render(fm FontMetrics, s Surface, x, y int) error {
	if v.Size.H <= 0 || len(v.offsets) == 0 {
		panic("layout: VAxis rendered before its offsets and height were measured")
	}
	if len(v.offsets) != len(v.items) {
		panic("layout: VAxis offsets do not match its items")
	}

	p := &pen{s: s, fm: fm}
	debug := v.opts.debug()

	for i, it := range v.items {
		bbox := fm.TextBounds(it.Name)
		tx := x + v.Size.W - bbox.W
		p.text(it.Name, tx, y+v.offsets[i])

		if debug {
			p.outline(Rect{X: tx, Y: y + v.offsets[i] - fm.LineHeight(), W: bbox.W, H: fm.FullHeight()}, "red")
		}
	}

	if debug {
		p.outline(v.Size.Rect(x, y), "blue")
	}
	return p.err
}
