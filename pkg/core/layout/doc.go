// Package layout computes the geometry of a horizontal bar chart and emits
// it as drawing primitives.
//
// # Overview
//
// A chart is made of four blocks:
//
//	+--------+---------------------------+
//	|        | Title                     |
//	+--------+---------------------------+
//	| VAxis  | Bars                      |
//	| names  | ticks, bars, annotations  |
//	+--------+---------------------------+
//	|        | HAxis caption             |
//	+--------+---------------------------+
//
// Every block follows the same two phases. Measure computes sizes and
// positions from [FontMetrics]; nothing is drawn. Render then appends
// primitives to a [Surface] at absolute offsets, using only what Measure
// computed. Measure methods take their dependencies as arguments, so the
// ordering between blocks is visible in the call sites:
//
//	bars.Measure(fm)                              // no dependencies
//	haxis.Measure(fm, bars.Size.W)                // centers under the plot
//	vaxis.Measure(fm, bars.Offsets(), bars.Size.H) // aligns with the bars
//
// [Chart] runs this sequence and is what most callers want:
//
//	c := layout.New(cfg, layout.WithDebug(cfg.Debug))
//	if err := c.Measure(fm); err != nil {
//	    return err
//	}
//	err := c.Render(fm, surface, 0, 0)
//
// # Scale
//
// The value axis extends to [NiceMaximum] of the largest item value unless
// the axis options override it. Five ticks are generated by [DefaultTicks]
// unless an explicit list is given.
//
// # Annotations
//
// Each bar carries its value as text. When the text fits inside the bar
// with a border on both sides it is drawn inside, right-aligned and white.
// Otherwise it is drawn to the right of the bar in black, connected to the
// bar end by a short grey handle.
//
// # Errors
//
// Bad data (no items, negative values, all values zero) is reported as an
// INVALID_INPUT error from Measure. Calling the phases out of order is a
// programming error and panics. Errors from the surface are returned
// unchanged.
package layout
