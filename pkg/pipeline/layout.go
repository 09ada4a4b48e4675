package pipeline

import (
	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/core/canvas"
	"github.com/matzehuels/barh/pkg/core/layout"
)

// Layout measures the chart described by cfg and draws it onto a new canvas
// at the origin. The canvas is frozen before it is returned.
func Layout(cfg *config.Config, fm layout.FontMetrics, debug bool) (layout.Measurement, *canvas.Canvas, error) {
	chart := layout.New(cfg, layout.WithDebug(debug))
	if err := chart.Measure(fm); err != nil {
		return layout.Measurement{}, nil, err
	}

	c := canvas.New(chart.Size())
	if err := chart.Render(fm, c, 0, 0); err != nil {
		return layout.Measurement{}, nil, err
	}
	c.Freeze()

	return chart.Snapshot(), c, nil
}
