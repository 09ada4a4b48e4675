// Package pkg holds the libraries behind barh, a horizontal bar chart renderer.
//
// # Overview
//
// A chart description (JSON, TOML or YAML) names a list of items with values
// and optional colors. barh measures the chart against real font metrics,
// places every block, tick and bar on an integer pixel grid and draws the
// result onto a canvas that sinks turn into SVG, PNG, PDF or a JSON dump.
//
// # Architecture
//
//	chart description
//	       ↓
//	  [config]          parse and validate
//	       ↓
//	  [core/layout]     measure blocks, pick the axis ceiling and ticks
//	       ↓
//	  [core/canvas]     record primitives
//	       ↓
//	  [core/sink]       SVG, JSON, PNG and PDF
//
// [pipeline] runs these stages for the CLI and the HTTP service, [fonts]
// supplies the metrics the layout measures text with, and [observability]
// lets callers hook into each stage.
//
// # Quick Start
//
//	r := pipeline.NewRunner(logger)
//	res, err := r.Execute(ctx, pipeline.Options{
//		Source:  data,
//		Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//		return err
//	}
//	os.WriteFile("chart.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
package pkg
