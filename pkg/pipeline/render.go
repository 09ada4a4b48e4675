package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/barh/pkg/core/canvas"
	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/core/sink"
)

// Render serializes a frozen canvas to every format in opts.Formats. The
// formats are produced concurrently; the first failure cancels the rest.
func Render(ctx context.Context, c *canvas.Canvas, m *layout.Measurement, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	svgOpts := opts.svgOptions()
	out := make([][]byte, len(opts.Formats))

	g, gctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, c, m, format, opts.Scale, svgOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			out[i] = data
			opts.Logger.Debug("rendered format", "format", format, "bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(out))
	for i, format := range opts.Formats {
		artifacts[format] = out[i]
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, c *canvas.Canvas, m *layout.Measurement, format string, scale float64, svgOpts []sink.SVGOption) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(c, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(c, m)
	case FormatPDF:
		return sink.RenderPDF(ctx, c, svgOpts...)
	case FormatPNG:
		return sink.RenderPNG(ctx, c, scale, svgOpts...)
	default:
		return nil, ValidateFormat(format)
	}
}

func (o *Options) svgOptions() []sink.SVGOption {
	if o.NoComment {
		return []sink.SVGOption{sink.WithComment("")}
	}
	return nil
}
