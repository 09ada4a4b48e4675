package sink

import (
	"bytes"
	"html"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/barh/pkg/core/canvas"
)

// DefaultComment is written at the top of every SVG unless replaced.
const DefaultComment = "Generated with barh"

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	comment string
	crisp   bool
}

// WithComment replaces the generator comment. An empty string omits it.
func WithComment(s string) SVGOption { return func(r *svgRenderer) { r.comment = s } }

// WithoutCrispEdges lets the user agent anti-alias edges.
func WithoutCrispEdges() SVGOption { return func(r *svgRenderer) { r.crisp = false } }

// RenderSVG serializes the canvas as an SVG document. The document is one
// pixel larger than the canvas in both directions so the right and bottom
// guide lines are not clipped.
func RenderSVG(c *canvas.Canvas, opts ...SVGOption) []byte {
	r := &svgRenderer{comment: DefaultComment, crisp: true}
	for _, opt := range opts {
		opt(r)
	}

	var buf bytes.Buffer
	s := svg.New(&buf)

	size := c.Size()
	var extra []string
	if r.crisp {
		// only right angles are drawn
		extra = append(extra, `shape-rendering="crispEdges"`)
	}
	s.Start(size.W+1, size.H+1, extra...)
	if r.comment != "" {
		s.Comment(r.comment)
	}

	for _, e := range c.Elements() {
		switch e.Kind {
		case canvas.KindText:
			attrs := make([]string, 0, 2+len(e.Attrs))
			if e.Font != nil {
				attrs = append(attrs,
					attr("font-family", e.Font.Family),
					attr("font-size", strconv.Itoa(e.Font.Size)),
				)
			}
			s.Text(e.X, e.Y, e.Text, append(attrs, attrList(e.Attrs)...)...)
		default:
			s.Rect(e.X, e.Y, e.W, e.H, attrList(e.Attrs)...)
		}
	}

	s.End()
	return buf.Bytes()
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func attrList(attrs []canvas.Attr) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = attr(a.Name, a.Value)
	}
	return out
}
