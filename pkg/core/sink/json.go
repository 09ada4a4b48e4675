package sink

import (
	"encoding/json"

	"github.com/matzehuels/barh/pkg/core/canvas"
	"github.com/matzehuels/barh/pkg/core/layout"
)

// Document is the JSON form of a rendered chart.
type Document struct {
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Elements []canvas.Element    `json:"elements"`
	Layout   *layout.Measurement `json:"layout,omitempty"`
}

// RenderJSON serializes the recorded primitives and, when m is non-nil, the
// measured geometry they were drawn from.
func RenderJSON(c *canvas.Canvas, m *layout.Measurement) ([]byte, error) {
	size := c.Size()
	doc := Document{
		Width:    size.W,
		Height:   size.H,
		Elements: c.Elements(),
		Layout:   m,
	}
	return json.MarshalIndent(doc, "", "  ")
}
