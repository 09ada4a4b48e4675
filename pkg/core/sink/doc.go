// Package sink serializes a recorded [canvas.Canvas] to output formats.
//
// # Formats
//
//   - SVG via [RenderSVG], written with github.com/ajstarks/svgo. Edges are
//     rendered crisp and a generator comment is added.
//   - JSON via [RenderJSON]: the primitive list plus, optionally, the
//     measured chart geometry.
//   - PDF and PNG via [RenderPDF] and [RenderPNG], which convert the SVG with
//     rsvg-convert. A missing binary is reported as an UNSUPPORTED error.
//
// All functions only read the canvas, so several formats can be produced
// from one frozen canvas concurrently.
package sink
