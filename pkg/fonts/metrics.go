package fonts

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/errors"
)

const (
	pxPerPoint       = 1.3333
	fullHeightFactor = 1.65
	widthPadding     = 1.12
	refSize          = 100
)

// MaxSize is the largest accepted font size in points.
const MaxSize = 1000

// Metrics measures text with one font at one size.
// It is safe for concurrent use.
type Metrics struct {
	family     string
	size       float64
	lineHeight int
	fullHeight int

	mu   sync.Mutex // font.Face is not safe for concurrent use
	face font.Face
}

var _ layout.FontMetrics = (*Metrics)(nil)

// New builds metrics for f at size points. The face is scaled so that its
// ascent plus descent equals the line height.
func New(f *opentype.Font, family string, size float64) (*Metrics, error) {
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 || math.IsNaN(size) || size > MaxSize {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font size must be positive and at most %d, got %v", MaxSize, size)
	}

	m := &Metrics{
		family:     family,
		size:       size,
		lineHeight: int(math.Round(size * pxPerPoint)),
		fullHeight: int(math.Round(size * fullHeightFactor)),
	}
	if m.lineHeight <= 0 || m.fullHeight <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font size %v is too small to draw", size)
	}

	ref, err := opentype.NewFace(f, &opentype.FaceOptions{Size: refSize, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create font face")
	}
	pm := ref.Metrics()
	_ = ref.Close()

	extent := float64(pm.Ascent+pm.Descent) / 64
	ppem := float64(m.lineHeight)
	if extent > 0 {
		ppem = float64(m.lineHeight) * refSize / extent
	}

	m.face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: ppem, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create font face")
	}
	return m, nil
}

// TextBounds returns the ink bounds of text relative to its baseline origin.
// The width runs from the origin to the right edge of the last glyph.
func (m *Metrics) TextBounds(text string) layout.Rect {
	if text == "" {
		return layout.Rect{}
	}
	m.mu.Lock()
	b, _ := font.BoundString(m.face, text)
	m.mu.Unlock()

	if b.Empty() {
		return layout.Rect{}
	}
	top := b.Min.Y.Floor()
	right := max(b.Max.X.Ceil(), 0)
	return layout.Rect{
		X: 0,
		Y: top,
		W: int(float64(right) * widthPadding),
		H: b.Max.Y.Ceil() - top,
	}
}

// Advance returns the horizontal advance of text in pixels.
func (m *Metrics) Advance(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return font.MeasureString(m.face, text).Ceil()
}

// LineHeight is the pixel size text is drawn at.
func (m *Metrics) LineHeight() int { return m.lineHeight }

// FullHeight is the vertical space reserved for a line of labels.
func (m *Metrics) FullHeight() int { return m.fullHeight }

// Family is the font family written into text primitives.
func (m *Metrics) Family() string { return m.family }

// Size is the font size in points.
func (m *Metrics) Size() float64 { return m.size }

// Close releases the font face.
func (m *Metrics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face.Close()
}

// ascent is exposed to tests.
func (m *Metrics) ascent() fixed.Int26_6 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face.Metrics().Ascent
}
