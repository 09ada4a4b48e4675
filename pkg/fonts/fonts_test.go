package fonts

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/barh/pkg/errors"
)

func TestDefaultMetrics(t *testing.T) {
	tests := []struct {
		size       float64
		lineHeight int
		fullHeight int
	}{
		{0, 16, 20}, // DefaultSize
		{12, 16, 20},
		{10, 13, 17},
		{20, 27, 33},
	}
	for _, tt := range tests {
		m, err := Default(tt.size)
		if err != nil {
			t.Fatalf("Default(%v) error: %v", tt.size, err)
		}
		if got := m.LineHeight(); got != tt.lineHeight {
			t.Errorf("Default(%v).LineHeight() = %d, want %d", tt.size, got, tt.lineHeight)
		}
		if got := m.FullHeight(); got != tt.fullHeight {
			t.Errorf("Default(%v).FullHeight() = %d, want %d", tt.size, got, tt.fullHeight)
		}
		if m.Family() != DefaultFamily {
			t.Errorf("Family() = %q, want %q", m.Family(), DefaultFamily)
		}
		if m.ascent() <= 0 {
			t.Errorf("Default(%v) has no ascent", tt.size)
		}
	}
}

func TestDefaultRejectsBadSize(t *testing.T) {
	for _, size := range []float64{-1, -0.5, 0.2, 0.3, 1001, math.Inf(1), math.NaN()} {
		if _, err := Default(size); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Default(%v) error = %v, want INVALID_CONFIG", size, err)
		}
	}
}

func TestTextBounds(t *testing.T) {
	m, err := Default(12)
	if err != nil {
		t.Fatal(err)
	}

	if got := m.TextBounds(""); got.W != 0 || got.H != 0 {
		t.Errorf("TextBounds(\"\") = %+v, want zero", got)
	}

	short := m.TextBounds("1")
	long := m.TextBounds("1000")
	if short.W <= 0 || short.H <= 0 {
		t.Fatalf("TextBounds(\"1\") = %+v, want positive size", short)
	}
	if long.W <= short.W {
		t.Errorf("TextBounds(\"1000\").W = %d, want > %d", long.W, short.W)
	}
	if short.Y >= 0 {
		t.Errorf("TextBounds(\"1\").Y = %d, want negative (above baseline)", short.Y)
	}
	if short.H > m.LineHeight() {
		t.Errorf("digit height %d exceeds line height %d", short.H, m.LineHeight())
	}

	// width includes the 12% padding over the glyph extent
	if adv := m.Advance("1000"); long.W < adv {
		t.Errorf("padded width %d is smaller than advance %d", long.W, adv)
	}

	// descenders extend below the baseline
	if g := m.TextBounds("g"); g.Y+g.H <= 0 {
		t.Errorf("TextBounds(\"g\") = %+v, want ink below baseline", g)
	}
}

func TestTextBoundsConcurrent(t *testing.T) {
	m, err := Default(12)
	if err != nil {
		t.Fatal(err)
	}
	want := m.TextBounds("concurrent")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if got := m.TextBounds("concurrent"); got != want {
					t.Errorf("TextBounds() = %+v, want %+v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestLoad(t *testing.T) {
	t.Run("empty family uses default", func(t *testing.T) {
		m, err := Load("  ", 12)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if m.Family() != DefaultFamily {
			t.Errorf("Family() = %q", m.Family())
		}
	})

	t.Run("font file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "GoRegular.ttf")
		if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
			t.Fatal(err)
		}
		m, err := Load(path, 14)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", path, err)
		}
		if m.Family() != "Go" {
			t.Errorf("Family() = %q, want name table family %q", m.Family(), "Go")
		}
		if m.Size() != 14 {
			t.Errorf("Size() = %v, want 14", m.Size())
		}
	})

	t.Run("unknown family", func(t *testing.T) {
		_, err := Load("No Such Font Family 0xbarh", 12)
		if !errors.Is(err, errors.ErrCodeFontNotFound) {
			t.Errorf("Load() error = %v, want FONT_NOT_FOUND", err)
		}
	})

	t.Run("corrupt font file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Broken.ttf")
		if err := os.WriteFile(path, []byte("not a font"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path, 12)
		if !errors.Is(err, errors.ErrCodeFontNotFound) {
			t.Errorf("Load() error = %v, want FONT_NOT_FOUND", err)
		}
	})
}

func TestFindEmpty(t *testing.T) {
	if _, err := Find(""); !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("Find(\"\") error = %v, want FONT_NOT_FOUND", err)
	}
}

func TestCandidates(t *testing.T) {
	got := candidates("DejaVu Sans")
	for _, want := range []string{"DejaVu Sans.ttf", "DejaVuSans.ttf", "DejaVu-Sans.otf", "DejaVuSans-Regular.ttf"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates() missing %q in %v", want, got)
		}
	}

	if got := candidates("Arial.ttf"); !slices.Equal(got, []string{"Arial.ttf"}) {
		t.Errorf("candidates(\"Arial.ttf\") = %v", got)
	}
}

func TestList(t *testing.T) {
	for _, p := range List() {
		if !isFontFile(p) {
			t.Errorf("List() returned non-font file %q", p)
		}
	}
	if l := List(); !slices.IsSorted(l) {
		t.Error("List() is not sorted")
	}
}

func TestIsFile(t *testing.T) {
	tests := []struct {
		family string
		want   bool
	}{
		{"DejaVu Sans", false},
		{"Go", false},
		{"DejaVuSans.ttf", true},
		{"NotoSansCJK.TTC", true},
		{"fonts/Inter", true},
		{`..\fonts\Inter`, true},
	}
	for _, tt := range tests {
		if got := IsFile(tt.family); got != tt.want {
			t.Errorf("IsFile(%q) = %v, want %v", tt.family, got, tt.want)
		}
	}
}
