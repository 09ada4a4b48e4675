package layout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/errors"
)

func TestChartSize(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want Size
	}{
		{
			name: "bars only",
			cfg:  &config.Config{Items: twoItems},
			want: Size{W: 210 + 18, H: 128},
		},
		{
			name: "with title",
			cfg:  &config.Config{Title: "T", Items: twoItems},
			want: Size{W: 228, H: 20 + 128},
		},
		{
			name: "with title and axis caption",
			cfg:  &config.Config{Title: "T", Items: twoItems, HorAxis: &config.HorAxis{Title: "Axis"}},
			want: Size{W: 228, H: 20 + 128 + 20},
		},
		{
			name: "axis without caption adds no block",
			cfg:  &config.Config{Items: twoItems, HorAxis: &config.HorAxis{Suffix: ""}},
			want: Size{W: 228, H: 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg)
			if c.Size() != (Size{}) {
				t.Errorf("Size() before Measure = %+v, want zero", c.Size())
			}
			if err := c.Measure(fakeMetrics{}); err != nil {
				t.Fatalf("Measure() error: %v", err)
			}
			if c.Size() != tt.want {
				t.Errorf("Size() = %+v, want %+v", c.Size(), tt.want)
			}
		})
	}
}

func TestChartRender(t *testing.T) {
	cfg := &config.Config{Title: "T", Items: twoItems, HorAxis: &config.HorAxis{Title: "Axis"}}
	c := New(cfg)
	if err := c.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	r := &recorder{}
	if err := c.Render(fakeMetrics{}, r, 0, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got := r.lines()

	// title, 2 names, 5 ticks with labels, 2 bars with annotations, zero guide, caption
	if len(got) != 1+2+10+4+1+1 {
		t.Fatalf("Render() emitted %d primitives: %q", len(got), got)
	}
	checks := map[int]string{
		0:  `text "T" 21 16 Test/16 font-weight=bold`,
		1:  `text "a" 11 58 Test/16`,
		2:  `text "bb" 4 100 Test/16`,
		3:  "vline 21 30 98 fill=#ccc",
		4:  `text "0" 18 142 Test/16 fill=#000`,
		13: "rect 21 44 50 28 fill=#f00",
		14: `text "10" 52 58 Test/16 fill=#fff`,
		17: "vline 21 30 98 fill=#333",
		18: `text "Axis" 109 164 Test/16 font-style=italic`,
	}
	for i, want := range checks {
		if got[i] != want {
			t.Errorf("primitive %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestChartRenderOffset(t *testing.T) {
	c := New(&config.Config{Items: twoItems})
	if err := c.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	r := &recorder{}
	if err := c.Render(fakeMetrics{}, r, 100, 50); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := r.lines()[0]; got != `text "a" 111 88 Test/16` {
		t.Errorf("first primitive = %q", got)
	}
	if got := r.lines()[len(r.ops)-1]; got != "vline 121 60 98 fill=#333" {
		t.Errorf("last primitive = %q", got)
	}
}

func TestChartRenderIsDeterministic(t *testing.T) {
	cfg := &config.Config{Title: "T", Items: twoItems, HorAxis: &config.HorAxis{Title: "Axis", Suffix: "%"}}

	c := New(cfg, WithDebug(true))
	if err := c.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	first, second := &recorder{}, &recorder{}
	if err := c.Render(fakeMetrics{}, first, 0, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if err := c.Render(fakeMetrics{}, second, 0, 0); err != nil {
		t.Fatalf("second Render() error: %v", err)
	}
	if !reflect.DeepEqual(first.lines(), second.lines()) {
		t.Error("rendering twice produced different primitives")
	}

	other := New(cfg, WithDebug(true))
	if err := other.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	third := &recorder{}
	if err := other.Render(fakeMetrics{}, third, 0, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !reflect.DeepEqual(first.lines(), third.lines()) {
		t.Error("a fresh chart produced different primitives")
	}
}

func TestChartDebug(t *testing.T) {
	c := New(&config.Config{Items: twoItems})
	if c.Debug() {
		t.Fatal("Debug() = true for a default chart")
	}
	if err := c.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	plain := &recorder{}
	if err := c.Render(fakeMetrics{}, plain, 0, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	c.SetDebug(true)
	debug := &recorder{}
	if err := c.Render(fakeMetrics{}, debug, 0, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	// bars: block, drawable, 5 tick labels; vaxis: 2 labels and the block
	if n := len(debug.ops) - len(plain.ops); n != 10 {
		t.Errorf("debug added %d primitives, want 10", n)
	}
	if plain.count("rect") != 2 {
		t.Errorf("plain render has %d rects, want 2", plain.count("rect"))
	}
}

func TestChartMeasureErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"empty items", &config.Config{}},
		{"negative value", &config.Config{Items: []config.Item{{Name: "a", Value: -1}}}},
		{"all zero", &config.Config{Items: []config.Item{{Name: "a"}}}},
		{"denormal value", &config.Config{Items: []config.Item{{Name: "a", Value: 5e-324}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg)
			err := c.Measure(fakeMetrics{})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("Measure() error = %v, want INVALID_INPUT", err)
			}
			mustPanic(t, "render after failed measure", func() {
				_ = c.Render(fakeMetrics{}, &recorder{}, 0, 0)
			})
			mustPanic(t, "measure after failed measure", func() {
				_ = c.Measure(fakeMetrics{})
			})
		})
	}
}

func TestChartMeasureFlatFont(t *testing.T) {
	width := 100
	c := New(&config.Config{Items: twoItems, HorAxis: &config.HorAxis{Width: &width}})
	if err := c.Measure(flatMetrics{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Measure() error = %v, want INVALID_INPUT", err)
	}
}

func TestChartOrderingPanics(t *testing.T) {
	mustPanic(t, "render before measure", func() {
		_ = New(&config.Config{Items: twoItems}).Render(fakeMetrics{}, &recorder{}, 0, 0)
	})
	mustPanic(t, "snapshot before measure", func() {
		New(&config.Config{Items: twoItems}).Snapshot()
	})
	mustPanic(t, "measure twice", func() {
		c := New(&config.Config{Items: twoItems})
		_ = c.Measure(fakeMetrics{})
		_ = c.Measure(fakeMetrics{})
	})
}

func TestChartSurfaceError(t *testing.T) {
	c := New(&config.Config{Title: "T", Items: twoItems})
	if err := c.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	for _, failAt := range []int{1, 2, 5, 17} {
		r := &recorder{failAt: failAt}
		if err := c.Render(fakeMetrics{}, r, 0, 0); err != errSurface {
			t.Errorf("failAt %d: Render() error = %v, want %v", failAt, err, errSurface)
		}
	}
}

func TestChartSnapshot(t *testing.T) {
	cfg := &config.Config{Title: "T", Items: twoItems, HorAxis: &config.HorAxis{Title: "Axis"}}
	c := New(cfg)
	if err := c.Measure(fakeMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	m := c.Snapshot()
	if m.Size != (Size{W: 228, H: 168}) {
		t.Errorf("Size = %+v", m.Size)
	}
	if m.Ceiling != 40 || m.ItemHeight != 28 {
		t.Errorf("Ceiling = %v, ItemHeight = %d", m.Ceiling, m.ItemHeight)
	}
	if want := (Rect{X: 21, Y: 30, W: 200, H: 98}); m.Drawable != want {
		t.Errorf("Drawable = %+v, want %+v", m.Drawable, want)
	}
	wantBlocks := []Block{
		{Name: "title", Rect: Rect{X: 21, Y: 0, W: 7, H: 20}},
		{Name: "vaxis", Rect: Rect{X: 0, Y: 20, W: 18, H: 128}},
		{Name: "bars", Rect: Rect{X: 18, Y: 20, W: 210, H: 128}},
		{Name: "haxis", Rect: Rect{X: 18, Y: 148, W: 210, H: 20}},
	}
	if !reflect.DeepEqual(m.Blocks, wantBlocks) {
		t.Errorf("Blocks = %+v, want %+v", m.Blocks, wantBlocks)
	}
	if len(m.Ticks) != 5 || len(m.Bars) != 2 || m.Overflow {
		t.Errorf("Ticks = %d, Bars = %d, Overflow = %v", len(m.Ticks), len(m.Bars), m.Overflow)
	}

	m.Bars[0].Name = "changed"
	if c.Snapshot().Bars[0].Name != "a" {
		t.Error("Snapshot() exposes internal bar storage")
	}
}
