package canvas

import (
	"reflect"
	"sync"
	"testing"

	"github.com/matzehuels/barh/pkg/config"
	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/errors"
)

func TestCanvasRecordsInOrder(t *testing.T) {
	c := New(layout.Size{W: 100, H: 50})

	r, err := c.Rect(1, 2, 3, 4)
	if err != nil {
		t.Fatalf("Rect() error: %v", err)
	}
	r.Set(layout.AttrStroke, "red")
	tx, _ := c.Text("hi", 5, 6, layout.Font{Family: "Go", Size: 16})
	tx.Set(layout.AttrFill, "#000")
	tx.Set(layout.AttrFill, "#fff")
	_, _ = c.HLine(7, 8, 9)
	_, _ = c.VLine(10, 11, 12)

	want := []Element{
		{Kind: KindRect, X: 1, Y: 2, W: 3, H: 4, Attrs: []Attr{{"fill", "none"}, {"stroke", "red"}}},
		{Kind: KindText, X: 5, Y: 6, Text: "hi", Font: &layout.Font{Family: "Go", Size: 16}, Attrs: []Attr{{"fill", "#fff"}}},
		{Kind: KindHLine, X: 7, Y: 8, W: 9, H: 1},
		{Kind: KindVLine, X: 10, Y: 11, W: 1, H: 12},
	}
	if got := c.Elements(); !reflect.DeepEqual(got, want) {
		t.Errorf("Elements() = %+v, want %+v", got, want)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	if c.Size() != (layout.Size{W: 100, H: 50}) {
		t.Errorf("Size() = %+v", c.Size())
	}
}

func TestCanvasRectFilledOverridesDefault(t *testing.T) {
	c := New(layout.Size{})
	r, _ := c.Rect(0, 0, 1, 1)
	r.Set(layout.AttrFill, "#3260cd")

	e := c.Elements()[0]
	if v, _ := e.Attr("fill"); v != "#3260cd" {
		t.Errorf("fill = %q, want #3260cd", v)
	}
	if len(e.Attrs) != 1 {
		t.Errorf("Attrs = %+v, want a single fill", e.Attrs)
	}
}

func TestCanvasRejectsNegativeSize(t *testing.T) {
	c := New(layout.Size{})
	if _, err := c.Rect(0, 0, -1, 5); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Rect() error = %v, want INVALID_INPUT", err)
	}
	if _, err := c.HLine(0, 0, -3); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("HLine() error = %v, want INVALID_INPUT", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCanvasFreeze(t *testing.T) {
	c := New(layout.Size{})
	r, _ := c.Rect(0, 0, 1, 1)
	c.Freeze()

	if !c.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	if _, err := c.VLine(0, 0, 1); err != ErrFrozen {
		t.Errorf("VLine() error = %v, want ErrFrozen", err)
	}
	r.Set(layout.AttrStroke, "red")
	if _, ok := c.Elements()[0].Attr("stroke"); ok {
		t.Error("Set after Freeze modified the element")
	}
}

func TestElementsIsACopy(t *testing.T) {
	c := New(layout.Size{})
	_, _ = c.Text("x", 0, 0, layout.Font{Family: "Go", Size: 1})
	els := c.Elements()
	els[0].Font.Family = "changed"
	els[0].Attrs = append(els[0].Attrs, Attr{"fill", "red"})

	e := c.Elements()[0]
	if e.Font.Family != "Go" || len(e.Attrs) != 0 {
		t.Errorf("Elements() leaked internal state: %+v", e)
	}
}

// fixedMetrics measures every rune as 7 pixels wide.
type fixedMetrics struct{}

func (fixedMetrics) TextBounds(s string) layout.Rect { return layout.Rect{Y: -9, W: 7 * len(s), H: 9} }
func (fixedMetrics) LineHeight() int                 { return 16 }
func (fixedMetrics) FullHeight() int                 { return 20 }
func (fixedMetrics) Family() string                  { return "Test" }

func TestCanvasAsChartSurface(t *testing.T) {
	cfg := &config.Config{Items: []config.Item{{Name: "a", Value: 10, Color: "#f00"}, {Name: "bb", Value: 30, Color: "#0f0"}}}
	chart := layout.New(cfg)
	if err := chart.Measure(fixedMetrics{}); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}

	c := New(chart.Size())
	if err := chart.Render(fixedMetrics{}, c, 0, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	c.Freeze()

	// 2 names, 5 ticks with labels, 2 bars with annotations, zero guide
	if c.Len() != 17 {
		t.Fatalf("Len() = %d, want 17", c.Len())
	}
	last := c.Elements()[16]
	if last.Kind != KindVLine {
		t.Errorf("last element kind = %s, want vline", last.Kind)
	}
	if v, _ := last.Attr("fill"); v != "#333" {
		t.Errorf("zero guide fill = %q, want #333", v)
	}

	// frozen canvases are read concurrently by the serializers
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Elements()
		}()
	}
	wg.Wait()

	if err := chart.Render(fixedMetrics{}, c, 0, 0); err != ErrFrozen {
		t.Errorf("Render() on frozen canvas error = %v, want ErrFrozen", err)
	}
}
