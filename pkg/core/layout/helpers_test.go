package layout

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeMetrics gives every character a width of 7 and every text a height
// of 9 above the baseline.
type fakeMetrics struct{}

func (fakeMetrics) TextBounds(text string) Rect {
	return Rect{X: 0, Y: -9, W: len(text) * 7, H: 9}
}
func (fakeMetrics) LineHeight() int { return 16 }
func (fakeMetrics) FullHeight() int { return 20 }
func (fakeMetrics) Family() string  { return "Test" }

// recorder is a Surface that logs every call as a line of text.
type recorder struct {
	ops    []*op
	failAt int // 1-based call index that fails, 0 never
}

type op struct {
	desc  string
	attrs []string
}

func (o *op) Set(attr Attr, value string) {
	o.attrs = append(o.attrs, fmt.Sprintf("%s=%s", attr, value))
}

func (o *op) String() string {
	if len(o.attrs) == 0 {
		return o.desc
	}
	return o.desc + " " + strings.Join(o.attrs, " ")
}

var errSurface = errors.New("surface full")

func (r *recorder) add(desc string) (Shape, error) {
	if r.failAt > 0 && len(r.ops)+1 == r.failAt {
		return nil, errSurface
	}
	o := &op{desc: desc}
	r.ops = append(r.ops, o)
	return o, nil
}

func (r *recorder) Rect(x, y, w, h int) (Shape, error) {
	return r.add(fmt.Sprintf("rect %d %d %d %d", x, y, w, h))
}

func (r *recorder) Text(text string, x, y int, font Font) (Shape, error) {
	return r.add(fmt.Sprintf("text %q %d %d %s/%d", text, x, y, font.Family, font.Size))
}

func (r *recorder) HLine(x, y, w int) (Shape, error) {
	return r.add(fmt.Sprintf("hline %d %d %d", x, y, w))
}

func (r *recorder) VLine(x, y, h int) (Shape, error) {
	return r.add(fmt.Sprintf("vline %d %d %d", x, y, h))
}

func (r *recorder) lines() []string {
	out := make([]string, len(r.ops))
	for i, o := range r.ops {
		out[i] = o.String()
	}
	return out
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, o := range r.ops {
		if strings.HasPrefix(o.desc, prefix) {
			n++
		}
	}
	return n
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}
