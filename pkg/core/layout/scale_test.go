package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/barh/pkg/errors"
)

func TestNiceMaximum(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.2, 0.2},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 6},
		{6, 8},
		{7, 8},
		{8, 10},
		{9, 10},
		{10, 10},
		{11, 12},
		{12, 16},
		{14, 16},
		{15, 20},
		{19, 20},
		{20, 20},
		{21, 24},
		{22, 24},
		{25, 30},
		{29, 30},
		{30, 40},
		{35, 40},
		{40, 40},
		{42, 50},
		{50, 60},
		{57, 60},
		{60, 80},
		{70, 80},
		{74, 80},
		{75, 100},
		{95, 100},
		{99.96, 100},
		{100, 100},
		{101, 120},
		{129, 160},
		{1120, 1200},
		{19684, 20000},
	}

	for _, tt := range tests {
		got, err := NiceMaximum(tt.in)
		if err != nil {
			t.Errorf("NiceMaximum(%v) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NiceMaximum(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNiceMaximumCoversLadder(t *testing.T) {
	for i := 10; i < 1000; i++ {
		if _, err := NiceMaximum(float64(i) / 10); err != nil {
			t.Fatalf("NiceMaximum(%v) error: %v", float64(i)/10, err)
		}
	}
}

func TestNiceMaximumProperties(t *testing.T) {
	prev := 0.0
	for i := 1; i < 1000; i++ {
		v := float64(i)
		got, err := NiceMaximum(v)
		if err != nil {
			t.Fatalf("NiceMaximum(%v) error: %v", v, err)
		}
		if got < v {
			t.Errorf("NiceMaximum(%v) = %v, below input", v, got)
		}
		if got < prev {
			t.Errorf("NiceMaximum(%v) = %v, smaller than NiceMaximum(%v) = %v", v, got, v-1, prev)
		}
		prev = got
	}
}

func TestNiceMaximumRejects(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), 1e-308, 5e-324} {
		_, err := NiceMaximum(v)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("NiceMaximum(%v) error = %v, want INVALID_INPUT", v, err)
		}
	}
}

func TestDefaultTicks(t *testing.T) {
	tests := []struct {
		ceiling float64
		want    []float64
	}{
		{40, []float64{0, 10, 20, 30, 40}},
		{100, []float64{0, 25, 50, 75, 100}},
		{1, []float64{0, 0.25, 0.5, 0.75, 1}},
		{1200, []float64{0, 300, 600, 900, 1200}},
	}

	for _, tt := range tests {
		got := DefaultTicks(tt.ceiling)
		if len(got) != TickCount {
			t.Fatalf("DefaultTicks(%v) returned %d ticks, want %d", tt.ceiling, len(got), TickCount)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DefaultTicks(%v)[%d] = %v, want %v", tt.ceiling, i, got[i], tt.want[i])
			}
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{142.5, "142.5"},
		{0.2, "0.2"},
		{0.15000000000000002, "0.15"},
		{20000, "20000"},
		{1e21, "1000000000000000000000"},
		{-3, "-3"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
