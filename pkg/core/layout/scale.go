package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/barh/pkg/errors"
)

// TickCount is the number of generated ticks when no explicit list is given.
const TickCount = 5

// NiceMaximum rounds v up to a visually round axis ceiling, the way common
// charting libraries pick their scale.
//
// The value is normalized into (100, 1000), rounded, and mapped onto the
// ladder 100, 120, 160, 200, 240, 300, 400, 500, 600, 800, 1000 before the
// normalization is undone. Results above 1 are rounded to whole numbers;
// smaller results keep their fraction, so 0.2 stays 0.2.
func NiceMaximum(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "scale maximum must be a positive finite number, got %v", v)
	}

	step := 1.0
	for v <= 100 && !math.IsInf(step, 0) {
		step *= 10
		v *= 10
	}
	if math.IsInf(step, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "scale maximum %v is too small to normalize", v/step)
	}
	for v >= 1000 {
		step *= 0.1
		v *= 0.1
	}

	var mapped float64
	switch v1 := int(math.Round(v)); {
	case v1 == 100:
		mapped = 100
	case v1 >= 101 && v1 <= 119:
		mapped = 120
	case v1 >= 120 && v1 <= 149:
		mapped = 160
	case v1 >= 150 && v1 <= 200:
		mapped = 200
	case v1 >= 201 && v1 <= 240:
		mapped = 240
	case v1 >= 241 && v1 <= 299:
		mapped = 300
	case v1 >= 300 && v1 <= 400:
		mapped = 400
	case v1 >= 401 && v1 <= 449:
		mapped = 500
	case v1 >= 450 && v1 <= 599:
		mapped = 600
	case v1 >= 600 && v1 <= 749:
		mapped = 800
	case v1 >= 750 && v1 <= 1000:
		// 999.5 and above round to 1000
		mapped = 1000
	default:
		return 0, errors.New(errors.ErrCodeInternal, "normalized scale value %d outside ladder", v1)
	}

	v3 := mapped / step
	if !(v3 > 0) || math.IsInf(v3, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "scale maximum has no representable ceiling")
	}
	if v3 > 1 {
		return math.Round(v3), nil
	}
	return v3, nil
}

// DefaultTicks returns TickCount evenly spaced values from 0 to ceiling.
func DefaultTicks(ceiling float64) []float64 {
	step := ceiling / float64(TickCount-1)
	ticks := make([]float64, TickCount)
	for i := range ticks {
		ticks[i] = float64(i) * step
	}
	ticks[TickCount-1] = ceiling
	return ticks
}

// FormatNumber prints v in its shortest decimal form: 10 becomes "10" and
// 2.5 stays "2.5". Values are first rounded to 12 significant digits so
// that binary noise such as 0.15000000000000002 prints as "0.15".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		r = v
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
