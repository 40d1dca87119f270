package delta

import (
	"math"
	"strconv"
)

// FormatNumber renders n with a K/M/B magnitude suffix and one decimal place.
// Values that round to less than one thousand in magnitude are rendered as an integer.
// The suffix is chosen after rounding, so 999.6 is "1.0K" and 999950 is "1.0M".
func FormatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}

	abs := math.Abs(n)
	if math.Round(abs) < 1e3 {
		rounded := math.Round(n)
		if rounded == 0 {
			// avoid "-0"
			return "0"
		}
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}

	sign := ""
	if n < 0 {
		sign = "-"
	}
	for _, m := range magnitudes {
		scaled := strconv.FormatFloat(abs/m.unit, 'f', 1, 64)
		if v, err := strconv.ParseFloat(scaled, 64); err == nil && v < 1e3 {
			return sign + scaled + m.suffix
		}
	}
	return sign + strconv.FormatFloat(abs/1e9, 'f', 1, 64) + "B"
}

var magnitudes = []struct {
	unit   float64
	suffix string
}{
	{1e3, "K"},
	{1e6, "M"},
}
