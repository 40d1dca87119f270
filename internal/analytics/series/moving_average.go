package series

// DefaultMovingAverageWindow is the default window for CalculateMovingAverage
const DefaultMovingAverageWindow = 3

// CalculateMovingAverage returns the trailing simple moving average of values.
// The result has len(values)-window+1 elements; no partial windows are produced.
// When values is shorter than window a copy of values is returned unchanged.
// A non-positive window selects DefaultMovingAverageWindow.
func CalculateMovingAverage(values []float64, window int) []float64 {
	if window <= 0 {
		window = DefaultMovingAverageWindow
	}
	if len(values) < window {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	out := make([]float64, 0, len(values)-window+1)
	for i := 0; i+window <= len(values); i++ {
		sum := 0.0
		for _, v := range values[i : i+window] {
			sum += v
		}
		out = append(out, sum/float64(window))
	}
	return out
}
