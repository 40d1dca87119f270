package series

// DefaultSmoothingAlpha is the smoothing factor used when alpha is out of range
const DefaultSmoothingAlpha = 0.3

// ExponentialSmoothing applies single exponential smoothing:
// S[0] = values[0], S[i] = alpha*values[i] + (1-alpha)*S[i-1].
// alpha outside (0, 1] selects DefaultSmoothingAlpha.
func ExponentialSmoothing(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}

	smoothed := make([]float64, len(values))
	smoothed[0] = values[0]
	for i := 1; i < len(values); i++ {
		smoothed[i] = alpha*values[i] + (1-alpha)*smoothed[i-1]
	}
	return smoothed
}
