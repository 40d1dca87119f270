package series

import "math"

// DefaultConfidence is the confidence level used when none is given
const DefaultConfidence = 0.95

// confidenceMultipliers approximates the t-distribution with normal z-values.
// Displayed intervals depend on these exact numbers; unknown levels use the 95% entry.
var confidenceMultipliers = map[float64]float64{
	0.90: 1.645,
	0.95: 1.96,
	0.99: 2.576,
}

// ConfidenceInterval is an approximate range around a sample mean
type ConfidenceInterval struct {
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Margin returns the half-width of the interval
func (ci ConfidenceInterval) Margin() float64 {
	return ci.Upper - ci.Mean
}

// ConfidenceMultiplier returns the multiplier used for a confidence level
func ConfidenceMultiplier(confidence float64) float64 {
	if z, ok := confidenceMultipliers[confidence]; ok {
		return z
	}
	return confidenceMultipliers[DefaultConfidence]
}

// CalculateConfidenceInterval computes mean ± z*stderr with the Bessel-corrected sample
// variance and stderr = sqrt(variance/n). An empty sample yields a zero interval and a
// single value a zero-width interval around it.
func CalculateConfidenceInterval(values []float64, confidence float64) ConfidenceInterval {
	n := len(values)
	if n == 0 {
		return ConfidenceInterval{}
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if n < 2 {
		return ConfidenceInterval{Mean: mean, Lower: mean, Upper: mean}
	}

	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	variance := sumSq / float64(n-1)
	stdErr := math.Sqrt(variance / float64(n))
	margin := ConfidenceMultiplier(confidence) * stdErr

	return ConfidenceInterval{
		Mean:  mean,
		Lower: mean - margin,
		Upper: mean + margin,
	}
}
