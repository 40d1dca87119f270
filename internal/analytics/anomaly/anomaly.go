// Package anomaly flags outliers in a metric series by standard-deviation thresholding.
package anomaly

import (
	"math"
)

const (
	// DefaultThreshold is the number of standard deviations a value may sit from the mean
	DefaultThreshold = 2.0

	// MinDataPoints is the smallest sample that is analyzed at all
	MinDataPoints = 3
)

// Report lists flagged points. Indices and Values are index-aligned.
type Report struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Len returns the number of flagged points
func (r Report) Len() int {
	return len(r.Indices)
}

// DetectAnomalies flags every value whose distance from the population mean reaches
// threshold population standard deviations. A point exactly on the boundary is flagged.
// Fewer than MinDataPoints values, or a series without variation, yields an empty report.
// A non-positive threshold selects DefaultThreshold.
func DetectAnomalies(values []float64, threshold float64) Report {
	report := Report{
		Indices: []int{},
		Values:  []float64{},
	}
	if len(values) < MinDataPoints {
		return report
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	mean, stdDev := CalculateMeanStdDev(values)
	if stdDev == 0 {
		return report
	}

	for i, v := range values {
		if math.Abs(CalculateZScore(v, mean, stdDev)) >= threshold {
			report.Indices = append(report.Indices, i)
			report.Values = append(report.Values, v)
		}
	}

	return report
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

// CalculateMeanStdDev calculates mean and population standard deviation for a slice of values
func CalculateMeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	stdDev = math.Sqrt(varianceSum / float64(len(values)))

	return mean, stdDev
}
