// Package series provides the derived statistics a KPI widget shows next to its delta:
// sparkline sampling, endpoint trend, moving average, confidence interval and smoothing.
//
// Every function treats its input as read-only; the same series is routinely shared by
// several computations within one refresh cycle.
package series

import (
	"math"
	"time"

	"github.com/pravado/citemind/internal/analytics"
)

// DefaultSparklinePoints is the default cap for GenerateSparklineData
const DefaultSparklinePoints = 20

// SparklinePoint is the reduced point shape consumed by sparkline widgets
type SparklinePoint struct {
	Time  time.Time `json:"timestamp"`
	Value float64   `json:"value"`
}

// GenerateSparklineData reduces a series to at most maxPoints chronologically ordered points.
//
// Series that already fit are returned whole. For longer series a floor(N/maxPoints) stride
// plus the forced newest point always lands one or more over the cap, so exactly maxPoints
// points are taken at evenly spaced indices from the oldest to the newest. The newest point
// is always kept and no gap exceeds ceil((N-1)/(maxPoints-1)) positions.
// A non-positive maxPoints selects DefaultSparklinePoints.
func GenerateSparklineData(points analytics.TimeSeriesData, maxPoints int) []SparklinePoint {
	if maxPoints <= 0 {
		maxPoints = DefaultSparklinePoints
	}

	sorted := points.Sorted()
	n := len(sorted)
	if n <= maxPoints {
		return toSparkline(sorted)
	}
	if maxPoints == 1 {
		return toSparkline(sorted[n-1:])
	}

	spacing := float64(n-1) / float64(maxPoints-1)
	sampled := make(analytics.TimeSeriesData, maxPoints)
	for i := range sampled {
		sampled[i] = sorted[int(math.Round(float64(i)*spacing))]
	}
	sampled[maxPoints-1] = sorted[n-1]

	return toSparkline(sampled)
}

func toSparkline(points analytics.TimeSeriesData) []SparklinePoint {
	out := make([]SparklinePoint, len(points))
	for i, p := range points {
		out[i] = SparklinePoint{Time: p.Time, Value: p.Value}
	}
	return out
}

// SparklineValues extracts the values of a sparkline
func SparklineValues(points []SparklinePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
