package kpi

import (
	"github.com/pravado/citemind/internal/analytics"
	"github.com/pravado/citemind/internal/analytics/anomaly"
	"github.com/pravado/citemind/internal/analytics/delta"
	"github.com/pravado/citemind/internal/analytics/series"
)

// BuildSnapshot runs one metric's series through the engines. data is not modified.
// RefreshID, GeneratedAt and Fallback are left for the caller to fill in.
func BuildSnapshot(spec MetricSpec, data analytics.TimeSeriesData, params Params) (*Snapshot, error) {
	if data.Len() == 0 {
		return nil, NewServiceErrorWithDetails(CodeEmptySeries, "no data points for metric "+spec.Name,
			map[string]interface{}{"metric": spec.Name})
	}

	sorted := data.Sorted()
	current := sorted[len(sorted)-1].Value
	previous := previousValue(sorted, spec.Period)

	sparkline := series.GenerateSparklineData(sorted, params.SparklinePoints)
	display := series.SparklineValues(sparkline)

	return &Snapshot{
		Metric:        spec.Name,
		Period:        spec.Period,
		Current:       current,
		Previous:      previous,
		Delta:         delta.CalculateDelta(current, previous, delta.Options{Period: spec.Period, Format: spec.Format}),
		Sparkline:     sparkline,
		Direction:     series.CalculateTrendDirection(display),
		MovingAverage: series.CalculateMovingAverage(display, params.MovingAverageWindow),
		Anomalies:     anomaly.DetectAnomalies(display, params.AnomalyThreshold),
		Confidence:    series.CalculateConfidenceInterval(sorted.Values(), params.Confidence),
		Smoothed:      series.ExponentialSmoothing(display, params.SmoothingAlpha),
		Points:        sorted.Len(),
	}, nil
}

// previousValue returns the latest value observed at least one period before the newest
// point. When the series does not reach back a full period the earliest value is used.
// sorted must be non-empty and ascending by time.
func previousValue(sorted analytics.TimeSeriesData, period delta.Period) float64 {
	cutoff := sorted[len(sorted)-1].Time.Add(-period.Duration())

	prev := sorted[0].Value
	for _, p := range sorted {
		if p.Time.After(cutoff) {
			break
		}
		prev = p.Value
	}
	return prev
}
