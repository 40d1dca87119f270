// Package analytics provides common types and utilities for KPI time-series analytics
// including delta calculation, sparkline sampling and anomaly detection.
package analytics

import (
	"sort"
	"time"
)

// TimeSeriesPoint represents a single observation of a metric.
// This is the common type used across all analytics packages (delta, series, anomaly).
type TimeSeriesPoint struct {
	Time     time.Time              `json:"timestamp"`
	Value    float64                `json:"value"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// TimeSeriesData represents a collection of time-series data points.
// Callers do not have to keep it sorted.
type TimeSeriesData []TimeSeriesPoint

// Values extracts just the values from the time series
func (ts TimeSeriesData) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Len returns the number of data points
func (ts TimeSeriesData) Len() int {
	return len(ts)
}

// Sorted returns a chronologically ordered copy. The receiver is left untouched.
func (ts TimeSeriesData) Sorted() TimeSeriesData {
	sorted := make(TimeSeriesData, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}
