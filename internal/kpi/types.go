// Package kpi refreshes dashboard metrics: it pulls raw series, runs them through the
// delta and series engines, caches the resulting snapshots and publishes them.
package kpi

import (
	"fmt"
	"time"

	"github.com/pravado/citemind/internal/analytics/anomaly"
	"github.com/pravado/citemind/internal/analytics/delta"
	"github.com/pravado/citemind/internal/analytics/series"
	"github.com/pravado/citemind/internal/config"
)

// MetricSpec describes how one metric is compared and rendered
type MetricSpec struct {
	Name      string
	Period    delta.Period
	Format    delta.Format
	BaseValue float64 // center of the synthetic series used by MockSource
}

// MetricSpecFromConfig converts a configured metric into a MetricSpec
func MetricSpecFromConfig(cfg config.MetricConfig) (MetricSpec, error) {
	period, err := delta.ParsePeriod(cfg.Period)
	if err != nil {
		return MetricSpec{}, fmt.Errorf("metric %s: %w", cfg.Name, err)
	}
	format, err := delta.ParseFormat(cfg.Format)
	if err != nil {
		return MetricSpec{}, fmt.Errorf("metric %s: %w", cfg.Name, err)
	}
	return MetricSpec{
		Name:      cfg.Name,
		Period:    period,
		Format:    format,
		BaseValue: cfg.BaseValue,
	}, nil
}

// Params holds the engine parameters shared by every metric
type Params struct {
	SparklinePoints     int
	MovingAverageWindow int
	AnomalyThreshold    float64
	Confidence          float64
	SmoothingAlpha      float64
}

// DefaultParams returns the engine defaults
func DefaultParams() Params {
	return Params{
		SparklinePoints:     series.DefaultSparklinePoints,
		MovingAverageWindow: series.DefaultMovingAverageWindow,
		AnomalyThreshold:    anomaly.DefaultThreshold,
		Confidence:          series.DefaultConfidence,
		SmoothingAlpha:      series.DefaultSmoothingAlpha,
	}
}

// ParamsFromConfig extracts engine parameters from KPI configuration
func ParamsFromConfig(cfg config.KPIConfig) Params {
	return Params{
		SparklinePoints:     cfg.SparklinePoints,
		MovingAverageWindow: cfg.MovingAverageWindow,
		AnomalyThreshold:    cfg.AnomalyThreshold,
		Confidence:          cfg.Confidence,
		SmoothingAlpha:      cfg.SmoothingAlpha,
	}
}

// Snapshot is the computed state of one metric for one refresh cycle.
// MovingAverage, Smoothed, Anomalies and Direction are computed over the sparkline
// values so they line up with the rendered points.
type Snapshot struct {
	RefreshID     string                    `json:"refresh_id"`
	Metric        string                    `json:"metric"`
	Period        delta.Period              `json:"period"`
	Current       float64                   `json:"current"`
	Previous      float64                   `json:"previous"`
	Delta         delta.DeltaResult         `json:"delta"`
	Sparkline     []series.SparklinePoint   `json:"sparkline"`
	Direction     series.Direction          `json:"direction"`
	MovingAverage []float64                 `json:"moving_average"`
	Anomalies     anomaly.Report            `json:"anomalies"`
	Confidence    series.ConfidenceInterval `json:"confidence"`
	Smoothed      []float64                 `json:"smoothed"`
	Points        int                       `json:"points"`
	Fallback      bool                      `json:"fallback"`
	GeneratedAt   time.Time                 `json:"generated_at"`
}
