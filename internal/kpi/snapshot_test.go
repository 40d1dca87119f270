package kpi

import (
	"errors"
	"testing"
	"time"

	"github.com/pravado/citemind/internal/analytics"
	"github.com/pravado/citemind/internal/analytics/delta"
	"github.com/pravado/citemind/internal/analytics/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func hourlySeries(values ...float64) analytics.TimeSeriesData {
	data := make(analytics.TimeSeriesData, len(values))
	for i, v := range values {
		data[i] = analytics.TimeSeriesPoint{Time: baseTime.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return data
}

func TestPreviousValue(t *testing.T) {
	t.Run("full period available", func(t *testing.T) {
		data := hourlySeries(10, 20, 30, 40)
		assert.Equal(t, 30.0, previousValue(data, delta.PeriodHourly))
	})

	t.Run("latest point at or before cutoff", func(t *testing.T) {
		data := analytics.TimeSeriesData{
			{Time: baseTime, Value: 1},
			{Time: baseTime.Add(20 * time.Hour), Value: 2},
			{Time: baseTime.Add(30 * time.Hour), Value: 3},
			{Time: baseTime.Add(48 * time.Hour), Value: 4},
		}
		assert.Equal(t, 2.0, previousValue(data, delta.PeriodDaily))
	})

	t.Run("series shorter than period", func(t *testing.T) {
		data := hourlySeries(5, 6, 7)
		assert.Equal(t, 5.0, previousValue(data, delta.PeriodWeekly))
	})

	t.Run("single point compares against itself", func(t *testing.T) {
		data := hourlySeries(42)
		assert.Equal(t, 42.0, previousValue(data, delta.PeriodDaily))
	})
}

func TestBuildSnapshot(t *testing.T) {
	spec := MetricSpec{Name: "citations", Period: delta.PeriodHourly, Format: delta.FormatPercentage}
	data := hourlySeries(50, 52, 51, 55, 60)

	snap, err := BuildSnapshot(spec, data, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, "citations", snap.Metric)
	assert.Equal(t, delta.PeriodHourly, snap.Period)
	assert.Equal(t, 60.0, snap.Current)
	assert.Equal(t, 55.0, snap.Previous)
	assert.InDelta(t, 5.0, snap.Delta.RawChange, 1e-9)
	assert.Equal(t, "+9.1%", snap.Delta.Value)
	assert.Equal(t, 5, snap.Points)
	assert.Len(t, snap.Sparkline, 5)
	assert.Len(t, snap.MovingAverage, 3)
	assert.Len(t, snap.Smoothed, 5)
	assert.Equal(t, series.DirectionUp, snap.Direction)
	assert.InDelta(t, 53.6, snap.Confidence.Mean, 1e-9)
	assert.Empty(t, snap.RefreshID)
}

func TestBuildSnapshot_UnsortedInputNotMutated(t *testing.T) {
	spec := MetricSpec{Name: "mentions", Period: delta.PeriodHourly, Format: delta.FormatSmart}
	data := hourlySeries(1, 2, 3, 4)
	data[0], data[3] = data[3], data[0]
	original := append(analytics.TimeSeriesData(nil), data...)

	snap, err := BuildSnapshot(spec, data, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, original, data)
	assert.Equal(t, 4.0, snap.Current, "current is the newest point, not the last element")
	assert.Equal(t, 3.0, snap.Previous)
	assert.True(t, snap.Sparkline[0].Time.Before(snap.Sparkline[3].Time))
}

func TestBuildSnapshot_SparklineCap(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	spec := MetricSpec{Name: "sov", Period: delta.PeriodDaily, Format: delta.FormatSmart}

	params := DefaultParams()
	snap, err := BuildSnapshot(spec, hourlySeries(values...), params)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(snap.Sparkline), params.SparklinePoints)
	assert.Equal(t, 99.0, snap.Sparkline[len(snap.Sparkline)-1].Value)
	assert.Equal(t, 100, snap.Points)
	assert.Equal(t, 75.0, snap.Previous)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	_, err := BuildSnapshot(MetricSpec{Name: "citations"}, nil, DefaultParams())
	require.Error(t, err)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, CodeEmptySeries, svcErr.Code)
	assert.Equal(t, "citations", svcErr.Details["metric"])
}
