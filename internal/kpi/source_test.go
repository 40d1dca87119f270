package kpi

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pravado/citemind/internal/analytics"
	"github.com/pravado/citemind/internal/analytics/delta"
	"github.com/pravado/citemind/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSource(t *testing.T) {
	specs := []MetricSpec{
		{Name: "citations", Period: delta.PeriodWeekly, BaseValue: 1250},
		{Name: "mentions", Period: delta.PeriodHourly, BaseValue: 86},
	}
	src := NewMockSource(specs)
	now := time.Date(2024, 3, 1, 10, 25, 0, 0, time.UTC)
	src.now = func() time.Time { return now }
	ctx := context.Background()

	weekly, err := src.Series(ctx, "citations")
	require.NoError(t, err)
	assert.Equal(t, 2*7*24, weekly.Len(), "series spans two periods")
	assert.Equal(t, now.Truncate(time.Hour), weekly[weekly.Len()-1].Time)

	hourly, err := src.Series(ctx, "mentions")
	require.NoError(t, err)
	assert.Equal(t, 24, hourly.Len())
	for _, p := range hourly {
		assert.GreaterOrEqual(t, p.Value, 0.0)
	}

	again, err := src.Series(ctx, "citations")
	require.NoError(t, err)
	assert.Equal(t, weekly, again, "same metric and hour must give the same series")

	_, err = src.Series(ctx, "unknown")
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, CodeUnknownMetric, svcErr.Code)
}

func writeCSV(t *testing.T, dir, metric, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, metric+".csv"), []byte(content), 0o644))
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "citations", `timestamp,value
2024-03-01T02:00:00Z,12,source=perplexity
# backfilled
2024-03-01T00:00:00Z,10
2024-03-01T01:00:00Z, 11.5
`)

	src, err := NewCSVSource(dir)
	require.NoError(t, err)

	data, err := src.Series(context.Background(), "citations")
	require.NoError(t, err)
	require.Equal(t, 3, data.Len())

	assert.Equal(t, 12.0, data[0].Value)
	assert.Equal(t, "perplexity", data[0].Metadata["source"])
	assert.Nil(t, data[1].Metadata)
	assert.Equal(t, 11.5, data[2].Value)
	assert.Equal(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), data[2].Time)
}

func TestCSVSource_Errors(t *testing.T) {
	dir := t.TempDir()
	src, err := NewCSVSource(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := src.Series(ctx, "absent")
		var svcErr *ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, CodeUnknownMetric, svcErr.Code)
	})

	t.Run("path traversal", func(t *testing.T) {
		for _, name := range []string{"../secrets", "a/b", "", ".hidden"} {
			_, err := src.Series(ctx, name)
			assert.Error(t, err, name)
		}
	})

	t.Run("bad rows", func(t *testing.T) {
		cases := map[string]string{
			"bad_time":   "yesterday,10\n",
			"bad_value":  "2024-03-01T00:00:00Z,ten\n",
			"short_row":  "2024-03-01T00:00:00Z\n",
			"non_finite": "2024-03-01T00:00:00Z,NaN\n",
		}
		for metric, content := range cases {
			writeCSV(t, dir, metric, content)
			_, err := src.Series(ctx, metric)
			assert.Error(t, err, metric)
		}
	})
}

func TestParseCSV_CancelledContext(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString("2024-03-01T00:00:00Z,1\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parseCSV(ctx, strings.NewReader(b.String()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCSVSource_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewCSVSource(file)
	assert.Error(t, err)

	_, err = NewCSVSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.SourceConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockSource{}, src)

	src, err = NewSource(config.SourceConfig{Type: "csv", Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	_, err = NewSource(config.SourceConfig{Type: "bigquery"}, nil)
	assert.Error(t, err)
}

func TestSourceFunc(t *testing.T) {
	var got string
	src := SourceFunc(func(ctx context.Context, metric string) (analytics.TimeSeriesData, error) {
		got = metric
		return hourlySeries(1, 2), nil
	})

	data, err := src.Series(context.Background(), "citations")
	require.NoError(t, err)
	assert.Equal(t, "citations", got)
	assert.Equal(t, 2, data.Len())
}
