package kpi

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/pravado/citemind/internal/analytics"
	"github.com/pravado/citemind/internal/analytics/series"
	"github.com/pravado/citemind/internal/config"
	"github.com/pravado/citemind/internal/utils"
)

// Source supplies the raw series of a metric
type Source interface {
	Series(ctx context.Context, metric string) (analytics.TimeSeriesData, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, metric string) (analytics.TimeSeriesData, error)

// Series calls f
func (f SourceFunc) Series(ctx context.Context, metric string) (analytics.TimeSeriesData, error) {
	return f(ctx, metric)
}

// NewSource creates a Source based on configuration. Default is MockSource.
func NewSource(cfg config.SourceConfig, specs []MetricSpec) (Source, error) {
	sourceType := utils.SourceType(strings.ToLower(cfg.Type))
	if sourceType == "" {
		sourceType = utils.SourceTypeMock
	}

	switch sourceType {
	case utils.SourceTypeMock:
		return NewMockSource(specs), nil
	case utils.SourceTypeCSV:
		return NewCSVSource(cfg.Dir)
	default:
		return nil, fmt.Errorf("unsupported source type: %s (supported: mock, csv)", sourceType)
	}
}

// MockSource serves synthetic hourly series. Each metric gets its own deterministic
// noise sequence so consecutive refreshes within the same hour agree.
type MockSource struct {
	specs map[string]MetricSpec
	now   func() time.Time
}

// NewMockSource creates a MockSource for the given metrics
func NewMockSource(specs []MetricSpec) *MockSource {
	m := &MockSource{
		specs: make(map[string]MetricSpec, len(specs)),
		now:   time.Now,
	}
	for _, spec := range specs {
		m.specs[spec.Name] = spec
	}
	return m
}

// Series generates a series spanning two periods of the metric
func (m *MockSource) Series(ctx context.Context, metric string) (analytics.TimeSeriesData, error) {
	spec, ok := m.specs[metric]
	if !ok {
		return nil, NewServiceErrorWithDetails(CodeUnknownMetric, "unknown metric: "+metric,
			map[string]interface{}{"metric": metric})
	}

	end := m.now().UTC().Truncate(time.Hour)
	seed := mockSeed(metric, end)
	rng := rand.New(rand.NewSource(seed))

	opts := series.DefaultMockOptions(spec.BaseValue)
	if span := int(2 * spec.Period.Duration() / time.Hour); span > opts.Points {
		opts.Points = span
	}
	opts.Trend = rng.Float64()*0.4 - 0.2
	opts.End = end
	opts.Rand = rng

	return series.GenerateMockSparklineData(opts), nil
}

func mockSeed(metric string, end time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(metric))
	return int64(h.Sum64()) ^ end.Unix()
}
