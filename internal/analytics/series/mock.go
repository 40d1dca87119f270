package series

import (
	"math"
	"math/rand"
	"time"

	"github.com/pravado/citemind/internal/analytics"
)

// MockOptions configures GenerateMockSparklineData
type MockOptions struct {
	BaseValue  float64
	Points     int        // number of hourly points (default 24)
	Volatility float64    // max noise as a fraction of BaseValue
	Trend      float64    // total linear drift over the series as a fraction of BaseValue
	End        time.Time  // timestamp of the newest point (default: current hour)
	Rand       *rand.Rand // noise source (default: time-seeded)
}

// DefaultMockOptions returns mock options around baseValue
func DefaultMockOptions(baseValue float64) MockOptions {
	return MockOptions{
		BaseValue:  baseValue,
		Points:     24,
		Volatility: 0.1,
	}
}

// GenerateMockSparklineData produces an hourly series with a linear trend term plus
// bounded uniform noise. Values never drop below zero. It backs development fallbacks
// where no real series is available.
func GenerateMockSparklineData(opts MockOptions) analytics.TimeSeriesData {
	points := opts.Points
	if points <= 0 {
		points = 24
	}
	volatility := math.Max(opts.Volatility, 0)
	end := opts.End
	if end.IsZero() {
		end = time.Now().UTC().Truncate(time.Hour)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	data := make(analytics.TimeSeriesData, points)
	for i := 0; i < points; i++ {
		trendValue := opts.BaseValue * (1 + opts.Trend*float64(i)/float64(points))
		noise := (rng.Float64()*2 - 1) * volatility * opts.BaseValue
		data[i] = analytics.TimeSeriesPoint{
			Time:  end.Add(-time.Duration(points-1-i) * time.Hour),
			Value: math.Max(0, trendValue+noise),
		}
	}
	return data
}
