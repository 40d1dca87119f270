package delta

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDelta_WeeklyIncrease(t *testing.T) {
	result := CalculateDelta(110, 100, Options{Period: PeriodWeekly})

	assert.InDelta(t, 10.0, result.RawChange, 1e-9)
	assert.InDelta(t, 10.0, result.Percentage, 1e-9)
	assert.True(t, result.Positive)
	assert.Equal(t, PeriodWeekly, result.Period)
	assert.Equal(t, SignificanceHigh, result.SignificanceLevel, "10% is not below the medium limit")
	assert.Equal(t, TrendImproving, result.Trend)
	// current >= 100 so smart format takes the absolute path
	assert.Equal(t, "+10", result.Value)
}

func TestCalculateDelta_Significance(t *testing.T) {
	tests := []struct {
		name         string
		current      float64
		previous     float64
		significance SignificanceLevel
		trend        Trend
	}{
		{"flat", 100, 100, SignificanceLow, TrendStable},
		{"half percent", 100.5, 100, SignificanceLow, TrendStable},
		{"one and a half percent", 101.5, 100, SignificanceLow, TrendImproving},
		{"five percent", 105, 100, SignificanceMedium, TrendImproving},
		{"nine percent drop", 91, 100, SignificanceMedium, TrendDeclining},
		{"ten percent drop", 90, 100, SignificanceHigh, TrendDeclining},
		{"doubling", 200, 100, SignificanceHigh, TrendImproving},
		{"negative baseline recovering", -50, -100, SignificanceHigh, TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateDelta(tt.current, tt.previous, DefaultOptions())
			assert.Equal(t, tt.significance, result.SignificanceLevel)
			assert.Equal(t, tt.trend, result.Trend)
		})
	}
}

func TestCalculateDelta_Formats(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		format   Format
		want     string
	}{
		{"percentage increase", 110, 100, FormatPercentage, "+10.0%"},
		{"percentage decrease", 95, 100, FormatPercentage, "-5.0%"},
		{"absolute increase", 110, 100, FormatAbsolute, "+10.0"},
		{"absolute decrease", 95.5, 100, FormatAbsolute, "-4.5"},
		{"smart small value", 50, 40, FormatSmart, "+25.0%"},
		{"smart small value decrease", 30, 40, FormatSmart, "-25.0%"},
		{"smart boundary uses absolute", 100, 80, FormatSmart, "+20"},
		{"smart just below boundary", 99, 90, FormatSmart, "+10.0%"},
		{"smart millions", 2600000, 1000000, FormatSmart, "+1.6M"},
		{"smart thousands decrease", 1000, 2500, FormatSmart, "-1.5K"},
		{"default format is smart", 50, 40, "", "+25.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateDelta(tt.current, tt.previous, Options{Format: tt.format})
			assert.Equal(t, tt.want, result.Value)
		})
	}
}

func TestCalculateDelta_ZeroBaseline(t *testing.T) {
	t.Run("growth from zero", func(t *testing.T) {
		result := CalculateDelta(5, 0, DefaultOptions())
		assert.True(t, math.IsInf(result.Percentage, 1))
		assert.True(t, result.Positive)
		assert.Equal(t, "+∞", result.Value)
		assert.Equal(t, SignificanceHigh, result.SignificanceLevel)
		assert.Equal(t, TrendImproving, result.Trend)
		assert.Equal(t, 5.0, result.RawChange)
	})

	t.Run("zero to zero", func(t *testing.T) {
		result := CalculateDelta(0, 0, DefaultOptions())
		assert.Equal(t, 0.0, result.Percentage)
		assert.True(t, result.Positive)
		assert.Equal(t, "0", result.Value)
		assert.Equal(t, SignificanceLow, result.SignificanceLevel)
		assert.Equal(t, TrendStable, result.Trend)
	})

	t.Run("negative from zero", func(t *testing.T) {
		result := CalculateDelta(-3, 0, DefaultOptions())
		assert.Equal(t, 0.0, result.Percentage)
		assert.False(t, result.Positive)
		assert.Equal(t, "0", result.Value)
		assert.Equal(t, TrendStable, result.Trend)
	})
}

func TestCalculateDelta_PositiveMatchesRawChange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		current := (rng.Float64() - 0.5) * 1e6
		previous := (rng.Float64() - 0.5) * 1e6
		if previous == 0 {
			continue
		}
		result := CalculateDelta(current, previous, DefaultOptions())
		require.Equal(t, current-previous >= 0, result.Positive, "current=%v previous=%v", current, previous)
		require.Equal(t, result.Positive, result.RawChange >= 0)
		require.Equal(t, math.Abs(result.Percentage) < 1, result.Trend == TrendStable)
	}
}

func TestCalculateDelta_ZeroBaselineProperties(t *testing.T) {
	for _, current := range []float64{0.001, 1, 99, 1e9} {
		result := CalculateDelta(current, 0, DefaultOptions())
		assert.Equal(t, SignificanceHigh, result.SignificanceLevel)
		assert.Equal(t, TrendImproving, result.Trend)
	}
	for _, current := range []float64{0, -0.001, -1e9} {
		result := CalculateDelta(current, 0, DefaultOptions())
		assert.Equal(t, TrendStable, result.Trend)
	}
}

func TestCalculatePercentageChange(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{5, 0, 100},
		{0, 0, 0},
		{-1, 0, 0},
		{150, 100, 50},
		{50, 100, -50},
		{50, -100, 150},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, CalculatePercentageChange(tt.current, tt.previous), 1e-9,
			"CalculatePercentageChange(%v, %v)", tt.current, tt.previous)
	}
}

func TestCalculatePercentageChange_AgreesWithDelta(t *testing.T) {
	pairs := [][2]float64{{110, 100}, {90, 100}, {-50, -100}, {3, 7}}
	for _, p := range pairs {
		assert.InDelta(t, CalculateDelta(p[0], p[1], DefaultOptions()).Percentage,
			CalculatePercentageChange(p[0], p[1]), 1e-9)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("Weekly")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodDaily, p)

	_, err = ParsePeriod("fortnightly")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("absolute")
	require.NoError(t, err)
	assert.Equal(t, FormatAbsolute, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSmart, f)

	_, err = ParseFormat("scientific")
	assert.Error(t, err)
}

func TestPeriodDuration(t *testing.T) {
	assert.Equal(t, time.Hour, PeriodHourly.Duration())
	assert.Equal(t, 24*time.Hour, PeriodDaily.Duration())
	assert.Equal(t, 7*24*time.Hour, PeriodWeekly.Duration())
	assert.Equal(t, 30*24*time.Hour, PeriodMonthly.Duration())
}
