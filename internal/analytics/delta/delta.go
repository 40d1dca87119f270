// Package delta turns a (current, previous) observation pair into a structured,
// display-ready comparison.
package delta

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Period is the reporting period a comparison covers
type Period string

const (
	PeriodHourly  Period = "hourly"
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Duration returns the nominal length of the period. Months are 30 days.
func (p Period) Duration() time.Duration {
	switch p {
	case PeriodHourly:
		return time.Hour
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	case PeriodMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ParsePeriod converts a string to a Period
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodHourly, PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p, nil
	case "":
		return PeriodDaily, nil
	default:
		return "", fmt.Errorf("unknown period: %s (supported: hourly, daily, weekly, monthly)", s)
	}
}

// Format selects how DeltaResult.Value is rendered
type Format string

const (
	FormatPercentage Format = "percentage"
	FormatAbsolute   Format = "absolute"
	FormatSmart      Format = "smart"
)

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPercentage, FormatAbsolute, FormatSmart:
		return f, nil
	case "":
		return FormatSmart, nil
	default:
		return "", fmt.Errorf("unknown format: %s (supported: percentage, absolute, smart)", s)
	}
}

// SignificanceLevel is a coarse three-bucket classification of a percentage change
type SignificanceLevel string

const (
	SignificanceLow    SignificanceLevel = "low"
	SignificanceMedium SignificanceLevel = "medium"
	SignificanceHigh   SignificanceLevel = "high"
)

// Trend is the qualitative direction of a comparison
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Fixed classification thresholds, in percent.
const (
	lowSignificanceLimit    = 2.0
	mediumSignificanceLimit = 10.0
	stableTrendLimit        = 1.0

	// smartPercentageLimit is the |current| below which smart format shows a percentage
	smartPercentageLimit = 100.0
)

// DeltaResult is the comparison between a current and a previous observation
type DeltaResult struct {
	Value             string            `json:"value"`
	Percentage        float64           `json:"percentage"`
	Positive          bool              `json:"positive"`
	Period            Period            `json:"period"`
	RawChange         float64           `json:"raw_change"`
	SignificanceLevel SignificanceLevel `json:"significance_level"`
	Trend             Trend             `json:"trend"`
}

// Options holds the optional parameters of CalculateDelta.
// Zero values select daily period and smart formatting.
type Options struct {
	Period Period
	Format Format
}

// DefaultOptions returns the default delta options
func DefaultOptions() Options {
	return Options{
		Period: PeriodDaily,
		Format: FormatSmart,
	}
}

// CalculateDelta compares current against previous.
//
// A zero previous value has no defined relative change: any growth from it is reported
// as +Inf and maximally significant, anything else as a neutral zero change.
func CalculateDelta(current, previous float64, opts Options) DeltaResult {
	if opts.Period == "" {
		opts.Period = PeriodDaily
	}
	if opts.Format == "" {
		opts.Format = FormatSmart
	}

	if previous == 0 {
		return zeroBaselineDelta(current, opts.Period)
	}

	rawChange := current - previous
	percentage := rawChange / math.Abs(previous) * 100
	positive := rawChange >= 0

	return DeltaResult{
		Value:             formatValue(current, rawChange, percentage, positive, opts.Format),
		Percentage:        percentage,
		Positive:          positive,
		Period:            opts.Period,
		RawChange:         rawChange,
		SignificanceLevel: classifySignificance(percentage),
		Trend:             classifyTrend(percentage, positive),
	}
}

func zeroBaselineDelta(current float64, period Period) DeltaResult {
	result := DeltaResult{
		Value:             "0",
		Percentage:        0,
		Positive:          current >= 0,
		Period:            period,
		RawChange:         current,
		SignificanceLevel: SignificanceLow,
		Trend:             TrendStable,
	}
	if current > 0 {
		result.Value = "+∞"
		result.Percentage = math.Inf(1)
		result.SignificanceLevel = SignificanceHigh
		result.Trend = TrendImproving
	}
	return result
}

func classifySignificance(percentage float64) SignificanceLevel {
	abs := math.Abs(percentage)
	switch {
	case abs < lowSignificanceLimit:
		return SignificanceLow
	case abs < mediumSignificanceLimit:
		return SignificanceMedium
	default:
		return SignificanceHigh
	}
}

func classifyTrend(percentage float64, positive bool) Trend {
	if math.Abs(percentage) < stableTrendLimit {
		return TrendStable
	}
	if positive {
		return TrendImproving
	}
	return TrendDeclining
}

func formatValue(current, rawChange, percentage float64, positive bool, format Format) string {
	sign := "-"
	if positive {
		sign = "+"
	}

	switch format {
	case FormatPercentage:
		return fmt.Sprintf("%s%.1f%%", sign, math.Abs(percentage))
	case FormatAbsolute:
		return fmt.Sprintf("%s%.1f", sign, math.Abs(rawChange))
	default:
		if math.Abs(current) < smartPercentageLimit {
			return fmt.Sprintf("%s%.1f%%", sign, math.Abs(percentage))
		}
		return sign + FormatNumber(math.Abs(rawChange))
	}
}

// CalculatePercentageChange returns only the relative change in percent.
// It shares the zero-baseline rule of CalculateDelta but reports growth from zero as 100.
func CalculatePercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}
