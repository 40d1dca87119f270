package series

import "math"

// Direction is the endpoint trend of a series
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// stableDirectionLimit is the |percent change| below which a series counts as flat
const stableDirectionLimit = 2.0

// CalculateTrendDirection compares the first and last value only; interior volatility is
// ignored. A zero first value has no relative change, so the sign of the last value decides.
func CalculateTrendDirection(values []float64) Direction {
	if len(values) < 2 {
		return DirectionStable
	}

	first := values[0]
	last := values[len(values)-1]
	change := last - first

	if first == 0 {
		switch {
		case change > 0:
			return DirectionUp
		case change < 0:
			return DirectionDown
		default:
			return DirectionStable
		}
	}

	percent := change / math.Abs(first) * 100
	if math.Abs(percent) < stableDirectionLimit {
		return DirectionStable
	}
	if change > 0 {
		return DirectionUp
	}
	return DirectionDown
}
