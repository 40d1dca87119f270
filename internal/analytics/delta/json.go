package delta

import (
	"encoding/json"
	"fmt"
	"math"
)

// Non-finite percentages are encoded as these strings
const (
	jsonPosInf = "+Inf"
	jsonNegInf = "-Inf"
	jsonNaN    = "NaN"
)

type deltaResultJSON struct {
	Value             string            `json:"value"`
	Percentage        json.RawMessage   `json:"percentage"`
	Positive          bool              `json:"positive"`
	Period            Period            `json:"period"`
	RawChange         float64           `json:"raw_change"`
	SignificanceLevel SignificanceLevel `json:"significance_level"`
	Trend             Trend             `json:"trend"`
}

// MarshalJSON encodes the result. A zero-baseline +Inf percentage is written as "+Inf".
func (r DeltaResult) MarshalJSON() ([]byte, error) {
	pct, err := encodePercentage(r.Percentage)
	if err != nil {
		return nil, err
	}
	return json.Marshal(deltaResultJSON{
		Value:             r.Value,
		Percentage:        pct,
		Positive:          r.Positive,
		Period:            r.Period,
		RawChange:         r.RawChange,
		SignificanceLevel: r.SignificanceLevel,
		Trend:             r.Trend,
	})
}

// UnmarshalJSON decodes a result written by MarshalJSON
func (r *DeltaResult) UnmarshalJSON(data []byte) error {
	var raw deltaResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pct, err := decodePercentage(raw.Percentage)
	if err != nil {
		return err
	}
	*r = DeltaResult{
		Value:             raw.Value,
		Percentage:        pct,
		Positive:          raw.Positive,
		Period:            raw.Period,
		RawChange:         raw.RawChange,
		SignificanceLevel: raw.SignificanceLevel,
		Trend:             raw.Trend,
	}
	return nil
}

func encodePercentage(p float64) (json.RawMessage, error) {
	switch {
	case math.IsInf(p, 1):
		return json.Marshal(jsonPosInf)
	case math.IsInf(p, -1):
		return json.Marshal(jsonNegInf)
	case math.IsNaN(p):
		return json.Marshal(jsonNaN)
	default:
		return json.Marshal(p)
	}
}

func decodePercentage(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var p float64
	if err := json.Unmarshal(raw, &p); err == nil {
		return p, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid percentage: %s", raw)
	}
	switch s {
	case jsonPosInf:
		return math.Inf(1), nil
	case jsonNegInf:
		return math.Inf(-1), nil
	case jsonNaN:
		return math.NaN(), nil
	default:
		return 0, fmt.Errorf("invalid percentage: %q", s)
	}
}
