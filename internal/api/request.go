package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"abtest/domain/abtest"
)

// Count is an integer that also accepts JSON floats, truncated toward zero,
// and strings holding an integer. null and missing values decode as 0.
type Count int

// UnmarshalJSON implements json.Unmarshaler
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid literal for a count: %q", s)
		}
		return c.set(float64(i), s)
	}

	raw := string(data)
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return c.set(float64(i), raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid literal for a count: %q", raw)
	}
	return c.set(math.Trunc(f), raw)
}

func (c *Count) set(v float64, raw string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
		return fmt.Errorf("count out of range: %s", raw)
	}
	*c = Count(int(v))
	return nil
}

// CalculateRequest is the body of POST /api/calculate
type CalculateRequest struct {
	ControlSize          Count `json:"control_size"`
	ControlConversions   Count `json:"control_conversions"`
	VariationSize        Count `json:"variation_size"`
	VariationConversions Count `json:"variation_conversions"`
}

// Input converts the request into engine input
func (r CalculateRequest) Input() abtest.Input {
	return abtest.Input{
		ControlSize:          int(r.ControlSize),
		ControlConversions:   int(r.ControlConversions),
		VariationSize:        int(r.VariationSize),
		VariationConversions: int(r.VariationConversions),
	}
}

// SampleSizeRequest is the body of POST /api/sample-size
type SampleSizeRequest struct {
	BaselineRate            float64 `json:"baseline_rate"`
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}
