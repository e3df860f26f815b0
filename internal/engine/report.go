package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position is the reported location. Pointer fields distinguish a
// missing coordinate from zero; latitude and longitude must both be
// present for deviation math to run.
type Position struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// PositionReport is one ingested drone report. It is created per
// intake call, enriched by the engine, appended to history, and never
// mutated afterwards.
//
// TimeMeasured is an opaque caller-supplied value stored as-is; the
// engine neither parses it nor checks ordering. Extra carries every
// unrecognized payload field so history stays forward-compatible with
// whatever the drones send.
type PositionReport struct {
	ID           string
	CallSign     string
	Position     *Position
	TimeMeasured json.RawMessage
	ReceivedAt   time.Time

	// Set by the engine for known call signs with full coordinates.
	DeviationFeet    *float64
	CumulativeDevSum *float64

	Extra map[string]json.RawMessage
}

// reservedFields are payload keys that are either recognized inputs or
// owned by the engine; they never pass through into Extra.
var reservedFields = map[string]bool{
	"call_sign":          true,
	"position":           true,
	"time_measured":      true,
	"id":                 true,
	"received_at":        true,
	"deviation_feet":     true,
	"cumulative_dev_sum": true,
}

// ParseReport validates and decodes one untrusted intake payload.
// An empty body, unparseable JSON, or an empty object is a client
// input error. Field values of unexpected types are tolerated and
// treated as absent, matching the silent-skip degraded path.
func ParseReport(data []byte) (*PositionReport, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("no JSON data received")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no JSON data received")
	}

	report := &PositionReport{Extra: make(map[string]json.RawMessage)}

	if raw, ok := fields["call_sign"]; ok {
		// Non-string call signs are ignored rather than rejected.
		_ = json.Unmarshal(raw, &report.CallSign)
	}
	if raw, ok := fields["position"]; ok {
		var pos Position
		if err := json.Unmarshal(raw, &pos); err == nil {
			report.Position = &pos
		}
	}
	if raw, ok := fields["time_measured"]; ok {
		report.TimeMeasured = raw
	}

	for key, raw := range fields {
		if reservedFields[key] {
			continue
		}
		report.Extra[key] = raw
	}

	return report, nil
}

// HasCoordinates reports whether both latitude and longitude were
// supplied.
func (r *PositionReport) HasCoordinates() bool {
	return r.Position != nil && r.Position.Latitude != nil && r.Position.Longitude != nil
}

// MarshalJSON flattens the report into the enriched payload shape:
// recognized fields plus every pass-through field at the top level.
func (r *PositionReport) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extra)+7)
	for key, raw := range r.Extra {
		out[key] = raw
	}
	out["id"] = r.ID
	out["call_sign"] = r.CallSign
	out["received_at"] = r.ReceivedAt
	if r.Position != nil {
		out["position"] = r.Position
	}
	if r.TimeMeasured != nil {
		out["time_measured"] = r.TimeMeasured
	}
	if r.DeviationFeet != nil {
		out["deviation_feet"] = *r.DeviationFeet
	}
	if r.CumulativeDevSum != nil {
		out["cumulative_dev_sum"] = *r.CumulativeDevSum
	}
	return json.Marshal(out)
}

// Ack is the intake acknowledgment. It echoes the call sign and the
// caller-supplied timestamp but deliberately not the computed deviation.
type Ack struct {
	Message      string          `json:"message"`
	CallSign     string          `json:"call_sign"`
	TimeMeasured json.RawMessage `json:"time_measured,omitempty"`
}
