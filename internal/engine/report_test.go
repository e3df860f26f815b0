package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	t.Run("full_payload", func(t *testing.T) {
		report, err := ParseReport([]byte(`{
			"call_sign": "DUSKY18",
			"position": {"latitude": 30.1, "longitude": -96.5, "altitude": 120},
			"time_measured": "2025-06-01T12:00:00Z",
			"battery_pct": 87,
			"firmware": "v2.3"
		}`))
		require.NoError(t, err)

		assert.Equal(t, "DUSKY18", report.CallSign)
		require.True(t, report.HasCoordinates())
		assert.Equal(t, 30.1, *report.Position.Latitude)
		assert.Equal(t, -96.5, *report.Position.Longitude)
		assert.Equal(t, 120.0, *report.Position.Altitude)
		assert.JSONEq(t, `"2025-06-01T12:00:00Z"`, string(report.TimeMeasured))

		// Unrecognized fields pass through.
		assert.Contains(t, report.Extra, "battery_pct")
		assert.Contains(t, report.Extra, "firmware")
		assert.NotContains(t, report.Extra, "call_sign")
		assert.NotContains(t, report.Extra, "position")
	})

	t.Run("empty_body", func(t *testing.T) {
		_, err := ParseReport(nil)
		assert.Error(t, err)
	})

	t.Run("invalid_json", func(t *testing.T) {
		_, err := ParseReport([]byte(`{"call_sign": `))
		assert.Error(t, err)
	})

	t.Run("empty_object", func(t *testing.T) {
		_, err := ParseReport([]byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("json_array", func(t *testing.T) {
		_, err := ParseReport([]byte(`[1, 2, 3]`))
		assert.Error(t, err)
	})

	t.Run("non_string_call_sign_tolerated", func(t *testing.T) {
		report, err := ParseReport([]byte(`{"call_sign": 42, "x": 1}`))
		require.NoError(t, err)
		assert.Empty(t, report.CallSign)
	})

	t.Run("malformed_position_tolerated", func(t *testing.T) {
		report, err := ParseReport([]byte(`{"call_sign": "DUSKY18", "position": "nowhere"}`))
		require.NoError(t, err)
		assert.False(t, report.HasCoordinates())
	})

	t.Run("caller_cannot_preset_engine_fields", func(t *testing.T) {
		report, err := ParseReport([]byte(`{"call_sign": "DUSKY18", "deviation_feet": 9000, "cumulative_dev_sum": 1}`))
		require.NoError(t, err)
		assert.Nil(t, report.DeviationFeet)
		assert.Nil(t, report.CumulativeDevSum)
		assert.NotContains(t, report.Extra, "deviation_feet")
	})
}

func TestHasCoordinates(t *testing.T) {
	lat, lon := 30.1, -96.5

	assert.False(t, (&PositionReport{}).HasCoordinates())
	assert.False(t, (&PositionReport{Position: &Position{Latitude: &lat}}).HasCoordinates())
	assert.False(t, (&PositionReport{Position: &Position{Longitude: &lon}}).HasCoordinates())
	assert.True(t, (&PositionReport{Position: &Position{Latitude: &lat, Longitude: &lon}}).HasCoordinates())
}

func TestPositionReportMarshalJSON(t *testing.T) {
	lat, lon := 30.1, -96.5
	deviation, cumulative := 30.0, 5.0
	report := &PositionReport{
		ID:               "abc-123",
		CallSign:         "DUSKY18",
		Position:         &Position{Latitude: &lat, Longitude: &lon},
		TimeMeasured:     json.RawMessage(`1717243200`),
		DeviationFeet:    &deviation,
		CumulativeDevSum: &cumulative,
		Extra:            map[string]json.RawMessage{"battery_pct": json.RawMessage(`87`)},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "DUSKY18", out["call_sign"])
	assert.Equal(t, 30.0, out["deviation_feet"])
	assert.Equal(t, 5.0, out["cumulative_dev_sum"])
	assert.Equal(t, float64(1717243200), out["time_measured"])
	assert.Equal(t, float64(87), out["battery_pct"])
	assert.Equal(t, "abc-123", out["id"])
}

func TestPositionReportMarshalOmitsAbsentFields(t *testing.T) {
	report := &PositionReport{ID: "abc", CallSign: "DUSKY99"}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.NotContains(t, out, "deviation_feet")
	assert.NotContains(t, out, "cumulative_dev_sum")
	assert.NotContains(t, out, "position")
	assert.NotContains(t, out, "time_measured")
}
