package logbook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilot_logbook/internal/models"
)

func testAirports() map[uint]models.Airport {
	return map[uint]models.Airport{
		12: {ID: 12, ICAO: "YSSY", IATA: "SYD", Name: "Sydney Kingsford Smith", Latitude: -33.9461, Longitude: 151.1772},
		15: {ID: 15, ICAO: "YMML", IATA: "MEL", Name: "Melbourne", Latitude: -37.6733, Longitude: 144.8433},
		20: {ID: 20, Name: "Nameonly Field"},
		21: {ID: 21, IATA: "XYZ"},
	}
}

func TestEnrichExampleRoute(t *testing.T) {
	var entry models.FlightLogEntry
	require.NoError(t, json.Unmarshal([]byte(`{
		"aircraft_model": "172",
		"aircraft_manufacturer": "Cessna",
		"aircraft_class": "S",
		"command_day": "1.5",
		"route_data": [
			{"type": "departure", "airport_id": 12, "is_custom": false},
			{"type": "stop", "is_custom": true, "custom_name": "Private Strip"},
			{"type": "arrival", "airport_id": 15, "is_custom": false}
		]
	}`), &entry))

	got := Enrich(entry, testAirports())
	assert.Equal(t, "YSSY-Private Strip-YMML", got.FormattedRoute)
	assert.Equal(t, "172, CESSNA", got.AircraftName)
	assert.Equal(t, 1.5, got.SingleEngine.CommandDay)
	assert.Equal(t, EngineTime{}, got.MultiEngine)
	assert.Equal(t, 0.0, got.RouteDistanceNM, "custom stop has no coordinates")
}

func TestEnrichMultiEngineBucketing(t *testing.T) {
	entry := models.FlightLogEntry{
		AircraftDetails: models.AircraftDetails{Model: "Baron", Class: models.ClassMultiEngine},
		HourBuckets: models.HourBuckets{
			ICUSDay:    0.5,
			DualNight:  1.0,
			CommandDay: 2.0,
			CoPilotDay: 3.0,
		},
	}

	got := Enrich(entry, nil)
	assert.Equal(t, EngineTime{ICUSDay: 0.5, DualNight: 1.0, CommandDay: 2.0}, got.MultiEngine)
	assert.Equal(t, EngineTime{}, got.SingleEngine)
	assert.Equal(t, 6.5, got.TotalHours)
	assert.Equal(t, 5.5, got.DayHours)
	assert.Equal(t, 1.0, got.NightHours)
	assert.Equal(t, "Baron", got.AircraftName)
}

func TestEnrichUnknownClassIsSingleEngine(t *testing.T) {
	entry := models.FlightLogEntry{HourBuckets: models.HourBuckets{DualDay: 1.2}}
	got := Enrich(entry, nil)
	assert.Equal(t, 1.2, got.SingleEngine.DualDay)
	assert.Equal(t, EngineTime{}, got.MultiEngine)
}

func TestEnrichStringAndNumberHoursAgree(t *testing.T) {
	var fromString, fromNumber models.FlightLogEntry
	require.NoError(t, json.Unmarshal([]byte(`{"command_day": "1.5", "dual_day": "bogus"}`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"command_day": 1.5, "dual_day": null}`), &fromNumber))

	a := Enrich(fromString, nil)
	b := Enrich(fromNumber, nil)
	assert.Equal(t, a.SingleEngine, b.SingleEngine)
	assert.Equal(t, 1.5, a.TotalHours)
}

func TestFormatRouteFallbacks(t *testing.T) {
	airports := testAirports()

	route := models.NewRoute(models.AirportWaypoint(20), models.AirportWaypoint(21), models.AirportWaypoint(99))
	assert.Equal(t, "Nameonly Field-XYZ", FormatRoute(route, airports))

	assert.Equal(t, "", FormatRoute(models.Route{}, airports))
}

func TestEnrichIsIdempotent(t *testing.T) {
	entry := models.FlightLogEntry{
		ID:              7,
		Registration:    "VH-TAE",
		AircraftDetails: models.AircraftDetails{Model: "172", Manufacturer: "Cessna"},
		HourBuckets:     models.HourBuckets{CommandDay: 1.3},
	}
	entry.SetRoute(models.NewRoute(models.AirportWaypoint(12), models.AirportWaypoint(15)))

	first, err := json.Marshal(EnrichAll([]models.FlightLogEntry{entry}, testAirports()))
	require.NoError(t, err)
	second, err := json.Marshal(EnrichAll([]models.FlightLogEntry{entry}, testAirports()))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	enriched := EnrichAll([]models.FlightLogEntry{entry}, testAirports())
	require.Len(t, enriched, 1)
	assert.Equal(t, "YSSY-YMML", enriched[0].FormattedRoute)
	assert.InDelta(t, 380.9, enriched[0].RouteDistanceNM, 0.1)
}
