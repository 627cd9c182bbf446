package logbook

import (
	"strings"

	"pilot_logbook/internal/geo"
	"pilot_logbook/internal/models"
)

// EngineTime is the pilot time of one engine class.
type EngineTime struct {
	ICUSDay      float64 `json:"icus_day"`
	ICUSNight    float64 `json:"icus_night"`
	DualDay      float64 `json:"dual_day"`
	DualNight    float64 `json:"dual_night"`
	CommandDay   float64 `json:"command_day"`
	CommandNight float64 `json:"command_night"`
}

// EnrichedEntry is a logbook entry with the derived display fields.
type EnrichedEntry struct {
	models.FlightLogEntry

	AircraftName    string     `json:"aircraft_name"`
	FormattedRoute  string     `json:"formatted_route"`
	SingleEngine    EngineTime `json:"single_engine"`
	MultiEngine     EngineTime `json:"multi_engine"`
	TotalHours      float64    `json:"total_hours"`
	DayHours        float64    `json:"day_hours"`
	NightHours      float64    `json:"night_hours"`
	InstrumentHours float64    `json:"instrument_hours"`
	RouteDistanceNM float64    `json:"route_distance_nm"`
}

// Enrich derives the display fields of entry. It is pure: the same entry and
// airport map always produce the same result.
func Enrich(entry models.FlightLogEntry, airports map[uint]models.Airport) EnrichedEntry {
	route := entry.RoutePlan()
	out := EnrichedEntry{
		FlightLogEntry:  entry,
		AircraftName:    AircraftName(entry.AircraftDetails),
		FormattedRoute:  FormatRoute(route, airports),
		TotalHours:      entry.HourBuckets.Total(),
		DayHours:        entry.HourBuckets.Day(),
		NightHours:      entry.HourBuckets.Night(),
		InstrumentHours: entry.HourBuckets.Instrument(),
		RouteDistanceNM: geo.RouteDistanceNM(route, airports),
	}

	bucket := &out.SingleEngine
	if entry.Class == models.ClassMultiEngine {
		bucket = &out.MultiEngine
	}
	*bucket = engineTime(entry.HourBuckets)
	return out
}

// EnrichAll enriches entries in order.
func EnrichAll(entries []models.FlightLogEntry, airports map[uint]models.Airport) []EnrichedEntry {
	out := make([]EnrichedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Enrich(e, airports))
	}
	return out
}

// AircraftName renders "model, MANUFACTURER", or the bare model when the
// manufacturer is unknown.
func AircraftName(d models.AircraftDetails) string {
	if d.Manufacturer == "" {
		return d.Model
	}
	return d.Model + ", " + strings.ToUpper(d.Manufacturer)
}

// FormatRoute joins the display token of every position with "-". A custom
// place shows its name; an airport shows its ICAO code, falling back to its
// name and then its IATA code. Unresolvable positions are left out.
func FormatRoute(route models.Route, airports map[uint]models.Airport) string {
	var tokens []string
	for _, w := range route.Waypoints() {
		if token := waypointToken(w, airports); token != "" {
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, "-")
}

func waypointToken(w models.Waypoint, airports map[uint]models.Airport) string {
	if w.IsCustom() {
		return w.CustomName
	}
	a, ok := airports[w.AirportID]
	if !ok {
		return ""
	}
	switch {
	case a.ICAO != "":
		return a.ICAO
	case a.Name != "":
		return a.Name
	default:
		return a.IATA
	}
}

func engineTime(b models.HourBuckets) EngineTime {
	return EngineTime{
		ICUSDay:      b.ICUSDay.Float(),
		ICUSNight:    b.ICUSNight.Float(),
		DualDay:      b.DualDay.Float(),
		DualNight:    b.DualNight.Float(),
		CommandDay:   b.CommandDay.Float(),
		CommandNight: b.CommandNight.Float(),
	}
}
