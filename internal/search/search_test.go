package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pilot_logbook/internal/models"
)

func airportCodes(as []models.Airport) []string {
	var out []string
	for _, a := range as {
		out = append(out, a.ICAO)
	}
	return out
}

func TestRankAirports(t *testing.T) {
	candidates := []models.Airport{
		{ID: 1, ICAO: "YSSX", IATA: "", Name: "Sydney Other Field"},
		{ID: 2, ICAO: "KSYD", IATA: "", Name: "Syd Town"},
		{ID: 3, ICAO: "YSSY", IATA: "SYD", Name: "Sydney Kingsford Smith"},
		{ID: 4, ICAO: "SYDA", IATA: "", Name: "Alpha"},
		{ID: 5, ICAO: "ABCD", IATA: "SYZ", Name: "Zed"},
	}

	ranked := RankAirports("syd", candidates, AirportLimit)
	// Exact IATA, ICAO prefix, name substrings by length, then the rest.
	assert.Equal(t, []string{"YSSY", "SYDA", "KSYD", "YSSX", "ABCD"}, airportCodes(ranked))

	exact := RankAirports("YSSY", candidates, 1)
	assert.Equal(t, []string{"YSSY"}, airportCodes(exact))
}

func TestAirportPriority(t *testing.T) {
	a := models.Airport{ICAO: "YMML", IATA: "MEL", Name: "Melbourne"}
	assert.Equal(t, 1, AirportPriority(a, "ymml"))
	assert.Equal(t, 2, AirportPriority(a, "MEL"))
	assert.Equal(t, 3, AirportPriority(a, "YM"))
	assert.Equal(t, 4, AirportPriority(a, "me"))
	assert.Equal(t, 5, AirportPriority(a, "bourne"))
	assert.Equal(t, 6, AirportPriority(a, "zzz"))
	assert.Equal(t, 6, AirportPriority(a, "  "))
}

func TestRankAirportsTieBreak(t *testing.T) {
	candidates := []models.Airport{
		{ID: 1, ICAO: "AAAA", Name: "Bravo Field"},
		{ID: 2, ICAO: "AAAB", Name: "Alpha Field"},
		{ID: 3, ICAO: "AAAC", Name: "Long Alpha Field"},
	}
	ranked := RankAirports("field", candidates, 0)
	assert.Equal(t, []string{"AAAB", "AAAA", "AAAC"}, airportCodes(ranked))
}

func models172() []models.AircraftType {
	return []models.AircraftType{
		{ID: 1, Designator: "C72R", Manufacturer: "Cessna", Model: "172RG Cutlass"},
		{ID: 2, Designator: "C172", Manufacturer: "Cessna", Model: "172 Skyhawk"},
		{ID: 3, Designator: "C172", Manufacturer: "Cessna", Model: "172"},
		{ID: 4, Designator: "P28A", Manufacturer: "Piper", Model: "PA-28 Cherokee"},
		{ID: 5, Designator: "C182", Manufacturer: "Cessna", Model: "Skylane"},
	}
}

func modelNames(ts []models.AircraftType) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.Model)
	}
	return out
}

func TestRankAircraftTypes(t *testing.T) {
	ranked := RankAircraftTypes("172", models172(), AircraftTypeLimit)
	// Whole-word model matches first, shorter model wins; then partial model matches.
	assert.Equal(t, []string{"172", "172 Skyhawk", "172RG Cutlass"}, modelNames(ranked))
}

func TestRankAircraftTypesMultiTerm(t *testing.T) {
	ranked := RankAircraftTypes("cessna sky", models172(), AircraftTypeLimit)
	assert.Equal(t, []string{"Skylane", "172 Skyhawk"}, modelNames(ranked))
}

func TestAircraftTypePriority(t *testing.T) {
	typ := models.AircraftType{Designator: "P28A", Manufacturer: "Piper", Model: "PA-28 Cherokee"}
	assert.Equal(t, 1, AircraftTypePriority(typ, Terms("Cherokee")))
	assert.Equal(t, 2, AircraftTypePriority(typ, Terms("chero")))
	assert.Equal(t, 3, AircraftTypePriority(typ, Terms("p28a")))
	assert.Equal(t, 4, AircraftTypePriority(typ, Terms("p2")))
	assert.Equal(t, 5, AircraftTypePriority(typ, Terms("pip")))
	assert.Equal(t, 6, AircraftTypePriority(typ, Terms("piper 28")))
	assert.Equal(t, 6, AircraftTypePriority(typ, nil))

	assert.True(t, MatchesAircraftType(typ, Terms("piper 28")))
	assert.False(t, MatchesAircraftType(typ, Terms("piper boeing")))
	assert.False(t, MatchesAircraftType(typ, nil))
}

func TestRankAircraftTypesLimit(t *testing.T) {
	ranked := RankAircraftTypes("cessna", models172(), 2)
	assert.Len(t, ranked, 2)
	assert.Empty(t, RankAircraftTypes("   ", models172(), 2))
}
