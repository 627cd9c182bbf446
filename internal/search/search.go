// Package search ranks airport and aircraft type candidates for type-ahead lookups.
package search

import (
	"sort"
	"strings"
	"unicode"

	"pilot_logbook/internal/models"
)

const (
	AirportLimit      = 10
	AircraftTypeLimit = 20
)

// Terms splits a query into lowercase words.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Normalize lowercases and trims a single-token query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// AirportPriority ranks a against query: exact ICAO (1), exact IATA (2),
// ICAO prefix (3), IATA prefix (4), name substring (5), anything else (6).
func AirportPriority(a models.Airport, query string) int {
	q := Normalize(query)
	icao := strings.ToLower(a.ICAO)
	iata := strings.ToLower(a.IATA)
	switch {
	case q == "":
		return 6
	case icao == q:
		return 1
	case iata == q:
		return 2
	case strings.HasPrefix(icao, q):
		return 3
	case iata != "" && strings.HasPrefix(iata, q):
		return 4
	case strings.Contains(strings.ToLower(a.Name), q):
		return 5
	}
	return 6
}

// RankAirports orders candidates by priority, then shorter name, then name,
// and keeps at most limit of them.
func RankAirports(query string, candidates []models.Airport, limit int) []models.Airport {
	type scored struct {
		a    models.Airport
		prio int
	}
	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, scored{c, AirportPriority(c, query)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.prio != b.prio {
			return a.prio < b.prio
		}
		if len(a.a.Name) != len(b.a.Name) {
			return len(a.a.Name) < len(b.a.Name)
		}
		return a.a.Name < b.a.Name
	})
	out := make([]models.Airport, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.a)
	}
	return truncate(out, limit)
}

// MatchesAircraftType reports whether every term occurs in the designator
// (ignoring '-' and '.'), the manufacturer or the model.
func MatchesAircraftType(t models.AircraftType, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	designator := strippedDesignator(t.Designator)
	manufacturer := strings.ToLower(t.Manufacturer)
	model := strings.ToLower(t.Model)
	for _, term := range terms {
		if !strings.Contains(designator, term) && !strings.Contains(manufacturer, term) && !strings.Contains(model, term) {
			return false
		}
	}
	return true
}

// AircraftTypePriority ranks t against terms:
//  1. every term is a whole word of the model
//  2. every term occurs in the model
//  3. the designator equals the first term
//  4. the designator starts with the first term
//  5. every term occurs in the manufacturer
//  6. anything else
func AircraftTypePriority(t models.AircraftType, terms []string) int {
	if len(terms) == 0 {
		return 6
	}
	model := strings.ToLower(t.Model)
	words := wordSet(model)
	designator := strippedDesignator(t.Designator)
	manufacturer := strings.ToLower(t.Manufacturer)

	switch {
	case all(terms, func(term string) bool { return words[term] }):
		return 1
	case all(terms, func(term string) bool { return strings.Contains(model, term) }):
		return 2
	case designator == terms[0]:
		return 3
	case strings.HasPrefix(designator, terms[0]):
		return 4
	case all(terms, func(term string) bool { return strings.Contains(manufacturer, term) }):
		return 5
	}
	return 6
}

// RankAircraftTypes keeps the candidates matching every term of query,
// ordered by priority, then shorter model, then model, at most limit of them.
func RankAircraftTypes(query string, candidates []models.AircraftType, limit int) []models.AircraftType {
	terms := Terms(query)
	type scored struct {
		t    models.AircraftType
		prio int
	}
	var matches []scored
	for _, c := range candidates {
		if MatchesAircraftType(c, terms) {
			matches = append(matches, scored{c, AircraftTypePriority(c, terms)})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.prio != b.prio {
			return a.prio < b.prio
		}
		if len(a.t.Model) != len(b.t.Model) {
			return len(a.t.Model) < len(b.t.Model)
		}
		return a.t.Model < b.t.Model
	})
	out := make([]models.AircraftType, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.t)
	}
	return truncate(out, limit)
}

func strippedDesignator(d string) string {
	return strings.ToLower(strings.NewReplacer("-", "", ".", "").Replace(d))
}

func wordSet(s string) map[string]bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func all(terms []string, ok func(string) bool) bool {
	for _, t := range terms {
		if !ok(t) {
			return false
		}
	}
	return true
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
