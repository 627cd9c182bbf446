package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pilot_logbook/internal/models"
)

// AirportRef identifies the most visited airport. It encodes as "" when empty.
type AirportRef struct {
	ICAO string `json:"icao"`
	Name string `json:"name"`
}

func (r AirportRef) IsZero() bool { return r.ICAO == "" && r.Name == "" }

func (r AirportRef) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte(`""`), nil
	}
	type plain AirportRef
	return json.Marshal(plain(r))
}

func (r *AirportRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		*r = AirportRef{}
		return nil
	}
	type plain AirportRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = AirportRef(p)
	return nil
}

// Summary is the dashboard view of a pilot's logbook. Every figure defaults
// to zero or empty.
type Summary struct {
	HoursThisMonth        float64    `json:"hours_this_month"`
	HoursThisYear         float64    `json:"hours_this_year"`
	LifetimeHours         float64    `json:"lifetime_hours"`
	LongestFlight         float64    `json:"longest_flight"`
	AverageFlightDuration float64    `json:"average_flight_duration"`
	NightFlightHours      float64    `json:"night_flight_hours"`
	PopularAirport        AirportRef `json:"popular_airport"`
	PopularPlane          string     `json:"popular_plane"`
}

// Tally is the part of a Summary computable from entries alone.
type Tally struct {
	Summary
	// AirportRanking lists visited airport ids, most visited first.
	AirportRanking []uint
	// TopPlanes holds up to three aircraft labels flown this month, most flown first.
	TopPlanes []string
}

const topPlaneLimit = 3

// Summarize aggregates entries relative to now. Monthly figures, the longest
// flight and the popular plane cover the calendar month of now; the rest
// cover the whole logbook.
func Summarize(entries []models.FlightLogEntry, now time.Time) Tally {
	var t Tally
	airportVisits := map[uint]int{}
	planeFlights := map[string]int{}

	for _, e := range entries {
		total := e.HourBuckets.Total()
		t.LifetimeHours += total
		t.NightFlightHours += e.HourBuckets.Night()

		if e.FlightDate.Year() == now.Year() {
			t.HoursThisYear += total
		}
		if e.FlightDate.SameMonth(now) {
			t.HoursThisMonth += total
			t.LongestFlight = math.Max(t.LongestFlight, total)
			if label := planeLabel(e.AircraftDetails); label != "" {
				planeFlights[label]++
			}
		}

		for _, id := range e.RoutePlan().AirportIDs() {
			airportVisits[id]++
		}
	}

	if len(entries) > 0 {
		t.AverageFlightDuration = t.LifetimeHours / float64(len(entries))
	}

	t.AirportRanking = rankAirports(airportVisits)
	t.TopPlanes = rankPlanes(planeFlights, topPlaneLimit)
	if len(t.TopPlanes) > 0 {
		t.PopularPlane = t.TopPlanes[0]
	}

	// Sums are rounded to drop float noise; the average keeps full precision.
	t.HoursThisMonth = round2(t.HoursThisMonth)
	t.HoursThisYear = round2(t.HoursThisYear)
	t.LifetimeHours = round2(t.LifetimeHours)
	t.LongestFlight = round2(t.LongestFlight)
	t.NightFlightHours = round2(t.NightFlightHours)
	return t
}

func planeLabel(d models.AircraftDetails) string {
	name := strings.TrimSpace(d.Manufacturer + " " + d.Model)
	if d.Designator == "" {
		return name
	}
	if name == "" {
		return d.Designator
	}
	return d.Designator + " - " + name
}

// Ties go to the lowest airport id.
func rankAirports(visits map[uint]int) []uint {
	ids := make([]uint, 0, len(visits))
	for id := range visits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if visits[ids[i]] != visits[ids[j]] {
			return visits[ids[i]] > visits[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Ties go to the alphabetically first label.
func rankPlanes(flights map[string]int, limit int) []string {
	labels := make([]string, 0, len(flights))
	for label := range flights {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if flights[labels[i]] != flights[labels[j]] {
			return flights[labels[i]] > flights[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > limit {
		labels = labels[:limit]
	}
	return labels
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Source loads what the aggregator needs.
type Source interface {
	ListEntries(ctx context.Context, userID uint) ([]models.FlightLogEntry, error)
	AirportsByIDs(ctx context.Context, ids []uint) (map[uint]models.Airport, error)
}

// Aggregator computes a Summary for one user.
type Aggregator struct {
	source Source
	now    func() time.Time
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

// WithClock replaces the clock used for month and year scoping.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Statistics returns the summary for userID. Any load failure fails the
// whole summary.
func (a *Aggregator) Statistics(ctx context.Context, userID uint) (Summary, error) {
	entries, err := a.source.ListEntries(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load entries: %w", err)
	}

	tally := Summarize(entries, a.now())
	if len(tally.AirportRanking) == 0 {
		return tally.Summary, nil
	}

	airports, err := a.source.AirportsByIDs(ctx, tally.AirportRanking)
	if err != nil {
		return Summary{}, fmt.Errorf("load airports: %w", err)
	}
	// Dangling references are skipped.
	for _, id := range tally.AirportRanking {
		if ap, ok := airports[id]; ok {
			tally.PopularAirport = AirportRef{ICAO: ap.ICAO, Name: ap.Name}
			break
		}
	}
	return tally.Summary, nil
}
