package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pilot_logbook/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "logbook.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db)
}

func seedAirports(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.UpsertAirports(context.Background(), []models.Airport{
		{ICAO: "YSSY", IATA: "SYD", Name: "Sydney Kingsford Smith", CountryCode: "AU", Latitude: -33.9461, Longitude: 151.1772},
		{ICAO: "YMML", IATA: "MEL", Name: "Melbourne", CountryCode: "AU", Latitude: -37.6733, Longitude: 144.8433},
		{ICAO: "YSBK", IATA: "BWU", Name: "Sydney Bankstown", CountryCode: "AU"},
	}))
}

func newEntry(userID uint, date models.Date, reg string) *models.FlightLogEntry {
	e := &models.FlightLogEntry{
		UserID:         userID,
		FlightDate:     date,
		Registration:   reg,
		PilotInCommand: "Self",
		FlightType:     models.FlightTypePrivate,
		FlightRule:     models.FlightRuleVFR,
		HourBuckets:    models.HourBuckets{CommandDay: 1.5},
	}
	e.SetRoute(models.NewRoute(models.AirportWaypoint(1), models.AirportWaypoint(2), models.CustomWaypoint("Private Strip")))
	return e
}

func TestEntriesRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := newEntry(1, models.NewDate(2026, time.October, 1), "VH-TAE")
	first.AircraftDetails = models.AircraftDetails{Model: "172", Manufacturer: "Cessna", Class: models.ClassSingleEngine}
	require.NoError(t, s.CreateEntry(ctx, first))
	require.NotZero(t, first.ID)

	second := newEntry(1, models.NewDate(2026, time.October, 5), "VH-TAE")
	require.NoError(t, s.CreateEntry(ctx, second))
	require.NoError(t, s.CreateEntry(ctx, newEntry(2, models.NewDate(2026, time.October, 9), "VH-XYZ")))

	entries, err := s.ListEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "newest flight first")
	assert.Equal(t, "2026-10-05", entries[0].FlightDate.String())
	assert.Equal(t, models.Hours(1.5), entries[1].CommandDay)
	assert.Equal(t, "172", entries[1].Model)

	route := entries[0].RoutePlan()
	assert.Equal(t, []uint{1, 2}, route.AirportIDs())
	assert.Equal(t, "Private Strip", route.Stops[0].CustomName)
}

func TestListEntriesFillsSnapshotFromRegistry(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateAircraft(ctx, &models.UserAircraft{
		UserID:          1,
		Registration:    "vh-tae",
		AircraftDetails: models.AircraftDetails{Model: "172", Manufacturer: "Cessna", Designator: "c172"},
	}))
	require.NoError(t, s.CreateEntry(ctx, newEntry(1, models.NewDate(2026, time.October, 1), "VH-TAE")))

	entries, err := s.ListEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "172", entries[0].Model)
	assert.Equal(t, "C172", entries[0].Designator)
}

func TestUpdateEntryKeepsOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	e := newEntry(1, models.NewDate(2026, time.October, 1), "VH-TAE")
	require.NoError(t, s.CreateEntry(ctx, e))

	edit := newEntry(99, models.NewDate(2026, time.October, 2), "VH-ABC")
	edit.Details = "circuits"
	require.NoError(t, s.UpdateEntry(ctx, e.ID, edit))

	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.UserID)
	assert.Equal(t, "VH-ABC", got.Registration)
	assert.Equal(t, "circuits", got.Details)
	assert.Equal(t, "2026-10-02", got.FlightDate.String())

	assert.ErrorIs(t, s.UpdateEntry(ctx, 404, edit), ErrNotFound)
	_, err = s.GetEntry(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAircraftRegistry(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := &models.UserAircraft{UserID: 1, Registration: "VH-TAE", AircraftDetails: models.DefaultAircraftDetails()}
	require.NoError(t, s.CreateAircraft(ctx, a))

	dup := &models.UserAircraft{UserID: 1, Registration: "vh-tae"}
	assert.ErrorIs(t, s.CreateAircraft(ctx, dup), ErrDuplicate)

	other := &models.UserAircraft{UserID: 2, Registration: "VH-TAE"}
	require.NoError(t, s.CreateAircraft(ctx, other), "registrations are unique per user")

	found, err := s.FindAircraft(ctx, 1, "vh-tae")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = s.FindAircraft(ctx, 1, "VH-NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.UpdateAircraft(ctx, 1, "VH-TAE", models.AircraftDetails{Model: "Skyhawk", Manufacturer: "Cessna", Class: "m"})
	require.NoError(t, err)
	assert.Equal(t, "Skyhawk", updated.Model)
	assert.Equal(t, models.ClassMultiEngine, updated.Class)

	_, err = s.UpdateAircraft(ctx, 3, "VH-TAE", models.AircraftDetails{})
	assert.ErrorIs(t, err, ErrNotFound)

	fleet, err := s.ListAircraft(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, fleet, 1)
}

func TestSearchAirports(t *testing.T) {
	s := setupTestStore(t)
	seedAirports(t, s)
	ctx := context.Background()

	got, err := s.SearchAirports(ctx, "syd")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "YSSY", got[0].ICAO)
	assert.Equal(t, "YSBK", got[1].ICAO)

	got, err = s.SearchAirports(ctx, "ym")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "YMML", got[0].ICAO)

	got, err = s.SearchAirports(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.SearchAirports(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchAirportsExactCodeBeyondCandidateLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var airports []models.Airport
	for i := 0; i < airportCandidateLimit+50; i++ {
		airports = append(airports, models.Airport{ICAO: fmt.Sprintf("X%03d", i), Name: fmt.Sprintf("Abcville Field %d", i)})
	}
	airports = append(airports, models.Airport{ICAO: "KABC", IATA: "ABC", Name: "Regional"})
	require.NoError(t, s.UpsertAirports(ctx, airports))

	got, err := s.SearchAirports(ctx, "abc")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "KABC", got[0].ICAO)

	got, err = s.SearchAirports(ctx, "kabc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ABC", got[0].IATA)
}

func TestSearchAircraftTypesExactDesignatorBeyondCandidateLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var types []models.AircraftType
	for i := 0; i < aircraftTypeCandidateLimit+100; i++ {
		types = append(types, models.AircraftType{Designator: fmt.Sprintf("G%04d", i), Manufacturer: "ZZ Aero", Model: fmt.Sprintf("Glider %d", i)})
	}
	types = append(types, models.AircraftType{Designator: "ZZ", Manufacturer: "Other", Model: "Special", WTC: "L"})
	require.NoError(t, s.InsertAircraftTypes(ctx, types))

	got, err := s.SearchAircraftTypes(ctx, "zz")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Special", got[0].Model)
}

func TestAirportsByIDsAndUpsert(t *testing.T) {
	s := setupTestStore(t)
	seedAirports(t, s)
	ctx := context.Background()

	byID, err := s.AirportsByIDs(ctx, []uint{1, 2, 42})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "YSSY", byID[1].ICAO)

	empty, err := s.AirportsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.UpsertAirports(ctx, []models.Airport{{ICAO: "YSSY", IATA: "SYD", Name: "Sydney"}}))
	a, err := s.GetAirport(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sydney", a.Name)

	_, err = s.GetAirport(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAircraftTypes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	types := []models.AircraftType{
		{Designator: "C172", Manufacturer: "Cessna", Model: "172 Skyhawk", WTC: "L"},
		{Designator: "C72R", Manufacturer: "Cessna", Model: "172RG Cutlass", WTC: "L"},
		{Designator: "P28A", Manufacturer: "Piper", Model: "PA-28 Cherokee", WTC: "L"},
	}
	require.NoError(t, s.InsertAircraftTypes(ctx, types))
	require.NoError(t, s.InsertAircraftTypes(ctx, types[:1]), "existing types are skipped")

	got, err := s.SearchAircraftTypes(ctx, "cessna 172")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "172 Skyhawk", got[0].Model)

	got, err = s.SearchAircraftTypes(ctx, "p28")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PA-28 Cherokee", got[0].Model)

	var count int64
	require.NoError(t, s.DB().Model(&models.AircraftType{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "Ann", Email: "Ann@Example.com", Password: "x"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Email: "ann@example.com"}), ErrDuplicate)

	u, err := s.UserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
}
