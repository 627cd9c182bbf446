package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pilot_logbook/internal/models"
	"pilot_logbook/internal/routes"
	"pilot_logbook/internal/stats"
	"pilot_logbook/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func startServer(t *testing.T) string {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	s := store.New(db)
	ctx := context.Background()
	require.NoError(t, s.UpsertAirports(ctx, []models.Airport{
		{ICAO: "YSSY", IATA: "SYD", Name: "Sydney Kingsford Smith", CountryCode: "AU", Latitude: -33.9461, Longitude: 151.1772},
		{ICAO: "YMML", IATA: "MEL", Name: "Melbourne", CountryCode: "AU", Latitude: -37.6733, Longitude: 144.8433},
	}))
	require.NoError(t, s.InsertAircraftTypes(ctx, []models.AircraftType{
		{Designator: "C172", Manufacturer: "CESSNA", Model: "172 Skyhawk", WTC: "L"},
	}))

	srv := httptest.NewServer(routes.SetupRouter(routes.Deps{Store: s, Aggregator: stats.NewAggregator(s)}))
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return srv.URL + "/api"
}

// isolate keeps the CLI away from the real config file and cache.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOGBOOK_CLI_CONFIG", filepath.Join(dir, "cli.yaml"))
	t.Setenv("LOGBOOK_CACHE_PATH", filepath.Join(dir, "cache.db"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"A", "LONG"}, [][]string{{"xyz", "1"}}, []string{"", "2"})

	assert.Equal(t, "A    LONG\nxyz  1\n     2\n", buf.String())
}

func TestPrintTableWithoutFooters(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"REG", "NAME"}, [][]string{{"VH-TAE", "Cessna"}, {"N1", ""}}, nil)

	assert.Equal(t, "REG     NAME\nVH-TAE  Cessna\nN1      \n", buf.String())
}

func TestHours(t *testing.T) {
	assert.Equal(t, "", hours(0))
	assert.Equal(t, "1.5", hours(1.5))
	assert.Equal(t, "2.0", hours(2))
}

func TestFlightDate(t *testing.T) {
	now := time.Date(2026, time.October, 16, 23, 0, 0, 0, time.UTC)

	d, err := flightDate("", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", d.String())

	d, err = flightDate("2026-09-30", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-30", d.String())

	_, err = flightDate("30/09/2026", now)
	assert.Error(t, err)
}

func TestParseEntryID(t *testing.T) {
	id, err := parseEntryID("12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, s := range []string{"0", "-1", "x"} {
		_, err := parseEntryID(s)
		assert.Error(t, err, s)
	}
}

func TestLoginChecksHealth(t *testing.T) {
	isolate(t)

	_, err := run(t, "--api", "http://127.0.0.1:1/api", "login", "--email", "a@b.c", "--password", "secret123")
	assert.ErrorContains(t, err, "not reachable")
}

func TestFormatRegCommand(t *testing.T) {
	out, err := run(t, "format-reg", "vhtae")
	require.NoError(t, err)
	assert.Equal(t, "VH-TAE\n", out)
}

func TestUnknownView(t *testing.T) {
	isolate(t)
	api := startServer(t)

	_, err := run(t, "--api", api, "--user", "1", "list", "--view", "compact")
	assert.ErrorContains(t, err, `unknown view "compact"`)
}

func TestAirportsCommand(t *testing.T) {
	isolate(t)
	api := startServer(t)

	out, err := run(t, "--api", api, "airports", "syd")
	require.NoError(t, err)
	assert.Contains(t, out, "ICAO")
	assert.Contains(t, out, "Sydney Kingsford Smith")
	assert.NotContains(t, out, "Melbourne")

	out, err = run(t, "--api", api, "airports", "zzzz")
	require.NoError(t, err)
	assert.Equal(t, "No airports found.\n", out)
}

func TestAddUnknownAirport(t *testing.T) {
	isolate(t)
	api := startServer(t)

	_, err := run(t, "--api", api, "add", "--reg", "vhxyz", "--pic", "Self", "--from", "YSSY", "--to", "KJFK")
	assert.ErrorIs(t, err, errUnknownAirport)

	out, err := run(t, "--api", api, "aircraft")
	require.NoError(t, err)
	assert.Equal(t, "No aircraft yet.\n", out)
}

func TestAddAndList(t *testing.T) {
	isolate(t)
	api := startServer(t)

	out, err := run(t, "--api", api, "--user", "1", "add",
		"--date", "2026-10-03", "--reg", "vhxyz", "--pic", "Self",
		"--from", "YSSY", "--to", "MEL", "--via", "custom:Holbrook",
		"--aircraft-type", "c172", "--command-day", "1.5", "--command-night", "0.5",
		"--type", "private", "--rule", "VFR")
	require.NoError(t, err)
	assert.Contains(t, out, "Added VH-XYZ to your aircraft.")
	assert.Contains(t, out, "Logged flight")

	out, err = run(t, "--api", api, "aircraft")
	require.NoError(t, err)
	assert.Contains(t, out, "VH-XYZ")
	assert.Contains(t, out, "172 Skyhawk, CESSNA")
	assert.Contains(t, out, "Single-Engine")

	out, err = run(t, "--api", api, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-10-03")
	assert.Contains(t, out, "YSSY-Holbrook-YMML")
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "2.0")
	assert.NotContains(t, out, "Cached")

	out, err = run(t, "--api", api, "list", "--view", "classic")
	require.NoError(t, err)
	assert.Contains(t, out, "SE CMD D")
	assert.Contains(t, out, "C172")
	assert.Contains(t, out, "Cached")

	out, err = run(t, "--api", api, "list", "--refresh")
	require.NoError(t, err)
	assert.NotContains(t, out, "Cached")

	// A second flight in the same aircraft does not register it again.
	out, err = run(t, "--api", api, "add", "--date", "2026-10-04", "--reg", "VH-XYZ", "--pic", "Self",
		"--from", "YMML", "--to", "YSSY", "--command-day", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Added")

	out, err = run(t, "--api", api, "edit", "1", "--pic", "Jane Doe", "--command-day", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "Updated flight 1 on 2026-10-03.\n", out)

	_, err = run(t, "--api", api, "edit", "1")
	assert.ErrorIs(t, err, errNoChanges)

	out, err = run(t, "--api", api, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.NotContains(t, out, "Cached")

	out, err = run(t, "--api", api, "route", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "LineString")

	geojson := filepath.Join(t.TempDir(), "route.geojson")
	out, err = run(t, "--api", api, "route", "2", "--out", geojson)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote the route of flight 2")
	assert.FileExists(t, geojson)

	// The first flight stops at a custom place without coordinates.
	_, err = run(t, "--api", api, "route", "1")
	assert.Error(t, err)

	out, err = run(t, "--api", api, "airport", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Sydney Kingsford Smith")
	assert.Contains(t, out, "-33.9461, 151.1772")

	out, err = run(t, "--api", api, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Lifetime hours")
	assert.Contains(t, out, "4.0")

	out, err = run(t, "--api", api, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Cache cleared.\n", out)
}
