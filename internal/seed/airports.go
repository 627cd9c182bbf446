// Package seed imports airport and aircraft type reference data.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pilot_logbook/internal/models"
)

const batchSize = 500

// Report counts what an import did.
type Report struct {
	Imported int
	Skipped  int
}

// AirportWriter stores airports, replacing rows that share an ICAO code.
type AirportWriter interface {
	UpsertAirports(ctx context.Context, airports []models.Airport) error
}

// AircraftTypeWriter stores aircraft types, ignoring ones already present.
type AircraftTypeWriter interface {
	InsertAircraftTypes(ctx context.Context, types []models.AircraftType) error
}

var airportColumns = []string{"iata", "icao", "airport_name", "country_code", "region_name", "latitude", "longitude"}

// ImportAirports reads an airports CSV with the header
// iata,icao,airport_name,country_code,region_name,latitude,longitude and
// upserts it in batches. Rows without an ICAO code are skipped.
func ImportAirports(ctx context.Context, w AirportWriter, r io.Reader) (Report, error) {
	var report Report

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.ToLower(strings.Trim(strings.TrimSpace(h), "'\"\ufeff"))] = i
	}
	for _, col := range airportColumns {
		if _, ok := headerMap[col]; !ok {
			return report, fmt.Errorf("airports CSV is missing column %q", col)
		}
	}

	batch := make([]models.Airport, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.UpsertAirports(ctx, batch); err != nil {
			return fmt.Errorf("failed to store airports: %w", err)
		}
		report.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("failed to read CSV record: %w", err)
		}

		airport, ok := parseAirport(record, headerMap)
		if !ok {
			report.Skipped++
			continue
		}
		batch = append(batch, airport)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	return report, flush()
}

func parseAirport(record []string, headerMap map[string]int) (models.Airport, bool) {
	a := models.Airport{
		IATA:        strings.ToUpper(getField(record, headerMap, "iata")),
		ICAO:        strings.ToUpper(getField(record, headerMap, "icao")),
		Name:        getField(record, headerMap, "airport_name"),
		CountryCode: strings.ToUpper(getField(record, headerMap, "country_code")),
		Region:      getField(record, headerMap, "region_name"),
	}
	// icao is the upsert key, so IATA-only rows cannot be stored.
	if a.ICAO == "" {
		return a, false
	}
	a.Latitude = parseCoord(getField(record, headerMap, "latitude"))
	a.Longitude = parseCoord(getField(record, headerMap, "longitude"))
	return a, true
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func getField(record []string, headerMap map[string]int, name string) string {
	i, ok := headerMap[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
