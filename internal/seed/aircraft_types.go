package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"pilot_logbook/internal/models"
)

var (
	designatorPattern = regexp.MustCompile(`^[A-Z0-9]{2,4}$`)
	wtcPattern        = regexp.MustCompile(`^[LMHJ](/[LMHJ])*$`)
)

// headerMarkers identify the column headings repeated on every page of ICAO Doc 8643.
var headerMarkers = []string{"MODEL, MANUFACTURER", "MODÈLE, CONSTRUCTEUR", "PART 3"}

// ParseAircraftTypes extracts types from Doc 8643 text, one or two
// "MODEL, MANUFACTURER DESIGNATOR WTC" entries per line. It returns the
// parsed types and the number of lines that held none.
func ParseAircraftTypes(r io.Reader) ([]models.AircraftType, int, error) {
	var (
		types   []models.AircraftType
		invalid int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isHeader(line) {
			continue
		}
		parsed := parseTypeLine(line)
		if len(parsed) == 0 {
			invalid++
			continue
		}
		types = append(types, parsed...)
	}
	if err := scanner.Err(); err != nil {
		return nil, invalid, fmt.Errorf("failed to read aircraft types: %w", err)
	}
	return types, invalid, nil
}

func isHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, m := range headerMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// parseTypeLine walks the words of a line and closes an entry at every
// designator followed by a wake turbulence category, provided the words
// before them contain the model/manufacturer comma.
func parseTypeLine(line string) []models.AircraftType {
	words := strings.Fields(line)
	var (
		out   []models.AircraftType
		start int
	)
	for i := start + 1; i < len(words); i++ {
		if !wtcPattern.MatchString(words[i]) || !designatorPattern.MatchString(words[i-1]) {
			continue
		}
		if t, ok := buildType(words[start:i-1], words[i-1], words[i]); ok {
			out = append(out, t)
			start = i + 1
			i = start
		}
	}
	return out
}

func buildType(words []string, designator, wtc string) (models.AircraftType, bool) {
	joined := strings.Join(words, " ")
	idx := strings.Index(joined, ",")
	if idx < 0 {
		return models.AircraftType{}, false
	}
	model := strings.TrimSpace(joined[:idx])
	manufacturer := strings.TrimSpace(joined[idx+1:])
	if model == "" || manufacturer == "" {
		return models.AircraftType{}, false
	}
	return models.AircraftType{
		Designator:   designator,
		Manufacturer: manufacturer,
		Model:        model,
		WTC:          wtc,
	}, true
}

// ImportAircraftTypes parses Doc 8643 text and inserts the types in batches.
func ImportAircraftTypes(ctx context.Context, w AircraftTypeWriter, r io.Reader) (Report, error) {
	types, invalid, err := ParseAircraftTypes(r)
	report := Report{Skipped: invalid}
	if err != nil {
		return report, err
	}
	for start := 0; start < len(types); start += batchSize {
		end := start + batchSize
		if end > len(types) {
			end = len(types)
		}
		if err := w.InsertAircraftTypes(ctx, types[start:end]); err != nil {
			return report, fmt.Errorf("failed to store aircraft types: %w", err)
		}
		report.Imported += end - start
	}
	return report, nil
}
