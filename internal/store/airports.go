package store

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"pilot_logbook/internal/models"
	"pilot_logbook/internal/search"
)

const (
	airportCandidateLimit      = 200
	aircraftTypeCandidateLimit = 2000
	seedBatchSize              = 500
)

// SearchAirports returns up to search.AirportLimit airports matching query by
// ICAO or IATA prefix or by name, best match first. Candidates are ordered in
// SQL before the candidate limit so exact code matches always survive it.
func (s *Store) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	q := search.Normalize(query)
	if q == "" {
		return []models.Airport{}, nil
	}
	var candidates []models.Airport
	err := s.db.WithContext(ctx).
		Where(`LOWER(icao) LIKE ? ESCAPE '\' OR LOWER(iata) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\'`,
			prefix(q), prefix(q), contains(q)).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL: `CASE WHEN LOWER(icao) = ? THEN 1 WHEN LOWER(iata) = ? THEN 2 ` +
				`WHEN LOWER(icao) LIKE ? ESCAPE '\' THEN 3 WHEN LOWER(iata) LIKE ? ESCAPE '\' THEN 4 ELSE 5 END, ` +
				`LENGTH(name), name`,
			Vars:               []interface{}{q, q, prefix(q), prefix(q)},
			WithoutParentheses: true,
		}}).
		Limit(airportCandidateLimit).
		Find(&candidates).Error
	if err != nil {
		return nil, translate(err)
	}
	return search.RankAirports(q, candidates, search.AirportLimit), nil
}

// GetAirport loads one airport by id.
func (s *Store) GetAirport(ctx context.Context, id uint) (models.Airport, error) {
	var a models.Airport
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return models.Airport{}, translate(err)
	}
	return a, nil
}

// AirportsByIDs resolves ids in one query. Unknown ids are absent from the result.
func (s *Store) AirportsByIDs(ctx context.Context, ids []uint) (map[uint]models.Airport, error) {
	out := make(map[uint]models.Airport, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var airports []models.Airport
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&airports).Error; err != nil {
		return nil, translate(err)
	}
	for _, a := range airports {
		out[a.ID] = a
	}
	return out, nil
}

// UpsertAirports inserts airports, updating rows that share an ICAO code.
func (s *Store) UpsertAirports(ctx context.Context, airports []models.Airport) error {
	if len(airports) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "icao"}},
			DoUpdates: clause.AssignmentColumns([]string{"iata", "name", "country_code", "region", "latitude", "longitude"}),
		}).
		CreateInBatches(airports, seedBatchSize).Error
	return translate(err)
}

// SearchAircraftTypes returns up to search.AircraftTypeLimit types where every
// word of query matches the designator, manufacturer or model.
func (s *Store) SearchAircraftTypes(ctx context.Context, query string) ([]models.AircraftType, error) {
	terms := search.Terms(query)
	if len(terms) == 0 {
		return []models.AircraftType{}, nil
	}
	tx := s.db.WithContext(ctx).Model(&models.AircraftType{})
	for _, term := range terms {
		pattern := contains(term)
		tx = tx.Where(`(LOWER(REPLACE(REPLACE(designator, '-', ''), '.', '')) LIKE ? ESCAPE '\' OR LOWER(manufacturer) LIKE ? ESCAPE '\' OR LOWER(model) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	// Coarse SQL tiers in the same order as search.AircraftTypePriority; the
	// exact ranking happens in Go on what survives the candidate limit.
	inModel, modelVars := allLike("LOWER(model)", terms)
	inMaker, makerVars := allLike("LOWER(manufacturer)", terms)
	designator := `LOWER(REPLACE(REPLACE(designator, '-', ''), '.', ''))`
	var vars []interface{}
	vars = append(vars, modelVars...)
	vars = append(vars, terms[0], prefix(terms[0]))
	vars = append(vars, makerVars...)
	tx = tx.Order(clause.OrderBy{Expression: clause.Expr{
		SQL: `CASE WHEN ` + inModel + ` THEN 1 WHEN ` + designator + ` = ? THEN 2 ` +
			`WHEN ` + designator + ` LIKE ? ESCAPE '\' THEN 3 WHEN ` + inMaker + ` THEN 4 ELSE 5 END, ` +
			`LENGTH(model), model`,
		Vars:               vars,
		WithoutParentheses: true,
	}})

	var candidates []models.AircraftType
	if err := tx.Limit(aircraftTypeCandidateLimit).Find(&candidates).Error; err != nil {
		return nil, translate(err)
	}
	return search.RankAircraftTypes(query, candidates, search.AircraftTypeLimit), nil
}

// allLike builds "col LIKE ? AND col LIKE ? ..." requiring every term in col.
func allLike(col string, terms []string) (string, []interface{}) {
	conds := make([]string, 0, len(terms))
	vars := make([]interface{}, 0, len(terms))
	for _, term := range terms {
		conds = append(conds, col+` LIKE ? ESCAPE '\'`)
		vars = append(vars, contains(term))
	}
	return "(" + strings.Join(conds, " AND ") + ")", vars
}

// InsertAircraftTypes adds reference types, skipping ones already present.
func (s *Store) InsertAircraftTypes(ctx context.Context, types []models.AircraftType) error {
	if len(types) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(types, seedBatchSize).Error
	return translate(err)
}
