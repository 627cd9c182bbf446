package store

import (
	"context"

	"pilot_logbook/internal/models"
)

// ListEntries returns a user's logbook, newest flight first. Entries written
// without an aircraft snapshot are filled from the user's aircraft registry.
func (s *Store) ListEntries(ctx context.Context, userID uint) ([]models.FlightLogEntry, error) {
	var entries []models.FlightLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("flight_date DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}

	var missing bool
	for _, e := range entries {
		if e.AircraftDetails.IsBlank() {
			missing = true
			break
		}
	}
	if !missing {
		return entries, nil
	}

	fleet, err := s.ListAircraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	byReg := make(map[string]models.AircraftDetails, len(fleet))
	for _, a := range fleet {
		byReg[a.Registration] = a.AircraftDetails
	}
	for i := range entries {
		if !entries[i].AircraftDetails.IsBlank() {
			continue
		}
		if details, ok := byReg[entries[i].Registration]; ok {
			entries[i].AircraftDetails = details
		}
	}
	return entries, nil
}

// GetEntry loads one entry by id.
func (s *Store) GetEntry(ctx context.Context, id uint) (models.FlightLogEntry, error) {
	var entry models.FlightLogEntry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return models.FlightLogEntry{}, translate(err)
	}
	return entry, nil
}

// CreateEntry inserts entry and fills its id and timestamps.
func (s *Store) CreateEntry(ctx context.Context, entry *models.FlightLogEntry) error {
	entry.ID = 0
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

// UpdateEntry replaces every editable field of the stored entry with id.
// The owner and creation time are kept.
func (s *Store) UpdateEntry(ctx context.Context, id uint, entry *models.FlightLogEntry) error {
	existing, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	entry.ID = existing.ID
	entry.UserID = existing.UserID
	entry.CreatedAt = existing.CreatedAt
	return translate(s.db.WithContext(ctx).Save(entry).Error)
}
