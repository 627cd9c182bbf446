package store

import (
	"context"
	"strings"

	"pilot_logbook/internal/models"
)

// ListAircraft returns a user's aircraft registry ordered by registration.
func (s *Store) ListAircraft(ctx context.Context, userID uint) ([]models.UserAircraft, error) {
	var fleet []models.UserAircraft
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registration").
		Find(&fleet).Error
	return fleet, translate(err)
}

// FindAircraft looks up a registration in a user's registry, ignoring case.
func (s *Store) FindAircraft(ctx context.Context, userID uint, registration string) (models.UserAircraft, error) {
	var a models.UserAircraft
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND UPPER(registration) = ?", userID, strings.ToUpper(strings.TrimSpace(registration))).
		First(&a).Error
	if err != nil {
		return models.UserAircraft{}, translate(err)
	}
	return a, nil
}

// CreateAircraft adds a registration to a user's registry. A registration the
// user already has yields ErrDuplicate.
func (s *Store) CreateAircraft(ctx context.Context, a *models.UserAircraft) error {
	a.ID = 0
	a.Registration = strings.ToUpper(strings.TrimSpace(a.Registration))
	a.AircraftDetails = a.AircraftDetails.Normalize()
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

// UpdateAircraft replaces the details of an existing registration.
func (s *Store) UpdateAircraft(ctx context.Context, userID uint, registration string, details models.AircraftDetails) (models.UserAircraft, error) {
	a, err := s.FindAircraft(ctx, userID, registration)
	if err != nil {
		return models.UserAircraft{}, err
	}
	a.AircraftDetails = details.Normalize()
	if err := s.db.WithContext(ctx).Save(&a).Error; err != nil {
		return models.UserAircraft{}, translate(err)
	}
	return a, nil
}
