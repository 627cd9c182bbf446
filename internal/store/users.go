package store

import (
	"context"
	"strings"

	"pilot_logbook/internal/models"
)

// CreateUser registers a pilot account. A taken email yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

// UserByEmail loads an account by its email address.
func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}
