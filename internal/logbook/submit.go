package logbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"pilot_logbook/internal/models"
)

// ErrInvalidDraft wraps every validation failure found before any request is sent.
var ErrInvalidDraft = errors.New("invalid log draft")

// SubmitAPI is the part of the API a submission writes to.
type SubmitAPI interface {
	CreateAircraft(ctx context.Context, aircraft models.UserAircraft) (models.UserAircraft, error)
	UpdateAircraft(ctx context.Context, userID uint, registration string, details models.AircraftDetails) (models.UserAircraft, error)
	CreateEntry(ctx context.Context, entry models.FlightLogEntry) (models.FlightLogEntry, error)
}

// Invalidator drops cached logbook data for a user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID uint) error
}

// Draft is a flight log as entered, before it is submitted.
type Draft struct {
	Aircraft       Selection
	FlightDate     models.Date
	PilotInCommand string
	OtherCrew      string
	Route          models.Route
	FlightType     string
	FlightRule     string
	Details        string
	Hours          models.HourBuckets
}

// SubmitResult reports what a submission wrote.
type SubmitResult struct {
	Entry           models.FlightLogEntry
	Aircraft        *models.UserAircraft
	AircraftCreated bool
	AircraftUpdated bool
	// Warnings lists failures that did not stop the entry from being saved.
	Warnings []string
}

type Submitter struct {
	api   SubmitAPI
	cache Invalidator
}

// NewSubmitter creates a Submitter. cache may be nil.
func NewSubmitter(api SubmitAPI, cache Invalidator) *Submitter {
	return &Submitter{api: api, cache: cache}
}

// Entry builds the logbook entry a draft describes.
func (d Draft) Entry(userID uint) models.FlightLogEntry {
	e := models.FlightLogEntry{
		UserID:          userID,
		FlightDate:      d.FlightDate,
		Registration:    d.Aircraft.Registration,
		PilotInCommand:  d.PilotInCommand,
		OtherCrew:       d.OtherCrew,
		FlightType:      d.FlightType,
		FlightRule:      d.FlightRule,
		Details:         strings.TrimSpace(d.Details),
		AircraftDetails: d.Aircraft.Details,
		HourBuckets:     d.Hours,
	}
	e.SetRoute(d.Route)
	e.Normalize()
	return e
}

// Validate checks the draft without contacting the server.
func (d Draft) Validate(userID uint) error {
	if userID == 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidDraft)
	}
	if d.Aircraft.State == Unresolved {
		return fmt.Errorf("%w: aircraft %q is not resolved", ErrInvalidDraft, d.Aircraft.Registration)
	}
	if err := d.Entry(userID).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

// Submit saves a draft. A new aircraft must be registered before the entry
// is written; a failed update of a known aircraft only produces a warning.
// The user's cached logbook is invalidated after the entry is saved.
func (s *Submitter) Submit(ctx context.Context, userID uint, d Draft) (SubmitResult, error) {
	var result SubmitResult
	if err := d.Validate(userID); err != nil {
		return result, err
	}
	entry := d.Entry(userID)
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "aircraft_reg": entry.Registration})

	switch d.Aircraft.State {
	case NewPending:
		created, err := s.api.CreateAircraft(ctx, models.UserAircraft{
			UserID:          userID,
			Registration:    entry.Registration,
			AircraftDetails: entry.AircraftDetails,
		})
		if err != nil {
			return result, fmt.Errorf("register aircraft %s: %w", entry.Registration, err)
		}
		result.Aircraft = &created
		result.AircraftCreated = true
	case Found, Editing:
		if d.Aircraft.Modified() {
			updated, err := s.api.UpdateAircraft(ctx, userID, entry.Registration, entry.AircraftDetails)
			if err != nil {
				log.WithError(err).Warn("Aircraft update failed, saving entry anyway")
				result.Warnings = append(result.Warnings, fmt.Sprintf("aircraft %s was not updated: %v", entry.Registration, err))
			} else {
				result.Aircraft = &updated
				result.AircraftUpdated = true
			}
		}
	}

	saved, err := s.api.CreateEntry(ctx, entry)
	if err != nil {
		return result, fmt.Errorf("save entry: %w", err)
	}
	result.Entry = saved
	log.WithField("entry_id", saved.ID).Info("Logbook entry submitted")

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			log.WithError(err).Warn("Could not invalidate cached logbook")
		}
	}
	return result, nil
}
