package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Flight types.
const (
	FlightTypeTraining   = "training"
	FlightTypeCommercial = "commercial"
	FlightTypePrivate    = "private"
	FlightTypeCheckride  = "checkride"
	FlightTypeNone       = "none"
)

// Flight rules.
const (
	FlightRuleVFR  = "VFR"
	FlightRuleIFR  = "IFR"
	FlightRuleSVFR = "SVFR"
	FlightRuleNone = "none"
)

var (
	ErrMissingFlightDate   = errors.New("flight_date is required")
	ErrMissingRegistration = errors.New("aircraft_reg is required")
	ErrMissingPIC          = errors.New("pilot_in_command is required")
)

// FlightLogEntry is one flight in a pilot's logbook. The aircraft details are
// a snapshot taken when the entry was written.
type FlightLogEntry struct {
	ID             uint                      `json:"id" gorm:"primaryKey"`
	UserID         uint                      `json:"user_id" gorm:"not null;index"`
	FlightDate     Date                      `json:"flight_date" gorm:"not null;index"`
	Registration   string                    `json:"aircraft_reg" gorm:"column:aircraft_reg;size:16;not null"`
	PilotInCommand string                    `json:"pilot_in_command" gorm:"size:120;not null"`
	OtherCrew      string                    `json:"other_crew"`
	Route          datatypes.JSONType[Route] `json:"route_data" gorm:"column:route_data"`
	FlightType     string                    `json:"flight_type" gorm:"size:16"`
	FlightRule     string                    `json:"flight_rule" gorm:"size:8"`
	Details        string                    `json:"details"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`

	AircraftDetails `gorm:"embedded;embeddedPrefix:aircraft_"`
	HourBuckets     `gorm:"embedded"`
}

func (FlightLogEntry) TableName() string { return "logbook_entries" }

// RoutePlan returns the decoded route.
func (e FlightLogEntry) RoutePlan() Route {
	return e.Route.Data()
}

// SetRoute replaces the stored route.
func (e *FlightLogEntry) SetRoute(r Route) {
	e.Route = datatypes.NewJSONType(r)
}

// Normalize trims text fields and fills empty enumerations with "none".
func (e *FlightLogEntry) Normalize() {
	e.Registration = strings.ToUpper(strings.TrimSpace(e.Registration))
	e.PilotInCommand = strings.TrimSpace(e.PilotInCommand)
	e.OtherCrew = strings.TrimSpace(e.OtherCrew)
	e.AircraftDetails = e.AircraftDetails.Normalize()
	e.FlightType = strings.ToLower(strings.TrimSpace(e.FlightType))
	if e.FlightType == "" {
		e.FlightType = FlightTypeNone
	}
	e.FlightRule = strings.ToUpper(strings.TrimSpace(e.FlightRule))
	if e.FlightRule == "" || e.FlightRule == "NONE" {
		e.FlightRule = FlightRuleNone
	}
}

// Validate checks the fields a logbook entry cannot be saved without.
func (e FlightLogEntry) Validate() error {
	if e.FlightDate.IsZero() {
		return ErrMissingFlightDate
	}
	if strings.TrimSpace(e.Registration) == "" {
		return ErrMissingRegistration
	}
	if strings.TrimSpace(e.PilotInCommand) == "" {
		return ErrMissingPIC
	}
	if err := e.RoutePlan().Validate(); err != nil {
		return err
	}
	if err := validFlightType(e.FlightType); err != nil {
		return err
	}
	if err := validFlightRule(e.FlightRule); err != nil {
		return err
	}
	return e.HourBuckets.Validate()
}

func validFlightType(t string) error {
	switch t {
	case "", FlightTypeTraining, FlightTypeCommercial, FlightTypePrivate, FlightTypeCheckride, FlightTypeNone:
		return nil
	}
	return fmt.Errorf("unknown flight_type %q", t)
}

func validFlightRule(r string) error {
	switch r {
	case "", FlightRuleVFR, FlightRuleIFR, FlightRuleSVFR, FlightRuleNone:
		return nil
	}
	return fmt.Errorf("unknown flight_rule %q", r)
}
