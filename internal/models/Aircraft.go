package models

import (
	"strings"
	"time"
)

// Aircraft category codes.
const (
	CategoryAirplane   = "A"
	CategoryHelicopter = "H"
	CategoryGlider     = "G"
)

// Aircraft class codes.
const (
	ClassSingleEngine = "S"
	ClassMultiEngine  = "M"
)

var categoryLabels = map[string]string{
	CategoryAirplane:   "Airplane",
	CategoryHelicopter: "Helicopter",
	CategoryGlider:     "Glider",
}

var classLabels = map[string]string{
	ClassSingleEngine: "Single-Engine",
	ClassMultiEngine:  "Multi-Engine",
}

// ValidCategory reports whether code is a known aircraft category.
func ValidCategory(code string) bool {
	_, ok := categoryLabels[code]
	return ok
}

// ValidClass reports whether code is a known aircraft class.
func ValidClass(code string) bool {
	_, ok := classLabels[code]
	return ok
}

func CategoryLabel(code string) string { return categoryLabels[code] }
func ClassLabel(code string) string    { return classLabels[code] }

// AircraftDetails is the descriptive part of an aircraft. Logbook entries
// carry a copy taken at entry time; the user's registry holds the current one.
type AircraftDetails struct {
	Model        string `json:"aircraft_model" gorm:"size:120"`
	Manufacturer string `json:"aircraft_manufacturer" gorm:"size:120"`
	Designator   string `json:"aircraft_designator" gorm:"size:8"`
	WTC          string `json:"aircraft_wtc" gorm:"size:4"`
	Category     string `json:"aircraft_category" gorm:"size:2"`
	Class        string `json:"aircraft_class" gorm:"size:2"`
}

// DefaultAircraftDetails is the blank state used for a registration not yet in the registry.
func DefaultAircraftDetails() AircraftDetails {
	return AircraftDetails{Category: CategoryAirplane, Class: ClassSingleEngine}
}

// Normalize trims all fields and uppercases the codes.
func (d AircraftDetails) Normalize() AircraftDetails {
	return AircraftDetails{
		Model:        strings.TrimSpace(d.Model),
		Manufacturer: strings.TrimSpace(d.Manufacturer),
		Designator:   strings.ToUpper(strings.TrimSpace(d.Designator)),
		WTC:          strings.ToUpper(strings.TrimSpace(d.WTC)),
		Category:     strings.ToUpper(strings.TrimSpace(d.Category)),
		Class:        strings.ToUpper(strings.TrimSpace(d.Class)),
	}
}

// IsBlank reports whether no descriptive field is set.
func (d AircraftDetails) IsBlank() bool {
	return d.Model == "" && d.Manufacturer == "" && d.Designator == "" && d.WTC == ""
}

// UserAircraft is one registration in a pilot's personal aircraft registry.
type UserAircraft struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_aircraft_registration"`
	Registration string    `json:"aircraft_reg" gorm:"size:16;not null;uniqueIndex:idx_user_aircraft_registration"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	AircraftDetails `gorm:"embedded;embeddedPrefix:aircraft_"`
}

func (UserAircraft) TableName() string { return "user_aircraft" }

// AircraftType is a reference row from the ICAO aircraft type designator list.
type AircraftType struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Designator   string `json:"designator" gorm:"size:8;uniqueIndex:idx_aircraft_type_identity"`
	Manufacturer string `json:"manufacturer" gorm:"size:120;uniqueIndex:idx_aircraft_type_identity"`
	Model        string `json:"model" gorm:"size:160;uniqueIndex:idx_aircraft_type_identity"`
	WTC          string `json:"wtc" gorm:"size:4"`
}

func (AircraftType) TableName() string { return "aircraft_types" }
