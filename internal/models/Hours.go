package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hours is a non-negative decimal flight time.
//
// Clients send hours either as JSON numbers or as numeric strings ("1.5").
// Anything that cannot be parsed, including NaN and infinities, decodes to zero.
type Hours float64

// MaxHours is the largest value a numeric(6,2) hours column holds.
const MaxHours Hours = 9999.99

// ParseHours parses a decimal hour value, returning 0 for blank or malformed input.
func ParseHours(s string) Hours {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) Hours {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Hours(f)
}

func (h Hours) Float() float64 { return float64(h) }

func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*h = 0
			return nil
		}
		*h = ParseHours(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*h = 0
		return nil
	}
	*h = finite(f)
	return nil
}

func (h Hours) Value() (driver.Value, error) {
	return float64(h), nil
}

func (h *Hours) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = 0
	case float64:
		*h = Hours(v)
	case float32:
		*h = Hours(v)
	case int64:
		*h = Hours(v)
	case []byte:
		*h = ParseHours(string(v))
	case string:
		*h = ParseHours(v)
	default:
		return fmt.Errorf("cannot scan %T into Hours", src)
	}
	return nil
}

// HourBuckets holds the ten flight time categories of a logbook entry.
// ICUS is in command under supervision.
type HourBuckets struct {
	ICUSDay            Hours `json:"icus_day"             gorm:"type:numeric(6,2);not null;default:0"`
	ICUSNight          Hours `json:"icus_night"           gorm:"type:numeric(6,2);not null;default:0"`
	DualDay            Hours `json:"dual_day"             gorm:"type:numeric(6,2);not null;default:0"`
	DualNight          Hours `json:"dual_night"           gorm:"type:numeric(6,2);not null;default:0"`
	CommandDay         Hours `json:"command_day"          gorm:"type:numeric(6,2);not null;default:0"`
	CommandNight       Hours `json:"command_night"        gorm:"type:numeric(6,2);not null;default:0"`
	CoPilotDay         Hours `json:"co_pilot_day"         gorm:"type:numeric(6,2);not null;default:0"`
	CoPilotNight       Hours `json:"co_pilot_night"       gorm:"type:numeric(6,2);not null;default:0"`
	InstrumentInFlight Hours `json:"instrument_in_flight" gorm:"type:numeric(6,2);not null;default:0"`
	InstrumentSim      Hours `json:"instrument_sim"       gorm:"type:numeric(6,2);not null;default:0"`
}

var (
	ErrNegativeHours = errors.New("hours must not be negative")
	ErrHoursTooLarge = fmt.Errorf("hours must not exceed %.2f", float64(MaxHours))
	ErrInvalidHours  = errors.New("hours must be a finite number")
)

// Total is the sum of all ten buckets, the only definition of total time.
func (b HourBuckets) Total() float64 {
	return b.Day() + b.Night() + float64(b.InstrumentInFlight+b.InstrumentSim)
}

// Day sums the daytime pilot buckets.
func (b HourBuckets) Day() float64 {
	return float64(b.ICUSDay + b.DualDay + b.CommandDay + b.CoPilotDay)
}

// Night sums the night pilot buckets.
func (b HourBuckets) Night() float64 {
	return float64(b.ICUSNight + b.DualNight + b.CommandNight + b.CoPilotNight)
}

func (b HourBuckets) Instrument() float64 {
	return float64(b.InstrumentInFlight + b.InstrumentSim)
}

// Validate rejects negative, non-finite and oversized values in any bucket.
func (b HourBuckets) Validate() error {
	for _, f := range b.named() {
		v := float64(f.value)
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return fmt.Errorf("%s: %w", f.name, ErrInvalidHours)
		case f.value < 0:
			return fmt.Errorf("%s: %w", f.name, ErrNegativeHours)
		case f.value > MaxHours:
			return fmt.Errorf("%s: %w", f.name, ErrHoursTooLarge)
		}
	}
	return nil
}

type namedHours struct {
	name  string
	value Hours
}

func (b HourBuckets) named() []namedHours {
	return []namedHours{
		{"icus_day", b.ICUSDay},
		{"icus_night", b.ICUSNight},
		{"dual_day", b.DualDay},
		{"dual_night", b.DualNight},
		{"command_day", b.CommandDay},
		{"command_night", b.CommandNight},
		{"co_pilot_day", b.CoPilotDay},
		{"co_pilot_night", b.CoPilotNight},
		{"instrument_in_flight", b.InstrumentInFlight},
		{"instrument_sim", b.InstrumentSim},
	}
}
