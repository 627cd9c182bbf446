package models

// Airport is a reference airport record.
type Airport struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ICAO        string  `json:"icao" gorm:"size:4;uniqueIndex"`
	IATA        string  `json:"iata" gorm:"size:3;index"`
	Name        string  `json:"name" gorm:"size:200;index"`
	CountryCode string  `json:"country_code" gorm:"size:2"`
	Region      string  `json:"region" gorm:"size:120"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (Airport) TableName() string { return "airports" }

// HasLocation reports whether the airport carries coordinates.
func (a Airport) HasLocation() bool {
	return a.Latitude != 0 || a.Longitude != 0
}
