package models

import "gorm.io/gorm"

// User is a pilot account. Every logbook operation is scoped to a user id.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
}
