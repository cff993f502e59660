package models

import "time"

// Student is a person who can be enrolled on courses
type Student struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"` // Nullable
}
