package models

import (
	"time"

	"github.com/google/uuid"
)

// Artisan is the seller profile referenced by products. Profile CRUD lives
// elsewhere; the search core only reads these fields.
type Artisan struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	IsVerified    bool      `json:"is_verified" db:"is_verified"`
	RatingAverage float64   `json:"rating_average" db:"rating_average"`
	RatingCount   int       `json:"rating_count" db:"rating_count"`
	Latitude      *float64  `json:"latitude" db:"latitude"`
	Longitude     *float64  `json:"longitude" db:"longitude"`

	// Delivery track record, both in [0, 1].
	OnTimeRate    float64 `json:"on_time_rate" db:"on_time_rate"`
	ComplaintRate float64 `json:"complaint_rate" db:"complaint_rate"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Coordinates returns the artisan's stored location, or nil when unset.
func (a *Artisan) Coordinates() *Coordinates {
	if a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	return &Coordinates{Lat: *a.Latitude, Lng: *a.Longitude}
}
