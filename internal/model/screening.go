package model

import "time"

// ScreeningStatus enumerates the lifecycle states of a screening.
// Only SCHEDULED screenings accept bookings.
type ScreeningStatus string

const (
	ScreeningScheduled ScreeningStatus = "SCHEDULED"
	ScreeningCanceled  ScreeningStatus = "CANCELED"
	ScreeningEnded     ScreeningStatus = "ENDED"
)

// OpenForBooking reports whether a screening in this status may still
// take reservations.
func (s ScreeningStatus) OpenForBooking() bool {
	return s == ScreeningScheduled
}

// Screening represents a scheduled showing of a movie in a specific
// theater at a specific time.  It carries the base ticket price from
// which seat prices are derived.  This struct corresponds to a row in
// the `screenings` table.
//
// Fields:
//  ID             – primary key identifier.
//  TheaterID      – theater where the screening takes place.
//  GenreID        – optional genre classification.
//  MovieTitle     – title of the movie being shown.
//  StartsAt       – when the screening begins.
//  Status         – current state (SCHEDULED, CANCELED, ENDED).
//  BasePriceCents – base ticket price in cents before multipliers.
type Screening struct {
	ID             uint64          // screenings.id
	TheaterID      uint64          // screenings.theater_id
	GenreID        *uint64         // screenings.genre_id (nullable)
	MovieTitle     string          // screenings.movie_title
	StartsAt       time.Time       // screenings.starts_at
	Status         ScreeningStatus // screenings.status
	BasePriceCents uint64          // screenings.base_price_cents
}
