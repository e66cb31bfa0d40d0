package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation
// group.  A group starts PENDING, becomes PAID when its payment is
// verified, and CANCELLED when released.  Only non-cancelled groups
// count as active for seat-conflict purposes.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationPaid      ReservationStatus = "PAID"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Active reports whether a group in this status still claims its seats.
func (s ReservationStatus) Active() bool {
	return s != ReservationCancelled
}

// ReservationGroup owns the set of seats reserved together under one
// booking attempt for one screening and one user.  It is created once
// per booking attempt, always together with its payment, inside one
// transaction.  This struct corresponds to a row in the
// `reservation_groups` table.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  ScreeningID – screening being booked.
//  Status      – state of the group (PENDING, PAID, CANCELLED).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type ReservationGroup struct {
	ID          uint64            // reservation_groups.id
	UserID      uint64            // reservation_groups.user_id
	ScreeningID uint64            // reservation_groups.screening_id
	Status      ReservationStatus // reservation_groups.status
	CreatedAt   time.Time         // reservation_groups.created_at
	UpdatedAt   time.Time         // reservation_groups.updated_at
}

// ReservationSeat is a single seat claim belonging to a reservation
// group.  The unique key on (screening_id, seat_id) is what makes two
// racing bookings for the same seat impossible to commit.  Rows are
// deleted when the group is cancelled, releasing the claim.
//
// Fields:
//  ID                 – primary key identifier.
//  ReservationGroupID – owning reservation group.
//  ScreeningID        – screening in which the seat is claimed.
//  SeatID             – seat that has been claimed.
//  PriceCents         – price charged for this seat, frozen at booking time.
type ReservationSeat struct {
	ID                 uint64 // reservation_seats.id
	ReservationGroupID uint64 // reservation_seats.reservation_group_id
	ScreeningID        uint64 // reservation_seats.screening_id
	SeatID             uint64 // reservation_seats.seat_id
	PriceCents         uint64 // reservation_seats.price_cents
}
