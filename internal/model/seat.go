package model

import "fmt"

// SeatType distinguishes seat classes inside a theater.  Like
// TheaterType it is a tagged value with a constant multiplier table.
type SeatType string

const (
	SeatTypeNormal  SeatType = "NORMAL"
	SeatTypePremium SeatType = "PREMIUM"
	SeatTypeRoom    SeatType = "ROOM"
)

// seatTypeMultiplierBP holds the pricing multiplier per seat type in
// basis points of 100.
var seatTypeMultiplierBP = map[SeatType]uint64{
	SeatTypeNormal:  100,
	SeatTypePremium: 130,
	SeatTypeRoom:    200,
}

var seatTypeLabels = map[SeatType]string{
	SeatTypeNormal:  "Normal",
	SeatTypePremium: "Premium",
	SeatTypeRoom:    "Private room",
}

// Valid reports whether t is a known seat type.
func (t SeatType) Valid() bool {
	_, ok := seatTypeMultiplierBP[t]
	return ok
}

// MultiplierBP returns the pricing multiplier for the seat type in
// basis points of 100.  Unknown types price as NORMAL.
func (t SeatType) MultiplierBP() uint64 {
	if bp, ok := seatTypeMultiplierBP[t]; ok {
		return bp
	}
	return 100
}

// Label returns the human-readable name of the seat type.
func (t SeatType) Label() string {
	if l, ok := seatTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Seat describes a physical seat in a theater.  Seats are uniquely
// identified by (theater, row label, column number) and are immutable
// once seeded.  This struct corresponds to a row in the `seats` table.
//
// Fields:
//  ID        – primary key identifier.
//  TheaterID – theater to which this seat belongs.
//  RowLabel  – letter or string designating the row.
//  ColNumber – number of the seat within the row.
//  Type      – seat class (NORMAL, PREMIUM, ROOM).
type Seat struct {
	ID        uint64   `json:"id"`         // seats.id
	TheaterID uint64   `json:"theater_id"` // seats.theater_id
	RowLabel  string   `json:"row_label"`  // seats.row_label
	ColNumber uint32   `json:"col_number"` // seats.col_number
	Type      SeatType `json:"seat_type"`  // seats.seat_type
}

// DisplayLabel renders the seat position the way it is printed on a
// ticket, e.g. "A1".
func (s Seat) DisplayLabel() string {
	return fmt.Sprintf("%s%d", s.RowLabel, s.ColNumber)
}
