package model

// TheaterType classifies a theater by its projection format.  The type
// carries a pricing multiplier and a display label; both live in
// constant lookup tables keyed by the type so that adding a format is
// a single-table change.
type TheaterType string

const (
	TheaterType2D      TheaterType = "TWO_D"
	TheaterType4DX     TheaterType = "FOUR_DX"
	TheaterTypeIMAX    TheaterType = "IMAX"
	TheaterTypeScreenX TheaterType = "SCREENX"
)

// theaterTypeMultiplierBP holds the pricing multiplier per theater type
// in basis points of 100 (130 means ×1.30).  Integer basis points keep
// amount computation exact; see service.PriceSeats.
var theaterTypeMultiplierBP = map[TheaterType]uint64{
	TheaterType2D:      100,
	TheaterType4DX:     140,
	TheaterTypeIMAX:    130,
	TheaterTypeScreenX: 120,
}

var theaterTypeLabels = map[TheaterType]string{
	TheaterType2D:      "2D",
	TheaterType4DX:     "4DX",
	TheaterTypeIMAX:    "IMAX",
	TheaterTypeScreenX: "ScreenX",
}

// Valid reports whether t is a known theater type.
func (t TheaterType) Valid() bool {
	_, ok := theaterTypeMultiplierBP[t]
	return ok
}

// MultiplierBP returns the pricing multiplier for the theater type in
// basis points of 100.  Unknown types price as a plain 2D theater.
func (t TheaterType) MultiplierBP() uint64 {
	if bp, ok := theaterTypeMultiplierBP[t]; ok {
		return bp
	}
	return 100
}

// Label returns the human-readable name of the theater type.
func (t TheaterType) Label() string {
	if l, ok := theaterTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Theater is a screening venue.  Its type determines a pricing
// multiplier applied to every seat booked in it, and its seat count is
// fixed once the seats are seeded.  This struct corresponds to a row
// in the `theaters` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the theater.
//  Type      – projection format (TWO_D, FOUR_DX, IMAX, SCREENX).
//  SeatCount – fixed total number of seats.
type Theater struct {
	ID        uint64      `json:"id"`         // theaters.id
	Name      string      `json:"name"`       // theaters.name
	Type      TheaterType `json:"type"`       // theaters.theater_type
	SeatCount uint32      `json:"seat_count"` // theaters.seat_count
}
