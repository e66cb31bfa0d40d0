package service

import "github.com/cinetix/booking-backend/internal/model"

// Seat and theater multipliers are stored as integer basis points of
// 100 (130 = ×1.30), so a seat price is computed entirely in integer
// arithmetic and is exact and deterministic:
//
//	price = base × seatBP × theaterBP / 10000
//
// Division happens last; with cent-denominated base prices that are
// multiples of 100 (the seeded catalog uses whole currency units) the
// result is exact. The amount is computed once at booking time, frozen
// on the claim rows, and verified — never recomputed — at completion.

// SeatPriceCents returns the price of one seat for a screening with
// the given base price.
func SeatPriceCents(baseCents uint64, seatType model.SeatType, theaterType model.TheaterType) uint64 {
	return baseCents * seatType.MultiplierBP() * theaterType.MultiplierBP() / 10000
}

// PriceSeats prices every seat in the selection and returns the
// per-seat amounts keyed by seat id together with the total.
func PriceSeats(baseCents uint64, seats []model.Seat, theaterType model.TheaterType) (map[uint64]uint64, uint64) {
	prices := make(map[uint64]uint64, len(seats))
	var total uint64
	for _, s := range seats {
		p := SeatPriceCents(baseCents, s.Type, theaterType)
		prices[s.ID] = p
		total += p
	}
	return prices, total
}
