package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinetix/booking-backend/internal/model"
)

func TestSeatPriceCents(t *testing.T) {
	cases := []struct {
		name        string
		baseCents   uint64
		seatType    model.SeatType
		theaterType model.TheaterType
		want        uint64
	}{
		{"normal seat in 2D theater is the base price", 1000, model.SeatTypeNormal, model.TheaterType2D, 1000},
		{"premium seat in IMAX multiplies to 1.69x", 1000, model.SeatTypePremium, model.TheaterTypeIMAX, 1690},
		{"room seat in 4DX", 1000, model.SeatTypeRoom, model.TheaterType4DX, 2800},
		{"premium seat in ScreenX", 1000, model.SeatTypePremium, model.TheaterTypeScreenX, 1560},
		{"normal seat in IMAX", 1200, model.SeatTypeNormal, model.TheaterTypeIMAX, 1560},
		{"zero base prices to zero", 0, model.SeatTypeRoom, model.TheaterTypeIMAX, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SeatPriceCents(tc.baseCents, tc.seatType, tc.theaterType))
		})
	}
}

func TestPriceSeats(t *testing.T) {
	seats := []model.Seat{
		{ID: 1, Type: model.SeatTypeNormal},
		{ID: 2, Type: model.SeatTypePremium},
		{ID: 3, Type: model.SeatTypeRoom},
	}
	prices, total := PriceSeats(1000, seats, model.TheaterTypeIMAX)

	assert.Equal(t, uint64(1300), prices[1])
	assert.Equal(t, uint64(1690), prices[2])
	assert.Equal(t, uint64(2600), prices[3])
	assert.Equal(t, uint64(1300+1690+2600), total)
}

func TestPriceSeatsEmptySelection(t *testing.T) {
	prices, total := PriceSeats(1000, nil, model.TheaterType2D)
	assert.Empty(t, prices)
	assert.Zero(t, total)
}
