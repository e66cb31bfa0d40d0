package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatDisplayLabel(t *testing.T) {
	assert.Equal(t, "A1", Seat{RowLabel: "A", ColNumber: 1}.DisplayLabel())
	assert.Equal(t, "H12", Seat{RowLabel: "H", ColNumber: 12}.DisplayLabel())
}

func TestSeatTypeMultiplier(t *testing.T) {
	assert.Equal(t, uint64(100), SeatTypeNormal.MultiplierBP())
	assert.Equal(t, uint64(130), SeatTypePremium.MultiplierBP())
	assert.Equal(t, uint64(200), SeatTypeRoom.MultiplierBP())
	// unknown types price as a normal seat
	assert.Equal(t, uint64(100), SeatType("RECLINER").MultiplierBP())
}

func TestTheaterTypeMultiplier(t *testing.T) {
	assert.Equal(t, uint64(100), TheaterType2D.MultiplierBP())
	assert.Equal(t, uint64(140), TheaterType4DX.MultiplierBP())
	assert.Equal(t, uint64(130), TheaterTypeIMAX.MultiplierBP())
	assert.Equal(t, uint64(120), TheaterTypeScreenX.MultiplierBP())
	assert.False(t, TheaterType("DOME").Valid())
}
