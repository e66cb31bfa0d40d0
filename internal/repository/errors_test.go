package repository

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestSeatConflictErrorMatchesSentinel(t *testing.T) {
	err := error(&SeatConflictError{SeatID: 12, SeatLabel: "B4"})
	assert.True(t, errors.Is(err, ErrSeatAlreadyReserved))
	assert.Equal(t, "seat B4 already reserved", err.Error())

	unlabeled := error(&SeatConflictError{SeatID: 12})
	assert.Equal(t, "seat 12 already reserved", unlabeled.Error())
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry '3-12' for key 'reservation_seats.uq_claim_screening_seat'",
	}
	assert.True(t, isDuplicateKey(dup, "uq_claim_screening_seat"))
	assert.True(t, isDuplicateKey(dup, ""))
	assert.False(t, isDuplicateKey(dup, "uq_payment_merchant_txn"))

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	assert.False(t, isDuplicateKey(deadlock, "uq_claim_screening_seat"))
	assert.False(t, isDuplicateKey(errors.New("plain"), ""))
}

func TestDuplicateSeatID(t *testing.T) {
	dup := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry '3-12' for key 'reservation_seats.uq_claim_screening_seat'",
	}
	assert.Equal(t, uint64(12), duplicateSeatID(dup))

	garbled := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'k'"}
	assert.Equal(t, uint64(0), duplicateSeatID(garbled))
}
