// Package repository defines the sentinel error values shared across
// repositories and the booking service. These sentinels allow higher
// layers such as handlers to distinguish between failure scenarios
// with errors.Is instead of string matching. For example,
// ErrSeatAlreadyReserved signals a booking conflict that maps to an
// HTTP 409, while ErrUserNotFound maps to a 404.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when a user id or email does not resolve
// to an account. Bookings fail fast with this error; it is never
// retried.
var ErrUserNotFound = errors.New("user not found")

// ErrScreeningUnavailable is returned when a screening does not exist
// or is no longer open for booking (CANCELED or ENDED). Handlers
// should translate this into an HTTP 409 response.
var ErrScreeningUnavailable = errors.New("screening unavailable")

// ErrSeatAlreadyReserved is returned when a requested seat is claimed
// by another active reservation for the same screening. The concrete
// error is usually a *SeatConflictError naming the seat; match with
// errors.Is against this sentinel.
var ErrSeatAlreadyReserved = errors.New("seat already reserved")

// ErrSeatUnknown is returned when a requested seat id does not belong
// to the screening's theater.
var ErrSeatUnknown = errors.New("seat does not belong to this theater")

// ErrReservationNotFound is returned when a reservation group id does
// not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrPaymentNotFound is returned when a merchant transaction id does
// not resolve to a payment record.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrPaymentExists is returned when a second payment is created for a
// reservation group. Exactly one payment may exist per group; hitting
// this indicates an orchestration bug.
var ErrPaymentExists = errors.New("payment already exists for reservation group")

// ErrPaymentAmountMismatch is returned when the amount reported by the
// gateway differs from the expected amount frozen at booking time. The
// payment is marked FAILED_VERIFICATION and is never auto-corrected.
var ErrPaymentAmountMismatch = errors.New("payment amount mismatch")

// ErrMerchantTxnIDCollision is returned when a freshly generated
// merchant transaction id collides with an existing payment. This
// indicates a generator defect or exhaustion and is treated as fatal;
// it is never silently retried.
var ErrMerchantTxnIDCollision = errors.New("merchant transaction id collision")

// ErrPaymentNotReady is returned when completion or failure is
// reported for a payment that is not awaiting the gateway (already
// completed, failed or cancelled).
var ErrPaymentNotReady = errors.New("payment not in READY state")

// ErrScreeningStarted is returned when a cancellation arrives after
// the screening has begun.
var ErrScreeningStarted = errors.New("screening already started")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// SeatConflictError reports which seat caused a booking conflict. It
// matches ErrSeatAlreadyReserved via errors.Is so callers can branch
// on the sentinel while clients still see the offending seat.
type SeatConflictError struct {
	SeatID    uint64
	SeatLabel string
}

func (e *SeatConflictError) Error() string {
	if e.SeatLabel != "" {
		return fmt.Sprintf("seat %s already reserved", e.SeatLabel)
	}
	return fmt.Sprintf("seat %d already reserved", e.SeatID)
}

// Is makes errors.Is(err, ErrSeatAlreadyReserved) succeed for conflict
// errors regardless of which seat they name.
func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatAlreadyReserved
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062) on the named unique key. Passing an empty key matches any
// duplicate-entry error. The key name appears in the driver's error
// message, e.g. "Duplicate entry '3-12' for key 'uq_claim_screening_seat'".
func isDuplicateKey(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}
