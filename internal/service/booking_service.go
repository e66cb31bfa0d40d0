// Package service contains the booking orchestrator: the single entry
// point through which reservations are created, paid for and
// cancelled. All seat-conflict and pricing invariants are enforced
// here, inside one database transaction per operation.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cinetix/booking-backend/internal/model"
	"github.com/cinetix/booking-backend/internal/queue"
	"github.com/cinetix/booking-backend/internal/repository"
)

// EventPublisher is the slice of the queue publisher the service
// needs. Publishing happens after commit and is best-effort; a broker
// outage never fails a booking.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// BookingService composes user lookup, reservation creation and
// payment initiation into atomic booking operations. It owns the
// transaction boundary: either the reservation group and its pending
// payment both persist, or neither does.
type BookingService struct {
	db              *sql.DB
	UserRepo        *repository.UserRepo
	ScreeningRepo   *repository.ScreeningRepo
	TheaterRepo     *repository.TheaterRepo
	SeatRepo        *repository.SeatRepo
	ReservationRepo *repository.ReservationRepo
	PaymentRepo     *repository.PaymentRepo
	publisher       EventPublisher
	logger          *logrus.Logger

	// newMerchantTxnID generates merchant transaction identifiers.
	// UUIDv4 keeps generation lock-free; a collision is caught by the
	// unique key and treated as fatal, not retried.
	newMerchantTxnID func() string
}

// NewBookingService constructs a BookingService. All repository
// dependencies must be non-nil; publisher may be nil when no broker is
// configured.
func NewBookingService(
	db *sql.DB,
	userRepo *repository.UserRepo,
	screeningRepo *repository.ScreeningRepo,
	theaterRepo *repository.TheaterRepo,
	seatRepo *repository.SeatRepo,
	reservationRepo *repository.ReservationRepo,
	paymentRepo *repository.PaymentRepo,
	publisher EventPublisher,
	logger *logrus.Logger,
) *BookingService {
	if db == nil || userRepo == nil || screeningRepo == nil || theaterRepo == nil ||
		seatRepo == nil || reservationRepo == nil || paymentRepo == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &BookingService{
		db:               db,
		UserRepo:         userRepo,
		ScreeningRepo:    screeningRepo,
		TheaterRepo:      theaterRepo,
		SeatRepo:         seatRepo,
		ReservationRepo:  reservationRepo,
		PaymentRepo:      paymentRepo,
		publisher:        publisher,
		logger:           logger,
		newMerchantTxnID: func() string { return "PAY-" + uuid.NewString() },
	}
}

// BookingSummary is what StartBooking returns to the HTTP layer.
// PaymentID is the merchant transaction identifier, the externally
// visible correlation key the gateway reports back with.
type BookingSummary struct {
	ReservationGroupID  uint64 `json:"reservation_group_id"`
	PaymentID           string `json:"payment_id"`
	ExpectedAmountCents uint64 `json:"expected_amount_cents"`
}

// StartBooking is the system's single booking entry point. It resolves
// the user, creates a PENDING reservation group for the requested
// seats and a READY payment with the expected amount, all inside one
// transaction.
//
// Concurrency: the screening row is locked FOR UPDATE before the
// availability check, serializing racing bookings for the same
// screening; the unique key on reservation_seats(screening_id,
// seat_id) backstops the race at commit time. One of two overlapping
// bookings always fails with ErrSeatAlreadyReserved, never both
// succeed.
func (s *BookingService) StartBooking(ctx context.Context, userID, screeningID uint64, seatIDs []uint64) (*BookingSummary, error) {
	unique := dedupe(seatIDs)
	if len(unique) == 0 {
		return nil, repository.ErrSeatUnknown
	}

	// User lookup is a read-only collaborator; no need to hold the
	// screening lock while resolving it.
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	buyer := model.BuyerInfo{Name: user.Name, Phone: user.Phone, Email: user.Email}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	screening, err := s.ScreeningRepo.GetByIDForUpdateTx(ctx, tx, screeningID)
	if err != nil {
		return nil, err
	}
	if !screening.Status.OpenForBooking() || !screening.StartsAt.After(time.Now().UTC()) {
		return nil, repository.ErrScreeningUnavailable
	}

	theater, err := s.TheaterRepo.GetByIDTx(ctx, tx, screening.TheaterID)
	if err != nil {
		return nil, err
	}

	seats, err := s.SeatRepo.GetByIDsForTheaterTx(ctx, tx, theater.ID, unique)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(unique) {
		return nil, repository.ErrSeatUnknown
	}

	claimed, err := s.ReservationRepo.ClaimedSeatIDsTx(ctx, tx, screeningID, unique)
	if err != nil {
		return nil, err
	}
	if len(claimed) > 0 {
		return nil, conflictError(claimed[0], seats)
	}

	group := &model.ReservationGroup{
		UserID:      userID,
		ScreeningID: screeningID,
		Status:      model.ReservationPending,
	}
	if err := s.ReservationRepo.CreateTx(ctx, tx, group); err != nil {
		return nil, err
	}

	prices, total := PriceSeats(screening.BasePriceCents, seats, theater.Type)
	claims := make([]model.ReservationSeat, 0, len(seats))
	for _, seat := range seats {
		claims = append(claims, model.ReservationSeat{
			ReservationGroupID: group.ID,
			ScreeningID:        screeningID,
			SeatID:             seat.ID,
			PriceCents:         prices[seat.ID],
		})
	}
	if err := s.ReservationRepo.CreateSeatsBulkTx(ctx, tx, claims); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		ReservationGroupID:  group.ID,
		MerchantTxnID:       s.newMerchantTxnID(),
		ExpectedAmountCents: total,
		Status:              model.PaymentReady,
		Buyer:               buyer,
	}
	if err := s.PaymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.logger.WithFields(logrus.Fields{
		"reservation_group_id": group.ID,
		"user_id":              userID,
		"screening_id":         screeningID,
		"seats":                len(claims),
		"amount_cents":         total,
		"merchant_txn_id":      payment.MerchantTxnID,
	}).Info("booking started")

	return &BookingSummary{
		ReservationGroupID:  group.ID,
		PaymentID:           payment.MerchantTxnID,
		ExpectedAmountCents: total,
	}, nil
}

// CompletePayment is the verification step the payment gateway drives.
// The paid amount is compared against the expected amount frozen at
// booking time; a match completes the payment and marks the group
// PAID, a mismatch marks the payment FAILED_VERIFICATION and is never
// auto-corrected (the mismatch status commits; the seats stay
// claimed for manual resolution). Completion is idempotent: repeating
// it for a COMPLETED payment is a no-op.
func (s *BookingService) CompletePayment(ctx context.Context, merchantTxnID string, paidAmountCents uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err := s.PaymentRepo.GetByMerchantTxnIDForUpdateTx(ctx, tx, merchantTxnID)
	if err != nil {
		return err
	}
	switch payment.Status {
	case model.PaymentReady:
	case model.PaymentCompleted:
		return nil
	default:
		return repository.ErrPaymentNotReady
	}

	if paidAmountCents != payment.ExpectedAmountCents {
		if err := s.PaymentRepo.UpdateStatusTx(ctx, tx, payment.ID, model.PaymentFailedVerification); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		committed = true
		s.logger.WithFields(logrus.Fields{
			"merchant_txn_id": merchantTxnID,
			"expected_cents":  payment.ExpectedAmountCents,
			"paid_cents":      paidAmountCents,
		}).Warn("payment amount mismatch")
		return repository.ErrPaymentAmountMismatch
	}

	group, err := s.ReservationRepo.GetByIDForUpdateTx(ctx, tx, payment.ReservationGroupID)
	if err != nil {
		return err
	}
	if err := s.PaymentRepo.UpdateStatusTx(ctx, tx, payment.ID, model.PaymentCompleted); err != nil {
		return err
	}
	if err := s.ReservationRepo.UpdateStatusTx(ctx, tx, group.ID, model.ReservationPaid); err != nil {
		return err
	}

	event, err := s.buildConfirmedEvent(ctx, tx, group, payment)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.logger.WithFields(logrus.Fields{
		"reservation_group_id": group.ID,
		"merchant_txn_id":      merchantTxnID,
	}).Info("payment completed")

	if s.publisher != nil {
		// Best effort; the publisher logs its own failures.
		_ = s.publisher.PublishBookingConfirmed(ctx, event)
	}
	return nil
}

// ReportPaymentFailure records a gateway-side failure. The payment
// becomes FAILED and the reservation releases its seat claims so the
// seats are immediately bookable again.
func (s *BookingService) ReportPaymentFailure(ctx context.Context, merchantTxnID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err := s.PaymentRepo.GetByMerchantTxnIDForUpdateTx(ctx, tx, merchantTxnID)
	if err != nil {
		return err
	}
	if payment.Status != model.PaymentReady {
		return repository.ErrPaymentNotReady
	}
	if err := s.PaymentRepo.UpdateStatusTx(ctx, tx, payment.ID, model.PaymentFailed); err != nil {
		return err
	}
	if err := s.ReservationRepo.UpdateStatusTx(ctx, tx, payment.ReservationGroupID, model.ReservationCancelled); err != nil {
		return err
	}
	if err := s.ReservationRepo.ReleaseSeatsTx(ctx, tx, payment.ReservationGroupID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.logger.WithField("merchant_txn_id", merchantTxnID).Info("payment failed, seats released")
	return nil
}

// CancelBooking cancels a reservation group owned by userID, cancels
// its payment and releases the seat claims. Cancellation after the
// screening has started is rejected. Cancelling an already cancelled
// group is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, userID, groupID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	group, err := s.ReservationRepo.GetByIDForUpdateTx(ctx, tx, groupID)
	if err != nil {
		return err
	}
	if group.UserID != userID {
		return repository.ErrForbidden
	}
	if group.Status == model.ReservationCancelled {
		return nil
	}

	screening, err := s.ScreeningRepo.GetByIDForUpdateTx(ctx, tx, group.ScreeningID)
	if err != nil {
		return err
	}
	if !screening.StartsAt.After(time.Now().UTC()) {
		return repository.ErrScreeningStarted
	}

	payment, err := s.PaymentRepo.GetByGroupTx(ctx, tx, groupID)
	if err != nil {
		return err
	}
	if err := s.PaymentRepo.UpdateStatusTx(ctx, tx, payment.ID, model.PaymentCancelled); err != nil {
		return err
	}
	if err := s.ReservationRepo.UpdateStatusTx(ctx, tx, groupID, model.ReservationCancelled); err != nil {
		return err
	}
	if err := s.ReservationRepo.ReleaseSeatsTx(ctx, tx, groupID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.logger.WithFields(logrus.Fields{
		"reservation_group_id": groupID,
		"user_id":              userID,
	}).Info("booking cancelled")
	return nil
}

// buildConfirmedEvent assembles the broker payload for a paid booking
// while the transaction is still open, so the data matches what
// commits.
func (s *BookingService) buildConfirmedEvent(ctx context.Context, tx *sql.Tx, group *model.ReservationGroup, payment *model.Payment) (queue.BookingConfirmedEvent, error) {
	screening, err := s.ScreeningRepo.GetByIDForUpdateTx(ctx, tx, group.ScreeningID)
	if err != nil {
		return queue.BookingConfirmedEvent{}, err
	}
	theater, err := s.TheaterRepo.GetByIDTx(ctx, tx, screening.TheaterID)
	if err != nil {
		return queue.BookingConfirmedEvent{}, err
	}
	claims, err := s.ReservationRepo.ListSeatsTx(ctx, tx, group.ID)
	if err != nil {
		return queue.BookingConfirmedEvent{}, err
	}
	seatIDs := make([]uint64, 0, len(claims))
	for _, c := range claims {
		seatIDs = append(seatIDs, c.SeatID)
	}
	seats, err := s.SeatRepo.GetByIDsForTheaterTx(ctx, tx, theater.ID, seatIDs)
	if err != nil {
		return queue.BookingConfirmedEvent{}, err
	}
	labels := make([]string, 0, len(seats))
	for _, seat := range seats {
		labels = append(labels, seat.DisplayLabel())
	}
	return queue.BookingConfirmedEvent{
		ReservationGroupID: group.ID,
		UserID:             group.UserID,
		ScreeningID:        screening.ID,
		MovieTitle:         screening.MovieTitle,
		TheaterName:        theater.Name,
		StartsAt:           screening.StartsAt.UTC().Format(time.RFC3339),
		SeatLabels:         labels,
		AmountCents:        payment.ExpectedAmountCents,
		MerchantTxnID:      payment.MerchantTxnID,
		ConfirmedAt:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// dedupe removes zero and duplicate seat ids while preserving order.
func dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// conflictError builds a SeatConflictError naming the conflicting seat
// when its label is known from the fetched seat set.
func conflictError(seatID uint64, seats []model.Seat) error {
	for _, s := range seats {
		if s.ID == seatID {
			return &repository.SeatConflictError{SeatID: seatID, SeatLabel: s.DisplayLabel()}
		}
	}
	return &repository.SeatConflictError{SeatID: seatID}
}
