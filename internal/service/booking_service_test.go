package service

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/booking-backend/internal/queue"
	"github.com/cinetix/booking-backend/internal/repository"
)

type fakePublisher struct {
	events []queue.BookingConfirmedEvent
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, e queue.BookingConfirmedEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newTestService(t *testing.T) (*BookingService, sqlmock.Sqlmock, *fakePublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	pub := &fakePublisher{}
	svc := NewBookingService(
		db,
		repository.NewUserRepo(db),
		repository.NewScreeningRepo(db),
		repository.NewTheaterRepo(db),
		repository.NewSeatRepo(db),
		repository.NewReservationRepo(db),
		repository.NewPaymentRepo(db),
		pub,
		logger,
	)
	svc.newMerchantTxnID = func() string { return "PAY-test-0001" }
	return svc, mock, pub
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "role", "created_at"}).
		AddRow(9, "Jane Doe", "jane@example.com", "555-0101", "x", "CUSTOMER", time.Now())
}

func screeningRow(startsAt time.Time, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "theater_id", "genre_id", "movie_title", "starts_at", "status", "base_price_cents"}).
		AddRow(7, 2, nil, "Event Horizon Redux", startsAt, status, 1000)
}

func theaterRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "theater_type", "seat_count"}).
		AddRow(2, "IMAX Hall", "IMAX", 120)
}

func seatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "theater_id", "row_label", "col_number", "seat_type"}).
		AddRow(3, 2, "A", 1, "NORMAL").
		AddRow(4, 2, "H", 5, "PREMIUM")
}

func paymentRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reservation_group_id", "merchant_txn_id", "expected_amount_cents", "status",
		"buyer_name", "buyer_phone", "buyer_email", "created_at", "updated_at",
	}).AddRow(21, 11, "PAY-test-0001", 2990, status,
		"Jane Doe", "555-0101", "jane@example.com", time.Now(), time.Now())
}

func groupRow(userID uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "screening_id", "status", "created_at", "updated_at"}).
		AddRow(11, userID, 7, status, time.Now(), time.Now())
}

func TestStartBooking(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)

	t.Run("creates reservation and ready payment in one transaction", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM theaters WHERE id").WillReturnRows(theaterRow())
		mock.ExpectQuery("FROM seats").WillReturnRows(seatRows())
		mock.ExpectQuery("SELECT seat_id FROM reservation_seats").
			WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
		mock.ExpectExec("INSERT INTO reservation_groups").WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectQuery("SELECT created_at, updated_at FROM reservation_groups").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
		mock.ExpectExec("INSERT INTO reservation_seats").WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(21, 1))
		mock.ExpectQuery("SELECT created_at, updated_at FROM payments").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
		mock.ExpectCommit()

		summary, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3, 4})
		require.NoError(t, err)
		assert.Equal(t, uint64(11), summary.ReservationGroupID)
		assert.Equal(t, "PAY-test-0001", summary.PaymentID)
		// normal seat 1000*1.30 + premium seat 1000*1.30*1.30
		assert.Equal(t, uint64(1300+1690), summary.ExpectedAmountCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects seat claimed by another reservation", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM theaters WHERE id").WillReturnRows(theaterRow())
		mock.ExpectQuery("FROM seats").WillReturnRows(seatRows())
		mock.ExpectQuery("SELECT seat_id FROM reservation_seats").
			WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(4))
		mock.ExpectRollback()

		_, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3, 4})
		require.ErrorIs(t, err, repository.ErrSeatAlreadyReserved)
		var conflict *repository.SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, uint64(4), conflict.SeatID)
		assert.Equal(t, "H5", conflict.SeatLabel)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps duplicate key from racing commit to seat conflict", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM theaters WHERE id").WillReturnRows(theaterRow())
		mock.ExpectQuery("FROM seats").WillReturnRows(seatRows())
		mock.ExpectQuery("SELECT seat_id FROM reservation_seats").
			WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
		mock.ExpectExec("INSERT INTO reservation_groups").WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectQuery("SELECT created_at, updated_at FROM reservation_groups").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
		mock.ExpectExec("INSERT INTO reservation_seats").WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '7-3' for key 'reservation_seats.uq_claim_screening_seat'",
		})
		mock.ExpectRollback()

		_, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3, 4})
		require.ErrorIs(t, err, repository.ErrSeatAlreadyReserved)
		var conflict *repository.SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, uint64(3), conflict.SeatID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user fails before any transaction", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnError(sql.ErrNoRows)

		_, err := svc.StartBooking(context.Background(), 404, 7, []uint64{3})
		require.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("screening no longer open", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "ENDED"))
		mock.ExpectRollback()

		_, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3})
		require.ErrorIs(t, err, repository.ErrScreeningUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("screening already started", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").
			WillReturnRows(screeningRow(time.Now().UTC().Add(-time.Hour), "SCHEDULED"))
		mock.ExpectRollback()

		_, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3})
		require.ErrorIs(t, err, repository.ErrScreeningUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown seat for theater", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM theaters WHERE id").WillReturnRows(theaterRow())
		// only one of the two requested seats exists in this theater
		mock.ExpectQuery("FROM seats").WillReturnRows(
			sqlmock.NewRows([]string{"id", "theater_id", "row_label", "col_number", "seat_type"}).
				AddRow(3, 2, "A", 1, "NORMAL"))
		mock.ExpectRollback()

		_, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3, 9999})
		require.ErrorIs(t, err, repository.ErrSeatUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("merchant txn id collision is fatal and rolls everything back", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow())
		mock.ExpectBegin()
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM theaters WHERE id").WillReturnRows(theaterRow())
		mock.ExpectQuery("FROM seats").WillReturnRows(seatRows())
		mock.ExpectQuery("SELECT seat_id FROM reservation_seats").
			WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
		mock.ExpectExec("INSERT INTO reservation_groups").WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectQuery("SELECT created_at, updated_at FROM reservation_groups").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
		mock.ExpectExec("INSERT INTO reservation_seats").WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectExec("INSERT INTO payments").WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'PAY-test-0001' for key 'payments.uq_payment_merchant_txn'",
		})
		mock.ExpectRollback()

		_, err := svc.StartBooking(context.Background(), 9, 7, []uint64{3, 4})
		require.ErrorIs(t, err, repository.ErrMerchantTxnIDCollision)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty seat selection", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.StartBooking(context.Background(), 9, 7, nil)
		require.ErrorIs(t, err, repository.ErrSeatUnknown)
	})
}

func TestCompletePayment(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)

	t.Run("matching amount completes payment and publishes event", func(t *testing.T) {
		svc, mock, pub := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnRows(paymentRow("READY"))
		mock.ExpectQuery("FROM reservation_groups WHERE id = \\? FOR UPDATE").WillReturnRows(groupRow(9, "PENDING"))
		mock.ExpectExec("UPDATE payments SET status").
			WithArgs("COMPLETED", 21).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE reservation_groups SET status").
			WithArgs("PAID", 11).WillReturnResult(sqlmock.NewResult(0, 1))
		// event assembly inside the still-open transaction
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM theaters WHERE id").WillReturnRows(theaterRow())
		mock.ExpectQuery("FROM reservation_seats WHERE reservation_group_id").
			WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_group_id", "screening_id", "seat_id", "price_cents"}).
				AddRow(1, 11, 7, 3, 1300).
				AddRow(2, 11, 7, 4, 1690))
		mock.ExpectQuery("FROM seats").WillReturnRows(seatRows())
		mock.ExpectCommit()

		err := svc.CompletePayment(context.Background(), "PAY-test-0001", 2990)
		require.NoError(t, err)
		require.Len(t, pub.events, 1)
		event := pub.events[0]
		assert.Equal(t, uint64(11), event.ReservationGroupID)
		assert.Equal(t, []string{"A1", "H5"}, event.SeatLabels)
		assert.Equal(t, uint64(2990), event.AmountCents)
		assert.Equal(t, "PAY-test-0001", event.MerchantTxnID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("amount mismatch commits FAILED_VERIFICATION and keeps seats", func(t *testing.T) {
		svc, mock, pub := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnRows(paymentRow("READY"))
		mock.ExpectExec("UPDATE payments SET status").
			WithArgs("FAILED_VERIFICATION", 21).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.CompletePayment(context.Background(), "PAY-test-0001", 100)
		require.ErrorIs(t, err, repository.ErrPaymentAmountMismatch)
		assert.Empty(t, pub.events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeating completion of a completed payment is a no-op", func(t *testing.T) {
		svc, mock, pub := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnRows(paymentRow("COMPLETED"))
		mock.ExpectRollback()

		err := svc.CompletePayment(context.Background(), "PAY-test-0001", 2990)
		require.NoError(t, err)
		assert.Empty(t, pub.events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled payment cannot complete", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnRows(paymentRow("CANCELLED"))
		mock.ExpectRollback()

		err := svc.CompletePayment(context.Background(), "PAY-test-0001", 2990)
		require.ErrorIs(t, err, repository.ErrPaymentNotReady)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown merchant transaction id", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := svc.CompletePayment(context.Background(), "PAY-nope", 2990)
		require.ErrorIs(t, err, repository.ErrPaymentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReportPaymentFailure(t *testing.T) {
	t.Run("failure releases the claimed seats", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnRows(paymentRow("READY"))
		mock.ExpectExec("UPDATE payments SET status").
			WithArgs("FAILED", 21).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE reservation_groups SET status").
			WithArgs("CANCELLED", 11).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM reservation_seats").
			WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := svc.ReportPaymentFailure(context.Background(), "PAY-test-0001")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure after completion is rejected", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM payments WHERE merchant_txn_id").WillReturnRows(paymentRow("COMPLETED"))
		mock.ExpectRollback()

		err := svc.ReportPaymentFailure(context.Background(), "PAY-test-0001")
		require.ErrorIs(t, err, repository.ErrPaymentNotReady)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBooking(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)

	t.Run("owner cancels a pending reservation", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM reservation_groups WHERE id = \\? FOR UPDATE").WillReturnRows(groupRow(9, "PENDING"))
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").WillReturnRows(screeningRow(future, "SCHEDULED"))
		mock.ExpectQuery("FROM payments WHERE reservation_group_id").WillReturnRows(paymentRow("READY"))
		mock.ExpectExec("UPDATE payments SET status").
			WithArgs("CANCELLED", 21).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE reservation_groups SET status").
			WithArgs("CANCELLED", 11).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM reservation_seats").
			WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		require.NoError(t, svc.CancelBooking(context.Background(), 9, 11))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelling somebody else's reservation is forbidden", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM reservation_groups WHERE id = \\? FOR UPDATE").WillReturnRows(groupRow(42, "PENDING"))
		mock.ExpectRollback()

		err := svc.CancelBooking(context.Background(), 9, 11)
		require.ErrorIs(t, err, repository.ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM reservation_groups WHERE id = \\? FOR UPDATE").WillReturnRows(groupRow(9, "CANCELLED"))
		mock.ExpectRollback()

		require.NoError(t, svc.CancelBooking(context.Background(), 9, 11))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancellation after the screening started is rejected", func(t *testing.T) {
		svc, mock, _ := newTestService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM reservation_groups WHERE id = \\? FOR UPDATE").WillReturnRows(groupRow(9, "PENDING"))
		mock.ExpectQuery("FROM screenings WHERE id = \\? FOR UPDATE").
			WillReturnRows(screeningRow(time.Now().UTC().Add(-time.Minute), "SCHEDULED"))
		mock.ExpectRollback()

		err := svc.CancelBooking(context.Background(), 9, 11)
		require.ErrorIs(t, err, repository.ErrScreeningStarted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
