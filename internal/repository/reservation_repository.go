package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cinetix/booking-backend/internal/model"
)

// ReservationRepo provides persistence for reservation groups and
// their seat claims. A group and its claims are always written inside
// a transaction owned by the booking service; every write method here
// therefore takes an explicit *sql.Tx. The unique key
// uq_claim_screening_seat on reservation_seats(screening_id, seat_id)
// is the commit-time guarantee that no two active reservations share a
// seat: claim rows exist exactly while a non-cancelled group holds the
// seat and are deleted on cancellation.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateTx inserts a new reservation group within the scope of an
// existing transaction and populates the generated ID and timestamps
// on the provided struct. The caller must commit or roll back the
// transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.ReservationGroup) error {
	const q = `INSERT INTO reservation_groups (user_id, screening_id, status) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, g.UserID, g.ScreeningID, g.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	// Query back the row to populate DB-generated timestamps.
	const sel = `SELECT created_at, updated_at FROM reservation_groups WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, g.ID).Scan(&g.CreatedAt, &g.UpdatedAt)
}

// ClaimedSeatIDsTx returns which of the requested seats already carry
// an active claim for the screening. It runs inside the transaction
// that holds the screening row lock, so the answer cannot be
// invalidated by a concurrent booking of the same screening before
// this transaction commits.
func (r *ReservationRepo) ClaimedSeatIDsTx(ctx context.Context, tx *sql.Tx, screeningID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, screeningID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT seat_id FROM reservation_seats
	      WHERE screening_id = ? AND seat_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var claimed []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		claimed = append(claimed, sid)
	}
	return claimed, rows.Err()
}

// CreateSeatsBulkTx inserts the seat claims of a group in a single
// statement. A duplicate-entry error on the (screening_id, seat_id)
// unique key means a racing transaction claimed one of the seats
// between our check and this insert; it is mapped to a
// SeatConflictError so the caller's whole transaction rolls back and
// the client sees the same SeatAlreadyReserved failure as on the
// pre-check path. Passing an empty slice has no effect.
func (r *ReservationRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, claims []model.ReservationSeat) error {
	if len(claims) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_seats (reservation_group_id, screening_id, seat_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(claims)*4)
	for i, c := range claims {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, c.ReservationGroupID, c.ScreeningID, c.SeatID, c.PriceCents)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err, "uq_claim_screening_seat") {
			return &SeatConflictError{SeatID: duplicateSeatID(err)}
		}
		return err
	}
	return nil
}

// duplicateSeatID extracts the seat id from a MySQL duplicate-entry
// message of the form "Duplicate entry '<screening>-<seat>' for key
// ...". Returns 0 when the message does not parse; the conflict error
// then reports without naming the seat.
func duplicateSeatID(err error) uint64 {
	msg := err.Error()
	start := strings.Index(msg, "'")
	if start < 0 {
		return 0
	}
	end := strings.Index(msg[start+1:], "'")
	if end < 0 {
		return 0
	}
	entry := msg[start+1 : start+1+end]
	parts := strings.Split(entry, "-")
	if len(parts) != 2 {
		return 0
	}
	sid, perr := strconv.ParseUint(parts[1], 10, 64)
	if perr != nil {
		return 0
	}
	return sid
}

// GetByIDForUpdateTx loads a reservation group with a row lock so that
// completion and cancellation of the same group are serialized.
// Returns ErrReservationNotFound when the group does not exist.
func (r *ReservationRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ReservationGroup, error) {
	const q = `SELECT id, user_id, screening_id, status, created_at, updated_at
	           FROM reservation_groups WHERE id = ? FOR UPDATE`
	var g model.ReservationGroup
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&g.ID, &g.UserID, &g.ScreeningID, &g.Status, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListSeatsTx returns the seat claims of a group within a transaction.
func (r *ReservationRepo) ListSeatsTx(ctx context.Context, tx *sql.Tx, groupID uint64) ([]model.ReservationSeat, error) {
	const q = `SELECT id, reservation_group_id, screening_id, seat_id, price_cents
	           FROM reservation_seats WHERE reservation_group_id = ?`
	rows, err := tx.QueryContext(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var claims []model.ReservationSeat
	for rows.Next() {
		var c model.ReservationSeat
		if err := rows.Scan(&c.ID, &c.ReservationGroupID, &c.ScreeningID, &c.SeatID, &c.PriceCents); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// UpdateStatusTx transitions a group to the given status.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error {
	const q = `UPDATE reservation_groups SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// ReleaseSeatsTx deletes all seat claims of a group, freeing the seats
// under the unique key for subsequent bookings. Called on
// cancellation; the group row itself stays for audit with status
// CANCELLED.
func (r *ReservationRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, groupID uint64) error {
	const q = `DELETE FROM reservation_seats WHERE reservation_group_id = ?`
	_, err := tx.ExecContext(ctx, q, groupID)
	return err
}

// ReservationDetail is the customer-facing view of one reservation
// group, assembled for listing endpoints.
type ReservationDetail struct {
	ID            uint64    `json:"id"`
	Status        string    `json:"status"`
	MovieTitle    string    `json:"movie_title"`
	StartsAt      time.Time `json:"starts_at"`
	TheaterName   string    `json:"theater_name"`
	Seats         []string  `json:"seats"`
	AmountCents   uint64    `json:"amount_cents"`
	PaymentStatus string    `json:"payment_status"`
	MerchantTxnID string    `json:"merchant_txn_id"`
}

// ListByUser returns all reservation groups of a user, newest first,
// joined with screening, theater and payment information. Seat labels
// are fetched in one extra query across all returned groups.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT g.id, g.status, sc.movie_title, sc.starts_at, t.name,
	                  p.expected_amount_cents, p.status, p.merchant_txn_id
	           FROM reservation_groups g
	           JOIN screenings sc ON sc.id = g.screening_id
	           JOIN theaters t ON t.id = sc.theater_id
	           JOIN payments p ON p.reservation_group_id = g.id
	           WHERE g.user_id = ?
	           ORDER BY g.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.Status, &d.MovieTitle, &d.StartsAt, &d.TheaterName,
			&d.AmountCents, &d.PaymentStatus, &d.MerchantTxnID); err != nil {
			return nil, err
		}
		d.Seats = []string{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	seatQ := `SELECT rs.reservation_group_id, se.row_label, se.col_number
	          FROM reservation_seats rs
	          JOIN seats se ON se.id = rs.seat_id
	          WHERE rs.reservation_group_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY rs.reservation_group_id, se.row_label, se.col_number`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var gid uint64
		var rowLabel string
		var col uint32
		if err := srows.Scan(&gid, &rowLabel, &col); err != nil {
			return nil, err
		}
		if idx, ok := index[gid]; ok {
			details[idx].Seats = append(details[idx].Seats,
				model.Seat{RowLabel: rowLabel, ColNumber: col}.DisplayLabel())
		}
	}
	return details, srows.Err()
}
