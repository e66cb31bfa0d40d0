package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinetix/booking-backend/internal/model"
)

// SeatRepo provides read access to seats. Seats are immutable once
// seeded, so there are no write methods here; seeding happens in the
// database package.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// ListByTheater returns all seats of a theater ordered by row and
// column, for layout display.
func (r *SeatRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Seat, error) {
	const q = `SELECT id, theater_id, row_label, col_number, seat_type
	           FROM seats WHERE theater_id = ?
	           ORDER BY row_label, col_number`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.RowLabel, &s.ColNumber, &s.Type); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetByIDsForTheaterTx fetches the requested seats within a
// transaction, restricted to the given theater. When any requested id
// is missing from the result the seat either does not exist or belongs
// to a different theater; the caller detects that by comparing lengths
// and fails the booking with ErrSeatUnknown. Passing an empty slice
// returns an empty slice.
func (r *SeatRepo) GetByIDsForTheaterTx(ctx context.Context, tx *sql.Tx, theaterID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return []model.Seat{}, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, theaterID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, theater_id, row_label, col_number, seat_type
	      FROM seats
	      WHERE theater_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY row_label, col_number`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.RowLabel, &s.ColNumber, &s.Type); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
