package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinetix/booking-backend/internal/model"
)

// ScreeningRepo provides read access to screenings. The booking path
// locks the screening row for the duration of the check-then-insert so
// that concurrent bookings for the same screening are serialized; see
// GetByIDForUpdateTx.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo returns a new ScreeningRepo bound to the given database.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo { return &ScreeningRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span multiple repositories.
func (r *ScreeningRepo) DB() *sql.DB { return r.db }

func scanScreening(row *sql.Row) (*model.Screening, error) {
	var s model.Screening
	var genreID sql.NullInt64
	err := row.Scan(&s.ID, &s.TheaterID, &genreID, &s.MovieTitle, &s.StartsAt, &s.Status, &s.BasePriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningUnavailable
		}
		return nil, err
	}
	if genreID.Valid {
		gid := uint64(genreID.Int64)
		s.GenreID = &gid
	}
	return &s, nil
}

// GetByID returns a screening by id, or ErrScreeningUnavailable when
// it does not exist.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	const q = `SELECT id, theater_id, genre_id, movie_title, starts_at, status, base_price_cents
	           FROM screenings WHERE id = ?`
	return scanScreening(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForUpdateTx loads a screening inside the given transaction
// with a row lock (SELECT ... FOR UPDATE). Every booking for a
// screening takes this lock first, which serializes the availability
// check against the seat-claim insert for that screening while leaving
// other screenings unaffected. The unique key on
// reservation_seats(screening_id, seat_id) remains as the commit-time
// backstop. Returns ErrScreeningUnavailable when the row is missing.
func (r *ScreeningRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Screening, error) {
	const q = `SELECT id, theater_id, genre_id, movie_title, starts_at, status, base_price_cents
	           FROM screenings WHERE id = ? FOR UPDATE`
	return scanScreening(tx.QueryRowContext(ctx, q, id))
}

// SeatAvailability describes one seat of a screening's theater along
// with whether an active reservation currently claims it.
type SeatAvailability struct {
	SeatID    uint64         `json:"seat_id"`
	RowLabel  string         `json:"row_label"`
	ColNumber uint32         `json:"col_number"`
	SeatType  model.SeatType `json:"seat_type"`
	Reserved  bool           `json:"reserved"`
}

// ListSeatAvailability returns every seat of the screening's theater
// with its current claim state. Availability is derived on demand from
// reservation_seats instead of being stored per screening; a claim row
// exists exactly while a non-cancelled reservation holds the seat.
func (r *ScreeningRepo) ListSeatAvailability(ctx context.Context, screeningID uint64) ([]SeatAvailability, error) {
	const q = `SELECT se.id, se.row_label, se.col_number, se.seat_type,
	                  rs.id IS NOT NULL
	           FROM screenings sc
	           JOIN seats se ON se.theater_id = sc.theater_id
	           LEFT JOIN reservation_seats rs
	                  ON rs.screening_id = sc.id AND rs.seat_id = se.id
	           WHERE sc.id = ?
	           ORDER BY se.row_label, se.col_number`
	rows, err := r.db.QueryContext(ctx, q, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeatAvailability, 0)
	for rows.Next() {
		var a SeatAvailability
		if err := rows.Scan(&a.SeatID, &a.RowLabel, &a.ColNumber, &a.SeatType, &a.Reserved); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		// distinguish "no seats" from "no screening"
		if _, err := r.GetByID(ctx, screeningID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListUpcoming returns SCHEDULED screenings ordered by start time, for
// the public browse surface.
func (r *ScreeningRepo) ListUpcoming(ctx context.Context) ([]model.Screening, error) {
	const q = `SELECT id, theater_id, genre_id, movie_title, starts_at, status, base_price_cents
	           FROM screenings
	           WHERE status = 'SCHEDULED'
	           ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Screening, 0)
	for rows.Next() {
		var s model.Screening
		var genreID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.TheaterID, &genreID, &s.MovieTitle, &s.StartsAt, &s.Status, &s.BasePriceCents); err != nil {
			return nil, err
		}
		if genreID.Valid {
			gid := uint64(genreID.Int64)
			s.GenreID = &gid
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
