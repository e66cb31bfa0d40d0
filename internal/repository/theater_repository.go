package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinetix/booking-backend/internal/model"
)

// TheaterRepo provides read access to theaters. Theaters are seeded
// reference data; the booking path only needs their type for pricing.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo returns a new TheaterRepo bound to the given database.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// List returns all theaters ordered by name.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
	const q = `SELECT id, name, theater_type, seat_count FROM theaters ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	theaters := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.SeatCount); err != nil {
			return nil, err
		}
		theaters = append(theaters, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return theaters, nil
}

// GetByIDTx returns a theater within the scope of an existing
// transaction. The booking path uses this to read the theater type
// after locking the screening row, so the multiplier it prices with is
// the one visible to the serialized transaction.
func (r *TheaterRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Theater, error) {
	const q = `SELECT id, name, theater_type, seat_count FROM theaters WHERE id = ?`
	var t model.Theater
	err := tx.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Type, &t.SeatCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningUnavailable
		}
		return nil, err
	}
	return &t, nil
}
