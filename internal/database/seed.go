package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Seed populates an empty database with a small development dataset: a few
// genres, two theaters with seat maps and a handful of upcoming screenings.
// It is a no-op when theaters already exist, so it is safe to call on every
// startup in dev.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM theaters`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	genres := []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi"}
	genreIDs := make(map[string]int64, len(genres))
	for _, g := range genres {
		res, err := tx.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, g)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		genreIDs[g] = id
	}

	theaters := []struct {
		name  string
		ttype string
		rows  int
		cols  int
	}{
		{"Hall 1", "TWO_D", 8, 10},
		{"IMAX Hall", "IMAX", 10, 12},
	}
	theaterIDs := make([]int64, 0, len(theaters))
	for _, t := range theaters {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO theaters (name, theater_type, seat_count) VALUES (?, ?, ?)`,
			t.name, t.ttype, t.rows*t.cols)
		if err != nil {
			return err
		}
		tid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		theaterIDs = append(theaterIDs, tid)
		for r := 0; r < t.rows; r++ {
			rowLabel := string(rune('A' + r))
			for c := 1; c <= t.cols; c++ {
				// back rows are premium, the last one is a couch row
				seatType := "NORMAL"
				switch {
				case r == t.rows-1:
					seatType = "ROOM"
				case r >= t.rows-3:
					seatType = "PREMIUM"
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO seats (theater_id, row_label, col_number, seat_type) VALUES (?, ?, ?, ?)`,
					tid, rowLabel, c, seatType); err != nil {
					return err
				}
			}
		}
	}

	screenings := []struct {
		theater    int64
		genre      string
		title      string
		startsIn   time.Duration
		priceCents uint64
	}{
		{theaterIDs[0], "Comedy", "The Grand Opening", 24 * time.Hour, 1200},
		{theaterIDs[0], "Drama", "Winter Light", 48 * time.Hour, 1200},
		{theaterIDs[1], "Sci-Fi", "Event Horizon Redux", 24 * time.Hour, 1500},
	}
	for _, s := range screenings {
		startsAt := time.Now().UTC().Add(s.startsIn).Truncate(time.Minute)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screenings (theater_id, genre_id, movie_title, starts_at, status, base_price_cents)
			 VALUES (?, ?, ?, ?, 'SCHEDULED', ?)`,
			s.theater, genreIDs[s.genre], s.title, startsAt, s.priceCents); err != nil {
			return fmt.Errorf("seed screening %q: %w", s.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
