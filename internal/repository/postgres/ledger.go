package postgres

import (
	"context"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
)

type LedgerRepo struct {
	db DB
}

// OccupiedForUpdate reads the occupied counter for (session, date), creating
// a zero-valued row first when none exists. Inside a transaction the
// SELECT .. FOR UPDATE keeps the row locked until commit, so concurrent
// bookings for the same pair serialize on this call.
func (r *LedgerRepo) OccupiedForUpdate(ctx context.Context, sessionID int64, date time.Time) (int, error) {
	const op = "postgres.LedgerRepo.OccupiedForUpdate"

	date = domain.DateOf(date)

	if _, err := r.db.Exec(ctx,
		`INSERT INTO available_seats(session_id, date, occupied_seats)
		 VALUES ($1, $2, 0)
		 ON CONFLICT (session_id, date) DO NOTHING`,
		sessionID, date,
	); err != nil {
		return 0, wrapDBErr(op, err)
	}

	var occupied int
	err := r.db.QueryRow(ctx,
		`SELECT occupied_seats
		 FROM available_seats
		 WHERE session_id = $1 AND date = $2
		 FOR UPDATE`,
		sessionID, date,
	).Scan(&occupied)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return occupied, nil
}

func (r *LedgerRepo) AddOccupied(ctx context.Context, sessionID int64, date time.Time, n int) error {
	const op = "postgres.LedgerRepo.AddOccupied"

	_, err := r.db.Exec(ctx,
		`UPDATE available_seats
		 SET occupied_seats = occupied_seats + $3
		 WHERE session_id = $1 AND date = $2`,
		sessionID, domain.DateOf(date), n,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *LedgerRepo) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	const op = "postgres.LedgerRepo.DeleteBefore"

	tag, err := r.db.Exec(ctx,
		`DELETE FROM available_seats WHERE date < $1`,
		domain.DateOf(date),
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
