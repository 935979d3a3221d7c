package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
)

type SessionRepo struct {
	db DB
}

func (r *SessionRepo) Create(ctx context.Context, s domain.Session) (int64, error) {
	const op = "postgres.SessionRepo.Create"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO sessions(film_id, hall_id, price, start_minute, end_minute, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		s.FilmID, s.HallID, s.Price, int(s.StartTime), int(s.EndTime), s.StartDate, s.EndDate,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *SessionRepo) Update(ctx context.Context, s domain.Session) error {
	const op = "postgres.SessionRepo.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE sessions
		 SET film_id = $2, hall_id = $3, price = $4,
		     start_minute = $5, end_minute = $6, start_date = $7, end_date = $8
		 WHERE id = $1`,
		s.ID, s.FilmID, s.HallID, s.Price, int(s.StartTime), int(s.EndTime), s.StartDate, s.EndDate,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id int64) (*domain.Session, error) {
	const op = "postgres.SessionRepo.Get"

	s, err := scanSession(r.db.QueryRow(ctx,
		sessionColumns+` WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return s, nil
}

func (r *SessionRepo) List(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error) {
	const op = "postgres.SessionRepo.List"

	q := sessionColumns + ` WHERE TRUE`
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Date != nil {
		p := arg(*f.Date)
		q += fmt.Sprintf(" AND start_date <= %s AND end_date >= %s", p, p)
	}
	if f.HallID != 0 {
		q += " AND hall_id = " + arg(f.HallID)
	}
	if f.PriceFrom != nil {
		q += " AND price >= " + arg(*f.PriceFrom)
	}
	if f.PriceTo != nil {
		q += " AND price <= " + arg(*f.PriceTo)
	}
	if f.TimeFrom != nil {
		q += " AND start_minute >= " + arg(int(*f.TimeFrom))
	}
	if f.TimeTo != nil {
		q += " AND start_minute <= " + arg(int(*f.TimeTo))
	}

	if f.OrderDesc {
		q += " ORDER BY start_minute DESC, id"
	} else {
		q += " ORDER BY start_minute, id"
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return sessions, nil
}

func (r *SessionRepo) Overlapping(
	ctx context.Context,
	hallID int64,
	startDate, endDate time.Time,
	startTime, endTime domain.TimeOfDay,
	excludeID int64,
) ([]domain.Session, error) {
	const op = "postgres.SessionRepo.Overlapping"

	rows, err := r.db.Query(ctx,
		sessionColumns+`
		 WHERE hall_id = $1
		   AND start_date <= $3 AND end_date >= $2
		   AND start_minute <= $5 AND end_minute >= $4
		   AND id <> $6
		 ORDER BY start_minute, id`,
		hallID, startDate, endDate, int(startTime), int(endTime), excludeID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return sessions, nil
}

func (r *SessionRepo) DeleteEndedBefore(ctx context.Context, date time.Time) (int64, error) {
	const op = "postgres.SessionRepo.DeleteEndedBefore"

	tag, err := r.db.Exec(ctx,
		`DELETE FROM sessions WHERE end_date < $1`,
		date,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

const sessionColumns = `SELECT id, film_id, hall_id, price, start_minute, end_minute, start_date, end_date
 FROM sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s                  domain.Session
		startMin, endMin   int
		startDate, endDate time.Time
	)

	if err := row.Scan(
		&s.ID, &s.FilmID, &s.HallID, &s.Price,
		&startMin, &endMin, &startDate, &endDate,
	); err != nil {
		return nil, err
	}

	s.StartTime = domain.TimeOfDay(startMin)
	s.EndTime = domain.TimeOfDay(endMin)
	s.StartDate = domain.DateOf(startDate)
	s.EndDate = domain.DateOf(endDate)

	return &s, nil
}
