package postgres

import (
	"context"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
)

type TicketRepo struct {
	db DB
}

func (r *TicketRepo) Insert(ctx context.Context, t domain.Ticket) error {
	const op = "postgres.TicketRepo.Insert"

	_, err := r.db.Exec(ctx,
		`INSERT INTO tickets(id, user_id, session_id, count_of_tickets, total_price, data_session, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, t.SessionID, t.CountOfTickets, t.TotalPrice, t.DataSession, t.CreatedAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *TicketRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	const op = "postgres.TicketRepo.ListByUser"

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, session_id, count_of_tickets, total_price, data_session, created_at
		 FROM tickets
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.SessionID, &t.CountOfTickets,
			&t.TotalPrice, &t.DataSession, &t.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		t.DataSession = domain.DateOf(t.DataSession)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return tickets, nil
}

func (r *TicketRepo) CountBySession(ctx context.Context, sessionID int64) (int64, error) {
	const op = "postgres.TicketRepo.CountBySession"

	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM tickets WHERE session_id = $1`,
		sessionID,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *TicketRepo) CountByHall(ctx context.Context, hallID int64, activeAfter *time.Time) (int64, error) {
	const op = "postgres.TicketRepo.CountByHall"

	q := `SELECT count(*)
	 FROM tickets t
	 JOIN sessions s ON s.id = t.session_id
	 WHERE s.hall_id = $1`
	args := []any{hallID}

	// end_date is inclusive, so a session ending today still counts.
	if activeAfter != nil {
		q += ` AND s.end_date >= $2`
		args = append(args, domain.DateOf(*activeAfter))
	}

	var n int64
	if err := r.db.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
