package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinebook/cinebook/internal/domain"
)

// Store is the persistence surface the services run against. The postgres
// implementation backs production; the memory implementation backs tests.
//
// InTx runs fn against a transaction-bound view of the same Store. Row locks
// taken inside fn are held until it returns; fn returning an error rolls the
// whole unit back.
type Store interface {
	Films() FilmRepo
	Halls() HallRepo
	Sessions() SessionRepo
	Ledger() LedgerRepo
	Tickets() TicketRepo
	Users() UserRepo

	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type FilmRepo interface {
	Create(ctx context.Context, f domain.Film) (int64, error)
	List(ctx context.Context) ([]domain.Film, error)
}

type HallRepo interface {
	Create(ctx context.Context, h domain.Hall) (int64, error)
	Update(ctx context.Context, h domain.Hall) error
	Get(ctx context.Context, id int64) (*domain.Hall, error)
	List(ctx context.Context) ([]domain.Hall, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s domain.Session) (int64, error)
	Update(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error)

	// Overlapping returns sessions in the hall whose date range and time
	// window both intersect the given ones (inclusive on all ends),
	// ordered by start time. excludeID skips the session being updated.
	Overlapping(
		ctx context.Context,
		hallID int64,
		startDate, endDate time.Time,
		startTime, endTime domain.TimeOfDay,
		excludeID int64,
	) ([]domain.Session, error)

	// DeleteEndedBefore removes sessions whose end_date is before the given
	// date, cascading to their ledger rows and tickets.
	DeleteEndedBefore(ctx context.Context, date time.Time) (int64, error)
}

type LedgerRepo interface {
	// OccupiedForUpdate returns the occupied count for (session, date),
	// creating a zero-valued row when none exists yet. Called inside InTx
	// the row stays locked until the transaction ends, which is what
	// serializes concurrent bookings for the same pair.
	OccupiedForUpdate(ctx context.Context, sessionID int64, date time.Time) (int, error)

	AddOccupied(ctx context.Context, sessionID int64, date time.Time, n int) error

	// DeleteBefore removes ledger rows dated before the given date.
	DeleteBefore(ctx context.Context, date time.Time) (int64, error)
}

type TicketRepo interface {
	Insert(ctx context.Context, t domain.Ticket) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	CountBySession(ctx context.Context, sessionID int64) (int64, error)

	// CountByHall counts tickets across all sessions of the hall. When
	// activeAfter is non-nil only tickets of sessions ending after that
	// date are counted.
	CountByHall(ctx context.Context, hallID int64, activeAfter *time.Time) (int64, error)
}

type UserRepo interface {
	Create(ctx context.Context, u domain.User) (int64, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// AddSpent increments total_spent atomically on the storage side; it is
	// never a fetch-then-write-back of an in-memory value.
	AddSpent(ctx context.Context, userID int64, amount decimal.Decimal) error
}
