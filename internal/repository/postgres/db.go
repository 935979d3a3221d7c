package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinebook/cinebook/internal/repository"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on a pgx pool. A Store returned by InTx
// is bound to the transaction; everything else runs on the pool directly.
type Store struct {
	pool *pgxpool.Pool
	db   DB // nil outside a transaction
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) handle() DB {
	if s.db != nil {
		return s.db
	}
	return s.pool
}

func (s *Store) Films() repository.FilmRepo       { return &FilmRepo{db: s.handle()} }
func (s *Store) Halls() repository.HallRepo       { return &HallRepo{db: s.handle()} }
func (s *Store) Sessions() repository.SessionRepo { return &SessionRepo{db: s.handle()} }
func (s *Store) Ledger() repository.LedgerRepo    { return &LedgerRepo{db: s.handle()} }
func (s *Store) Tickets() repository.TicketRepo   { return &TicketRepo{db: s.handle()} }
func (s *Store) Users() repository.UserRepo       { return &UserRepo{db: s.handle()} }

// InTx runs fn against a transaction-bound Store. Nested calls reuse the
// open transaction. Row locks taken by fn (ledger FOR UPDATE) are held until
// commit or rollback.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	const op = "postgres.Store.InTx"

	if s.db != nil {
		return fn(ctx, s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, &Store{pool: s.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
