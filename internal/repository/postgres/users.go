package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
)

type UserRepo struct {
	db DB
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (int64, error) {
	const op = "postgres.UserRepo.Create"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO users(username, email, password_hash, is_staff, total_spent)
		 VALUES ($1, $2, $3, $4, 0)
		 RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.IsStaff,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgres.UserRepo.Get"
	return r.get(ctx, op, `WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const op = "postgres.UserRepo.GetByUsername"
	return r.get(ctx, op, `WHERE username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgres.UserRepo.GetByEmail"
	return r.get(ctx, op, `WHERE email = $1`, email)
}

// AddSpent is a storage-side atomic add; it never round-trips total_spent
// through application memory, so concurrent bookings by the same user
// across sessions cannot lose updates.
func (r *UserRepo) AddSpent(ctx context.Context, userID int64, amount decimal.Decimal) error {
	const op = "postgres.UserRepo.AddSpent"

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET total_spent = total_spent + $2 WHERE id = $1`,
		userID, amount,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *UserRepo) get(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, is_staff, total_spent FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.TotalSpent)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &u, nil
}
