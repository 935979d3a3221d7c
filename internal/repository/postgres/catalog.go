package postgres

import (
	"context"
	"fmt"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
)

type FilmRepo struct {
	db DB
}

func (r *FilmRepo) Create(ctx context.Context, f domain.Film) (int64, error) {
	const op = "postgres.FilmRepo.Create"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO films(name, genre, image)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		f.Name, f.Genre, f.Image,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *FilmRepo) List(ctx context.Context) ([]domain.Film, error) {
	const op = "postgres.FilmRepo.List"

	rows, err := r.db.Query(ctx,
		`SELECT id, name, genre, image FROM films ORDER BY name`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var films []domain.Film
	for rows.Next() {
		var f domain.Film
		if err := rows.Scan(&f.ID, &f.Name, &f.Genre, &f.Image); err != nil {
			return nil, wrapDBErr(op, err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return films, nil
}

type HallRepo struct {
	db DB
}

func (r *HallRepo) Create(ctx context.Context, h domain.Hall) (int64, error) {
	const op = "postgres.HallRepo.Create"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO halls(name, size)
		 VALUES ($1, $2)
		 RETURNING id`,
		h.Name, h.Size,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *HallRepo) Update(ctx context.Context, h domain.Hall) error {
	const op = "postgres.HallRepo.Update"

	tag, err := r.db.Exec(ctx,
		`UPDATE halls SET name = $2, size = $3 WHERE id = $1`,
		h.ID, h.Name, h.Size,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *HallRepo) Get(ctx context.Context, id int64) (*domain.Hall, error) {
	const op = "postgres.HallRepo.Get"

	var h domain.Hall
	err := r.db.QueryRow(ctx,
		`SELECT id, name, size FROM halls WHERE id = $1`,
		id,
	).Scan(&h.ID, &h.Name, &h.Size)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &h, nil
}

func (r *HallRepo) List(ctx context.Context) ([]domain.Hall, error) {
	const op = "postgres.HallRepo.List"

	rows, err := r.db.Query(ctx,
		`SELECT id, name, size FROM halls ORDER BY name`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var halls []domain.Hall
	for rows.Next() {
		var h domain.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Size); err != nil {
			return nil, wrapDBErr(op, err)
		}
		halls = append(halls, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return halls, nil
}
