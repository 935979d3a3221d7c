// Package catalog manages the reference data bookings run against: films,
// halls and scheduled sessions, including the hall schedule-conflict check
// and the mutation guards that protect sold capacity.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
	"github.com/cinebook/cinebook/internal/uow"
)

type Config struct {
	// HallGuardActiveOnly scopes the hall-mutation guard to tickets of
	// sessions that have not yet ended; when false any ticket in the hall,
	// however old, blocks hall edits.
	HallGuardActiveOnly bool

	Clock func() time.Time
}

type Service struct {
	store repository.Store
	uow   *uow.UoW
	cfg   Config
}

func New(store repository.Store, cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Service{
		store: store,
		uow:   uow.New(store),
		cfg:   cfg,
	}
}

func (s *Service) CreateFilm(ctx context.Context, f domain.Film) (int64, error) {
	const op = "service.catalog.CreateFilm"

	id, err := s.store.Films().Create(ctx, f)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrFilmExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) ListFilms(ctx context.Context) ([]domain.Film, error) {
	const op = "service.catalog.ListFilms"

	films, err := s.store.Films().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return films, nil
}

func (s *Service) CreateHall(ctx context.Context, h domain.Hall) (int64, error) {
	const op = "service.catalog.CreateHall"

	id, err := s.store.Halls().Create(ctx, h)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrHallExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateHall changes a hall's name or capacity. It refuses when tickets are
// already sold in the hall (scope per Config.HallGuardActiveOnly): capacity
// under sold seats cannot be renegotiated after the fact.
func (s *Service) UpdateHall(ctx context.Context, h domain.Hall) error {
	const op = "service.catalog.UpdateHall"

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		ok, err := s.canMutateHall(ctx, tx, h.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrHallHasBookings
		}

		if err := tx.Halls().Update(ctx, h); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrHallNotFound
			}
			if errors.Is(err, repository.ErrConflict) {
				return ErrHallExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) ListHalls(ctx context.Context) ([]domain.Hall, error) {
	const op = "service.catalog.ListHalls"

	halls, err := s.store.Halls().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return halls, nil
}

// CreateSession schedules a session after validating its window against the
// hall's existing schedule. The validation re-runs inside the transaction so
// two concurrent creates cannot both pass.
func (s *Service) CreateSession(ctx context.Context, sess domain.Session) (int64, error) {
	const op = "service.catalog.CreateSession"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if err := s.validateSchedule(ctx, tx, sess, 0); err != nil {
			return err
		}

		var err error
		id, err = tx.Sessions().Create(ctx, sess)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateSession rewrites a session's schedule. Blocked outright once any
// ticket references the session; the conflict check then runs exactly as on
// create, excluding the session itself.
func (s *Service) UpdateSession(ctx context.Context, sess domain.Session) error {
	const op = "service.catalog.UpdateSession"

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if _, err := tx.Sessions().Get(ctx, sess.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		ok, err := s.canMutateSession(ctx, tx, sess.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSessionHasBookings
		}

		if err := s.validateSchedule(ctx, tx, sess, sess.ID); err != nil {
			return err
		}

		return tx.Sessions().Update(ctx, sess)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) ListSessions(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error) {
	const op = "service.catalog.ListSessions"

	sessions, err := s.store.Sessions().List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}

func (s *Service) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	const op = "service.catalog.GetSession"

	sess, err := s.store.Sessions().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}

// ValidateSchedule runs the schedule checks without writing anything.
//
// Returns:
//   - catalog.ScheduleConflictError naming the first overlapping window.
//   - catalog.ErrInvalidDateOrder if start_date > end_date.
//   - catalog.ErrNegativePrice.
func (s *Service) ValidateSchedule(ctx context.Context, sess domain.Session, excludeID int64) error {
	const op = "service.catalog.ValidateSchedule"

	if err := s.validateSchedule(ctx, s.store, sess, excludeID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CanMutateSession reports whether the session may still be edited, i.e. no
// ticket references it yet.
func (s *Service) CanMutateSession(ctx context.Context, sessionID int64) (bool, error) {
	const op = "service.catalog.CanMutateSession"

	ok, err := s.canMutateSession(ctx, s.store, sessionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// CanMutateHall reports whether the hall may still be edited; see
// Config.HallGuardActiveOnly for the guard's scope.
func (s *Service) CanMutateHall(ctx context.Context, hallID int64) (bool, error) {
	const op = "service.catalog.CanMutateHall"

	ok, err := s.canMutateHall(ctx, s.store, hallID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

func (s *Service) validateSchedule(ctx context.Context, store repository.Store, sess domain.Session, excludeID int64) error {
	overlapping, err := store.Sessions().Overlapping(
		ctx,
		sess.HallID,
		sess.StartDate, sess.EndDate,
		sess.StartTime, sess.EndTime,
		excludeID,
	)
	if err != nil {
		return err
	}

	if len(overlapping) > 0 {
		first := overlapping[0]
		return ScheduleConflictError{Start: first.StartTime, End: first.EndTime}
	}

	if sess.StartDate.After(sess.EndDate) {
		return ErrInvalidDateOrder
	}

	if sess.Price.IsNegative() {
		return ErrNegativePrice
	}

	return nil
}

func (s *Service) canMutateSession(ctx context.Context, store repository.Store, sessionID int64) (bool, error) {
	n, err := store.Tickets().CountBySession(ctx, sessionID)
	if err != nil {
		return false, err
	}

	return n == 0, nil
}

func (s *Service) canMutateHall(ctx context.Context, store repository.Store, hallID int64) (bool, error) {
	var activeAfter *time.Time
	if s.cfg.HallGuardActiveOnly {
		today := domain.DateOf(s.cfg.Clock())
		activeAfter = &today
	}

	n, err := store.Tickets().CountByHall(ctx, hallID, activeAfter)
	if err != nil {
		return false, err
	}

	return n == 0, nil
}
