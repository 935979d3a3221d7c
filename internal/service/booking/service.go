// Package booking implements the seat-availability and booking core. Both
// transport entry points (the JSON API and the form adapter) call into the
// same Book routine, so identical requests against identical state always
// produce identical decisions.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
	"github.com/cinebook/cinebook/internal/uow"
)

type Config struct {
	// AvailabilityTTL bounds how stale a cached availability read may be.
	AvailabilityTTL time.Duration

	// Clock supplies the wall-clock date that "today"/"tomorrow" resolve
	// against. Tests pin it; production leaves it nil for time.Now.
	Clock func() time.Time
}

type Service struct {
	store   repository.Store
	cache   *redisrepo.Cache
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store repository.Store,
	cache *redisrepo.Cache,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Service{
		store:   store,
		cache:   cache,
		limiter: limiter,
		uow:     uow.New(store),
		cfg:     cfg,
	}
}

// Available returns the number of free seats for the session on the date the
// selector resolves to: hall size minus the occupied counter for that exact
// (session, date), the counter being created at zero on first read.
//
// Returns:
//   - booking.ErrInvalidDateSelector if the selector is not today/tomorrow.
//   - booking.ErrSessionNotFound if the session does not exist.
//   - booking.DateOutOfRangeError if the date is outside the session's range.
func (s *Service) Available(ctx context.Context, sessionID int64, selector domain.DateSelector) (int, error) {
	const op = "service.booking.Available"

	if !selector.Valid() {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidDateSelector)
	}

	date := selector.Resolve(s.cfg.Clock())

	load := func(ctx context.Context) (int, error) {
		var available int
		err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Store) error {
			session, hall, err := sessionWithHall(ctx, tx, sessionID)
			if err != nil {
				return err
			}

			if !session.RunsOn(date) {
				return DateOutOfRangeError{Start: session.StartDate, End: session.EndDate}
			}

			occupied, err := tx.Ledger().OccupiedForUpdate(ctx, sessionID, date)
			if err != nil {
				return err
			}

			available = hall.Size - occupied
			return nil
		})
		return available, err
	}

	if s.cache == nil {
		n, err := load(ctx)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return n, nil
	}

	key := redisrepo.KeyAvailability(sessionID, date)
	n, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.AvailabilityTTL, load)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// Book validates a booking request and atomically commits it: the occupied
// counter for (session, date) is incremented, the user's total_spent grows by
// count * price, and a ticket is inserted, all in one transaction or not at
// all. The counter row is read under a row lock, so the sum of committed
// counts for one (session, date) can never exceed the hall size no matter
// how requests interleave.
//
// Validation runs in a fixed order; each failure is a distinct error kind:
//   - booking.ErrInvalidDateSelector
//   - booking.ErrNonPositiveCount (zero or negative)
//   - booking.ErrSessionNotFound
//   - booking.ErrSoldOut (no seats left at all)
//   - booking.ErrInsufficientSeats (some left, fewer than requested)
//   - booking.DateOutOfRangeError (date outside the session's range)
func (s *Service) Book(
	ctx context.Context,
	sessionID int64,
	selector domain.DateSelector,
	count int,
	userID int64,
	rlKey string,
) (*domain.Ticket, error) {
	const op = "service.booking.Book"

	if !selector.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDateSelector)
	}

	if count <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNonPositiveCount)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	date := selector.Resolve(s.cfg.Clock())

	var ticket domain.Ticket

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx repository.Store,
		after func(uow.AfterCommit),
	) error {
		session, hall, err := sessionWithHall(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		// Lock the counter row before deciding; held until commit.
		occupied, err := tx.Ledger().OccupiedForUpdate(ctx, sessionID, date)
		if err != nil {
			return err
		}

		available := hall.Size - occupied
		if available <= 0 {
			return ErrSoldOut
		}
		if available < count {
			return ErrInsufficientSeats
		}

		if !session.RunsOn(date) {
			return DateOutOfRangeError{Start: session.StartDate, End: session.EndDate}
		}

		if err := tx.Ledger().AddOccupied(ctx, sessionID, date, count); err != nil {
			return err
		}

		totalPrice := session.Price.Mul(decimal.NewFromInt(int64(count)))

		if err := tx.Users().AddSpent(ctx, userID, totalPrice); err != nil {
			return err
		}

		ticket = domain.Ticket{
			ID:             uuid.New(),
			UserID:         userID,
			SessionID:      sessionID,
			CountOfTickets: count,
			TotalPrice:     totalPrice,
			DataSession:    date,
			CreatedAt:      s.cfg.Clock(),
		}

		if err := tx.Tickets().Insert(ctx, ticket); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateAvailability(ctx, sessionID, date)
			}
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ticket, nil
}

func sessionWithHall(ctx context.Context, tx repository.Store, sessionID int64) (*domain.Session, *domain.Hall, error) {
	session, err := tx.Sessions().Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}

	hall, err := tx.Halls().Get(ctx, session.HallID)
	if err != nil {
		return nil, nil, err
	}

	return session, hall, nil
}
