// Package query serves the read side: the schedule listing with its filters
// and a user's booked tickets.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
)

type Config struct {
	ScheduleTTL time.Duration
}

type Service struct {
	store repository.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store repository.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.ScheduleTTL <= 0 {
		cfg.ScheduleTTL = 15 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// Schedule lists sessions matching the filter, cached briefly per distinct
// filter. The caller resolves the date selector before building the filter.
func (s *Service) Schedule(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error) {
	const op = "service.query.Schedule"

	load := func(ctx context.Context) ([]domain.Session, error) {
		return s.store.Sessions().List(ctx, f)
	}

	if s.cache == nil {
		sessions, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return sessions, nil
	}

	sessions, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeySchedule(filterHash(f)),
		s.cfg.ScheduleTTL,
		load,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}

func (s *Service) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	const op = "service.query.GetSession"

	sess, err := s.store.Sessions().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}

func (s *Service) ListHalls(ctx context.Context) ([]domain.Hall, error) {
	const op = "service.query.ListHalls"

	halls, err := s.store.Halls().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return halls, nil
}

func (s *Service) ListFilms(ctx context.Context) ([]domain.Film, error) {
	const op = "service.query.ListFilms"

	films, err := s.store.Films().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return films, nil
}

// UserTickets lists the user's tickets, newest first.
func (s *Service) UserTickets(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	const op = "service.query.UserTickets"

	tickets, err := s.store.Tickets().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tickets, nil
}

func filterHash(f domain.SessionFilter) string {
	s := fmt.Sprintf("%v|%d|%v|%v|%v|%v|%v",
		f.Date, f.HallID, f.PriceFrom, f.PriceTo, f.TimeFrom, f.TimeTo, f.OrderDesc)
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
