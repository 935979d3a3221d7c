// Package worker runs background maintenance jobs.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
)

// Sweeper periodically drops rows that can never be read again: occupancy
// counters for past dates and sessions whose whole date range has ended.
type Sweeper struct {
	store    repository.Store
	logger   *zap.Logger
	interval time.Duration
	clock    func() time.Time
}

type SweeperConfig struct {
	Interval time.Duration
	Clock    func() time.Time
}

func NewSweeper(store repository.Store, logger *zap.Logger, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Sweeper{
		store:    store,
		logger:   logger,
		interval: cfg.Interval,
		clock:    cfg.Clock,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// SweepOnce runs a single sweep; Run uses it on every tick.
func (s *Sweeper) SweepOnce(ctx context.Context) (counters, sessions int64, err error) {
	today := domain.DateOf(s.clock())

	counters, err = s.store.Ledger().DeleteBefore(ctx, today)
	if err != nil {
		return 0, 0, err
	}

	sessions, err = s.store.Sessions().DeleteEndedBefore(ctx, today)
	if err != nil {
		return counters, 0, err
	}

	return counters, sessions, nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	counters, sessions, err := s.SweepOnce(ctx)
	if err != nil {
		s.logger.Error("sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("sweep complete",
		zap.Int64("counters_deleted", counters),
		zap.Int64("sessions_deleted", sessions),
	)
}
