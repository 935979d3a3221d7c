package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository/memory"
	"github.com/cinebook/cinebook/internal/worker"
)

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	filmID, err := store.Films().Create(ctx, domain.Film{Name: "Dune"})
	require.NoError(t, err)

	hallID, err := store.Halls().Create(ctx, domain.Hall{Name: "Red", Size: 10})
	require.NoError(t, err)

	mk := func(start, end time.Time) int64 {
		id, err := store.Sessions().Create(ctx, domain.Session{
			FilmID:    filmID,
			HallID:    hallID,
			Price:     decimal.RequireFromString("10.00"),
			StartTime: 600,
			EndTime:   720,
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)
		return id
	}

	endedID := mk(domain.NewDate(2024, 4, 1), domain.NewDate(2024, 4, 10))
	liveID := mk(domain.NewDate(2024, 4, 20), domain.NewDate(2024, 5, 10))

	// Stale counter on the ended session, current one on the live session.
	_, err = store.Ledger().OccupiedForUpdate(ctx, endedID, domain.NewDate(2024, 4, 10))
	require.NoError(t, err)
	_, err = store.Ledger().OccupiedForUpdate(ctx, liveID, domain.NewDate(2024, 4, 26))
	require.NoError(t, err)

	userID, err := store.Users().Create(ctx, domain.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, store.Tickets().Insert(ctx, domain.Ticket{
		ID:             uuid.New(),
		UserID:         userID,
		SessionID:      endedID,
		CountOfTickets: 1,
		TotalPrice:     decimal.RequireFromString("10.00"),
		DataSession:    domain.NewDate(2024, 4, 10),
		CreatedAt:      time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC),
	}))

	sw := worker.NewSweeper(store, zap.NewNop(), worker.SweeperConfig{
		Clock: func() time.Time { return time.Date(2024, 4, 26, 3, 0, 0, 0, time.UTC) },
	})

	counters, sessions, err := sw.SweepOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counters)
	require.Equal(t, int64(1), sessions)

	// The ended session and its ticket are gone; the live one survives.
	_, err = store.Sessions().Get(ctx, endedID)
	require.Error(t, err)

	_, err = store.Sessions().Get(ctx, liveID)
	require.NoError(t, err)

	tickets, err := store.Tickets().ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, tickets)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	store := memory.NewStore()
	sw := worker.NewSweeper(store, zap.NewNop(), worker.SweeperConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
