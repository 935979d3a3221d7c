package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository/memory"
	"github.com/cinebook/cinebook/internal/service/query"
)

func seedSchedule(t *testing.T) (*memory.Store, []int64, int64) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()

	filmID, err := store.Films().Create(ctx, domain.Film{Name: "Dune"})
	require.NoError(t, err)

	redID, err := store.Halls().Create(ctx, domain.Hall{Name: "Red", Size: 10})
	require.NoError(t, err)

	blueID, err := store.Halls().Create(ctx, domain.Hall{Name: "Blue", Size: 20})
	require.NoError(t, err)

	mk := func(hallID int64, price, startTime, endTime string, start, end time.Time) int64 {
		st, _ := domain.ParseTimeOfDay(startTime)
		et, _ := domain.ParseTimeOfDay(endTime)
		id, err := store.Sessions().Create(ctx, domain.Session{
			FilmID:    filmID,
			HallID:    hallID,
			Price:     decimal.RequireFromString(price),
			StartTime: st,
			EndTime:   et,
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)
		return id
	}

	ids := []int64{
		mk(redID, "10.00", "10:00", "12:00", domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30)),
		mk(redID, "15.00", "14:00", "16:00", domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30)),
		mk(blueID, "20.00", "18:00", "20:00", domain.NewDate(2024, 4, 27), domain.NewDate(2024, 4, 27)),
	}
	return store, ids, redID
}

func TestSchedule_NoFilterOrdersByStartTime(t *testing.T) {
	store, ids, _ := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})

	sessions, err := svc.Schedule(context.Background(), domain.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.Equal(t, ids[0], sessions[0].ID)
	require.Equal(t, ids[1], sessions[1].ID)
	require.Equal(t, ids[2], sessions[2].ID)
}

func TestSchedule_DescendingOrder(t *testing.T) {
	store, ids, _ := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})

	sessions, err := svc.Schedule(context.Background(), domain.SessionFilter{OrderDesc: true})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.Equal(t, ids[2], sessions[0].ID)
}

func TestSchedule_FilterByDate(t *testing.T) {
	store, _, _ := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})

	date := domain.NewDate(2024, 5, 1)
	sessions, err := svc.Schedule(context.Background(), domain.SessionFilter{Date: &date})
	require.NoError(t, err)
	require.Empty(t, sessions)

	date = domain.NewDate(2024, 4, 27)
	sessions, err = svc.Schedule(context.Background(), domain.SessionFilter{Date: &date})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
}

func TestSchedule_FilterByHallAndPrice(t *testing.T) {
	store, ids, redID := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})
	ctx := context.Background()

	sessions, err := svc.Schedule(ctx, domain.SessionFilter{HallID: redID})
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	from := decimal.RequireFromString("12.00")
	to := decimal.RequireFromString("18.00")
	sessions, err = svc.Schedule(ctx, domain.SessionFilter{PriceFrom: &from, PriceTo: &to})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, ids[1], sessions[0].ID)
}

func TestSchedule_FilterByTimeWindow(t *testing.T) {
	store, ids, _ := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})

	fromT, _ := domain.ParseTimeOfDay("13:00")
	toT, _ := domain.ParseTimeOfDay("19:00")
	sessions, err := svc.Schedule(context.Background(), domain.SessionFilter{TimeFrom: &fromT, TimeTo: &toT})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, ids[1], sessions[0].ID)
	require.Equal(t, ids[2], sessions[1].ID)
}

func TestGetSession_NotFound(t *testing.T) {
	store, _, _ := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})

	_, err := svc.GetSession(context.Background(), 9999)
	require.ErrorIs(t, err, query.ErrSessionNotFound)
}

func TestUserTickets_NewestFirst(t *testing.T) {
	store, ids, _ := seedSchedule(t)
	svc := query.New(store, nil, query.Config{})
	ctx := context.Background()

	userID, err := store.Users().Create(ctx, domain.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.Tickets().Insert(ctx, domain.Ticket{
			ID:             uuid.New(),
			UserID:         userID,
			SessionID:      ids[0],
			CountOfTickets: 1,
			TotalPrice:     decimal.RequireFromString("10.00"),
			DataSession:    domain.NewDate(2024, 4, 26),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	tickets, err := svc.UserTickets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	require.True(t, tickets[0].CreatedAt.After(tickets[1].CreatedAt))
	require.True(t, tickets[1].CreatedAt.After(tickets[2].CreatedAt))
}
