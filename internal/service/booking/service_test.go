package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository/memory"
	"github.com/cinebook/cinebook/internal/service/booking"
)

type fixture struct {
	store     *memory.Store
	svc       *booking.Service
	sessionID int64
	userID    int64
}

// newFixture seeds a hall of 10 seats with one session priced 10.00 running
// 2024-04-25 through 2024-04-30, and pins the clock to 2024-04-26.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()

	filmID, err := store.Films().Create(ctx, domain.Film{Name: "Dune"})
	require.NoError(t, err)

	hallID, err := store.Halls().Create(ctx, domain.Hall{Name: "Red", Size: 10})
	require.NoError(t, err)

	sessionID, err := store.Sessions().Create(ctx, domain.Session{
		FilmID:    filmID,
		HallID:    hallID,
		Price:     decimal.RequireFromString("10.00"),
		StartTime: mustTime(t, "10:00"),
		EndTime:   mustTime(t, "12:00"),
		StartDate: domain.NewDate(2024, 4, 25),
		EndDate:   domain.NewDate(2024, 4, 30),
	})
	require.NoError(t, err)

	userID, err := store.Users().Create(ctx, domain.User{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	svc := booking.New(store, nil, nil, booking.Config{
		Clock: func() time.Time { return time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC) },
	})

	return &fixture{store: store, svc: svc, sessionID: sessionID, userID: userID}
}

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	v, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestAvailable_FreshSessionHasFullHall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.Available(ctx, f.sessionID, domain.SelectToday)
	require.NoError(t, err)
	require.Equal(t, 10, n)
}

func TestAvailable_InvalidSelector(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Available(context.Background(), f.sessionID, "yesterday")
	require.ErrorIs(t, err, booking.ErrInvalidDateSelector)
}

func TestAvailable_SessionNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Available(context.Background(), 9999, domain.SelectToday)
	require.ErrorIs(t, err, booking.ErrSessionNotFound)
}

func TestBook_CapacityLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 11 into a hall of 10: rejected, nothing written.
	_, err := f.svc.Book(ctx, f.sessionID, domain.SelectToday, 11, f.userID, "")
	require.ErrorIs(t, err, booking.ErrInsufficientSeats)

	n, err := f.svc.Available(ctx, f.sessionID, domain.SelectToday)
	require.NoError(t, err)
	require.Equal(t, 10, n)

	// The whole hall in one booking.
	ticket, err := f.svc.Book(ctx, f.sessionID, domain.SelectToday, 10, f.userID, "")
	require.NoError(t, err)
	require.Equal(t, 10, ticket.CountOfTickets)
	require.True(t, ticket.TotalPrice.Equal(decimal.RequireFromString("100.00")),
		"total price %s", ticket.TotalPrice)

	n, err = f.svc.Available(ctx, f.sessionID, domain.SelectToday)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// Even a single extra seat is now a sell-out.
	_, err = f.svc.Book(ctx, f.sessionID, domain.SelectToday, 1, f.userID, "")
	require.ErrorIs(t, err, booking.ErrSoldOut)
}

func TestBook_DatesAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.sessionID, domain.SelectToday, 10, f.userID, "")
	require.NoError(t, err)

	// Tomorrow has its own counter.
	n, err := f.svc.Available(ctx, f.sessionID, domain.SelectTomorrow)
	require.NoError(t, err)
	require.Equal(t, 10, n)
}

func TestBook_NonPositiveCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, count := range []int{0, -3} {
		_, err := f.svc.Book(ctx, f.sessionID, domain.SelectToday, count, f.userID, "")
		require.ErrorIs(t, err, booking.ErrNonPositiveCount)
	}
}

func TestBook_InvalidSelector(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.sessionID, "next-week", 1, f.userID, "")
	require.ErrorIs(t, err, booking.ErrInvalidDateSelector)
}

func TestBook_DateOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Clock on the session's last day: tomorrow resolves past the range.
	svc := booking.New(f.store, nil, nil, booking.Config{
		Clock: func() time.Time { return time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC) },
	})

	_, err := svc.Book(ctx, f.sessionID, domain.SelectTomorrow, 1, f.userID, "")

	var rangeErr booking.DateOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t,
		"There is not session on this date! Available dates 2024-04-25 to 2024-04-30",
		rangeErr.Error(),
	)

	// A failed booking writes nothing.
	n, err := svc.Available(ctx, f.sessionID, domain.SelectToday)
	require.NoError(t, err)
	require.Equal(t, 10, n)
}

func TestBook_AccumulatesTotalSpent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.sessionID, domain.SelectToday, 3, f.userID, "")
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, f.sessionID, domain.SelectTomorrow, 2, f.userID, "")
	require.NoError(t, err)

	u, err := f.store.Users().Get(ctx, f.userID)
	require.NoError(t, err)
	require.True(t, u.TotalSpent.Equal(decimal.RequireFromString("50.00")),
		"total spent %s", u.TotalSpent)
}

func TestBook_TicketRecordsBookingDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.Book(ctx, f.sessionID, domain.SelectTomorrow, 2, f.userID, "")
	require.NoError(t, err)
	require.Equal(t, domain.NewDate(2024, 4, 27), ticket.DataSession)

	tickets, err := f.store.Tickets().ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, ticket.ID, tickets[0].ID)
}

func TestBook_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 25

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(ctx, f.sessionID, domain.SelectToday, 1, f.userID, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var booked, rejected int
	for err := range results {
		switch {
		case err == nil:
			booked++
		case errors.Is(err, booking.ErrSoldOut), errors.Is(err, booking.ErrInsufficientSeats):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 10, booked)
	require.Equal(t, attempts-10, rejected)

	n, err := f.svc.Available(ctx, f.sessionID, domain.SelectToday)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
