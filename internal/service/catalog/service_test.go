package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository/memory"
	"github.com/cinebook/cinebook/internal/service/booking"
	"github.com/cinebook/cinebook/internal/service/catalog"
)

func fixedClock() time.Time { return time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC) }

type fixture struct {
	store  *memory.Store
	svc    *catalog.Service
	filmID int64
	hallID int64
}

func newFixture(t *testing.T, cfg catalog.Config) *fixture {
	t.Helper()
	ctx := context.Background()

	if cfg.Clock == nil {
		cfg.Clock = fixedClock
	}

	store := memory.NewStore()
	svc := catalog.New(store, cfg)

	filmID, err := svc.CreateFilm(ctx, domain.Film{Name: "Dune", Genre: "sci-fi"})
	require.NoError(t, err)

	hallID, err := svc.CreateHall(ctx, domain.Hall{Name: "Red", Size: 10})
	require.NoError(t, err)

	return &fixture{store: store, svc: svc, filmID: filmID, hallID: hallID}
}

func (f *fixture) session(price string, startTime, endTime string, startDate, endDate time.Time) domain.Session {
	st, _ := domain.ParseTimeOfDay(startTime)
	et, _ := domain.ParseTimeOfDay(endTime)
	return domain.Session{
		FilmID:    f.filmID,
		HallID:    f.hallID,
		Price:     decimal.RequireFromString(price),
		StartTime: st,
		EndTime:   et,
		StartDate: startDate,
		EndDate:   endDate,
	}
}

func TestCreateFilm_DuplicateName(t *testing.T) {
	f := newFixture(t, catalog.Config{})

	_, err := f.svc.CreateFilm(context.Background(), domain.Film{Name: "Dune"})
	require.ErrorIs(t, err, catalog.ErrFilmExists)
}

func TestCreateSession_Valid(t *testing.T) {
	f := newFixture(t, catalog.Config{})

	id, err := f.svc.CreateSession(context.Background(), f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.NoError(t, err)
	require.NotZero(t, id)
}

// Overlap requires both the date ranges and the daily time windows to
// intersect; either one alone does not conflict.
func TestCreateSession_ConflictRequiresBothOverlaps(t *testing.T) {
	f := newFixture(t, catalog.Config{})
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.NoError(t, err)

	// Same dates, disjoint hours.
	_, err = f.svc.CreateSession(ctx, f.session(
		"10.00", "13:00", "15:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.NoError(t, err)

	// Same hours, disjoint dates.
	_, err = f.svc.CreateSession(ctx, f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 5, 1), domain.NewDate(2024, 5, 5),
	))
	require.NoError(t, err)

	// Both overlap: conflict, naming the existing window.
	_, err = f.svc.CreateSession(ctx, f.session(
		"10.00", "11:00", "13:00",
		domain.NewDate(2024, 4, 28), domain.NewDate(2024, 5, 2),
	))

	var conflict catalog.ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "This hall has a session for that time: 10:00-12:00", conflict.Error())
}

// The conflict check runs before the date-order and price checks, so a
// conflicting request reports the conflict even when its own fields are bad.
func TestCreateSession_ValidationOrder(t *testing.T) {
	f := newFixture(t, catalog.Config{})
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.NoError(t, err)

	bad := f.session(
		"-5.00", "11:00", "13:00",
		domain.NewDate(2024, 4, 28), domain.NewDate(2024, 5, 2),
	)
	_, err = f.svc.CreateSession(ctx, bad)
	var conflict catalog.ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateSession_InvalidDateOrder(t *testing.T) {
	f := newFixture(t, catalog.Config{})

	_, err := f.svc.CreateSession(context.Background(), f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 30), domain.NewDate(2024, 4, 25),
	))
	require.ErrorIs(t, err, catalog.ErrInvalidDateOrder)
}

func TestCreateSession_NegativePrice(t *testing.T) {
	f := newFixture(t, catalog.Config{})

	_, err := f.svc.CreateSession(context.Background(), f.session(
		"-1.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.ErrorIs(t, err, catalog.ErrNegativePrice)
}

func TestUpdateSession_BlockedByTickets(t *testing.T) {
	f := newFixture(t, catalog.Config{})
	ctx := context.Background()

	sess := f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	)
	id, err := f.svc.CreateSession(ctx, sess)
	require.NoError(t, err)

	userID, err := f.store.Users().Create(ctx, domain.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bsvc := booking.New(f.store, nil, nil, booking.Config{Clock: fixedClock})
	_, err = bsvc.Book(ctx, id, domain.SelectToday, 1, userID, "")
	require.NoError(t, err)

	sess.ID = id
	sess.Price = decimal.RequireFromString("12.00")
	err = f.svc.UpdateSession(ctx, sess)
	require.ErrorIs(t, err, catalog.ErrSessionHasBookings)
}

func TestUpdateSession_ExcludesItselfFromConflict(t *testing.T) {
	f := newFixture(t, catalog.Config{})
	ctx := context.Background()

	sess := f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	)
	id, err := f.svc.CreateSession(ctx, sess)
	require.NoError(t, err)

	// Shifting the same session within its own window is not a conflict.
	sess.ID = id
	sess.Price = decimal.RequireFromString("12.00")
	require.NoError(t, f.svc.UpdateSession(ctx, sess))
}

func TestUpdateSession_NotFound(t *testing.T) {
	f := newFixture(t, catalog.Config{})

	sess := f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	)
	sess.ID = 9999
	err := f.svc.UpdateSession(context.Background(), sess)
	require.ErrorIs(t, err, catalog.ErrSessionNotFound)
}

func TestUpdateHall_BlockedByAnyTicket(t *testing.T) {
	f := newFixture(t, catalog.Config{})
	ctx := context.Background()

	id, err := f.svc.CreateSession(ctx, f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.NoError(t, err)

	userID, err := f.store.Users().Create(ctx, domain.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bsvc := booking.New(f.store, nil, nil, booking.Config{Clock: fixedClock})
	_, err = bsvc.Book(ctx, id, domain.SelectToday, 1, userID, "")
	require.NoError(t, err)

	err = f.svc.UpdateHall(ctx, domain.Hall{ID: f.hallID, Name: "Red", Size: 20})
	require.ErrorIs(t, err, catalog.ErrHallHasBookings)
}

// With the active-only guard, tickets of sessions that already ended stop
// blocking hall edits.
func TestUpdateHall_ActiveOnlyGuardIgnoresEndedSessions(t *testing.T) {
	f := newFixture(t, catalog.Config{HallGuardActiveOnly: true})
	ctx := context.Background()

	id, err := f.svc.CreateSession(ctx, f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 30),
	))
	require.NoError(t, err)

	userID, err := f.store.Users().Create(ctx, domain.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bsvc := booking.New(f.store, nil, nil, booking.Config{Clock: fixedClock})
	_, err = bsvc.Book(ctx, id, domain.SelectToday, 1, userID, "")
	require.NoError(t, err)

	// While the session is running the ticket still blocks.
	err = f.svc.UpdateHall(ctx, domain.Hall{ID: f.hallID, Name: "Red", Size: 20})
	require.ErrorIs(t, err, catalog.ErrHallHasBookings)

	// Re-evaluate after the session's end date has passed.
	later := catalog.New(f.store, catalog.Config{
		HallGuardActiveOnly: true,
		Clock:               func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, later.UpdateHall(ctx, domain.Hall{ID: f.hallID, Name: "Red", Size: 20}))
}

// A session whose end date is today is still running and still accepts
// bookings for today, so its tickets keep blocking hall edits.
func TestUpdateHall_ActiveOnlyGuardCoversSessionEndingToday(t *testing.T) {
	f := newFixture(t, catalog.Config{HallGuardActiveOnly: true})
	ctx := context.Background()

	id, err := f.svc.CreateSession(ctx, f.session(
		"10.00", "10:00", "12:00",
		domain.NewDate(2024, 4, 25), domain.NewDate(2024, 4, 26),
	))
	require.NoError(t, err)

	userID, err := f.store.Users().Create(ctx, domain.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bsvc := booking.New(f.store, nil, nil, booking.Config{Clock: fixedClock})
	_, err = bsvc.Book(ctx, id, domain.SelectToday, 1, userID, "")
	require.NoError(t, err)

	err = f.svc.UpdateHall(ctx, domain.Hall{ID: f.hallID, Name: "Red", Size: 3})
	require.ErrorIs(t, err, catalog.ErrHallHasBookings)
}

func TestUpdateHall_NotFound(t *testing.T) {
	f := newFixture(t, catalog.Config{})

	err := f.svc.UpdateHall(context.Background(), domain.Hall{ID: 9999, Name: "Ghost", Size: 5})
	require.ErrorIs(t, err, catalog.ErrHallNotFound)
}
