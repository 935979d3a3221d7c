package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateSelector is the two-valued choice a caller uses to pick the booking
// date. Anything else is rejected before the core does any work.
type DateSelector string

const (
	SelectToday    DateSelector = "today"
	SelectTomorrow DateSelector = "tomorrow"
)

func (s DateSelector) Valid() bool {
	return s == SelectToday || s == SelectTomorrow
}

// Resolve turns the selector into a concrete calendar date relative to now.
func (s DateSelector) Resolve(now time.Time) time.Time {
	d := DateOf(now)
	if s == SelectTomorrow {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

type Film struct {
	ID    int64
	Name  string
	Genre string
	Image string
}

type Hall struct {
	ID   int64
	Name string
	Size int
}

// Session is a recurring daily screening of a film in a hall: it plays on
// every date in [StartDate, EndDate] during the [StartTime, EndTime] window.
type Session struct {
	ID        int64
	FilmID    int64
	HallID    int64
	Price     decimal.Decimal
	StartTime TimeOfDay
	EndTime   TimeOfDay
	StartDate time.Time // calendar date, midnight UTC
	EndDate   time.Time // inclusive
}

// RunsOn reports whether the session plays on the given calendar date.
func (s Session) RunsOn(date time.Time) bool {
	d := DateOf(date)
	return !s.StartDate.After(d) && !s.EndDate.Before(d)
}

// AvailableSeats is the per-(session, date) occupancy counter, created lazily
// on the first read for that date.
type AvailableSeats struct {
	SessionID     int64
	Date          time.Time
	OccupiedSeats int
}

// Ticket is the immutable receipt of a booking. TotalPrice snapshots
// count * session price at booking time.
type Ticket struct {
	ID             uuid.UUID
	UserID         int64
	SessionID      int64
	CountOfTickets int
	TotalPrice     decimal.Decimal
	DataSession    time.Time // the calendar date the booking applies to
	CreatedAt      time.Time
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	TotalSpent   decimal.Decimal
}

// SessionFilter narrows schedule listings.
type SessionFilter struct {
	Date      *time.Time // sessions whose date range contains this date
	HallID    int64
	PriceFrom *decimal.Decimal
	PriceTo   *decimal.Decimal
	TimeFrom  *TimeOfDay
	TimeTo    *TimeOfDay
	OrderDesc bool // order by start_time descending
}
