package catalog

import (
	"errors"
	"fmt"

	"github.com/cinebook/cinebook/internal/domain"
)

var (
	ErrInvalidDateOrder   = errors.New("Start date must be before end date.")
	ErrNegativePrice      = errors.New("Price cannot be negative.")
	ErrSessionHasBookings = errors.New("Tickets have already been booked for this session!")
	ErrHallHasBookings    = errors.New("Tickets have already been booked in this hall!")

	ErrFilmExists      = errors.New("film already exists")
	ErrHallExists      = errors.New("hall already exists")
	ErrFilmNotFound    = errors.New("film not found")
	ErrHallNotFound    = errors.New("hall not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ScheduleConflictError reports the first existing session whose date range
// and time window both overlap the requested ones.
type ScheduleConflictError struct {
	Start domain.TimeOfDay
	End   domain.TimeOfDay
}

func (e ScheduleConflictError) Error() string {
	return fmt.Sprintf("This hall has a session for that time: %s-%s", e.Start, e.End)
}
