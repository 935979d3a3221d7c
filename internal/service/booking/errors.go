package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
)

// The messages below are the stable user-facing strings for each error kind;
// the transport surfaces them verbatim.
var (
	ErrInvalidDateSelector = errors.New("Enter correct day in url 'today' or 'tomorrow'")
	ErrMissingCount        = errors.New("Enter value for 'count_of_tickets'!")
	ErrNonPositiveCount    = errors.New("Count of tickets must be greater than zero!")
	ErrSoldOut             = errors.New("All tickets for this session have already been sold!")
	ErrInsufficientSeats   = errors.New("Not enough available seats!")
	ErrSessionNotFound     = errors.New("session not found")
)

// DateOutOfRangeError says the resolved booking date falls outside the
// session's date range, naming the valid range.
type DateOutOfRangeError struct {
	Start time.Time
	End   time.Time
}

func (e DateOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"There is not session on this date! Available dates %s to %s",
		domain.FormatDate(e.Start), domain.FormatDate(e.End),
	)
}
