package redis

import (
	"fmt"
	"time"

	"github.com/cinebook/cinebook/internal/domain"
)

const ns = "cinebook:v1"

func KeyAvailability(sessionID int64, date time.Time) string {
	return fmt.Sprintf("%s:session:%d:availability:%s", ns, sessionID, domain.FormatDate(date))
}

func KeySchedule(filterHash string) string {
	return fmt.Sprintf("%s:schedule:%s", ns, filterHash)
}

func KeyIdemBooking(sessionID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%d:%s", ns, sessionID, idemKey)
}

func KeyLastSeen(userID int64) string {
	return fmt.Sprintf("%s:user:%d:last_seen", ns, userID)
}

// KeyRateLimitPrefix is the prefix the sliding-window limiter appends its
// per-caller suffix to.
func KeyRateLimitPrefix() string {
	return ns + ":rl"
}
