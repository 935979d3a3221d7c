package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActivityStore tracks when a user was last seen. The auth middleware uses
// it to reject non-staff users who have been idle longer than the configured
// window, mirroring a session timeout without server-side sessions.
type ActivityStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewActivityStore keeps last-seen marks for ttl; a missing mark counts as
// fresh activity (first request after login).
func NewActivityStore(rdb *redis.Client, ttl time.Duration) *ActivityStore {
	return &ActivityStore{rdb: rdb, ttl: ttl}
}

func (s *ActivityStore) Touch(ctx context.Context, userID int64, now time.Time) error {
	return s.rdb.Set(ctx, KeyLastSeen(userID), now.UTC().Format(time.RFC3339), s.ttl).Err()
}

// LastSeen returns the stored mark, or ok=false when none is stored.
func (s *ActivityStore) LastSeen(ctx context.Context, userID int64) (time.Time, bool, error) {
	v, err := s.rdb.Get(ctx, KeyLastSeen(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, err
	}

	return t, true, nil
}

func (s *ActivityStore) Clear(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, KeyLastSeen(userID)).Err()
}
