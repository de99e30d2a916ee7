package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func paymentLockKey(bookingID string) string {
	return fmt.Sprintf("lock:payment:%s", bookingID)
}

// AcquirePaymentLock attempts to acquire the payment lock for a booking.
// It returns the owner token when acquired and "" when already held.
func (s *LockStore) AcquirePaymentLock(ctx context.Context, bookingID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, paymentLockKey(bookingID), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	return token, nil
}

// ReleasePaymentLock releases the payment lock if token still owns it.
func (s *LockStore) ReleasePaymentLock(ctx context.Context, bookingID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{paymentLockKey(bookingID)}, token).Err()
}
