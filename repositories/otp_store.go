package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrOTPStoreUnavailable = errors.New("otp store unavailable")

// RedisOTPStore keeps password-reset OTPs in Redis under otp:<email> with
// a short TTL. A nil client means Redis is down; the reset flow is then
// unavailable rather than silently insecure.
type RedisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (s *RedisOTPStore) Set(ctx context.Context, email, otp string, ttl time.Duration) error {
	if s.client == nil {
		return ErrOTPStoreUnavailable
	}
	return s.client.Set(ctx, "otp:"+email, otp, ttl).Err()
}

func (s *RedisOTPStore) Get(ctx context.Context, email string) (string, error) {
	if s.client == nil {
		return "", ErrOTPStoreUnavailable
	}
	otp, err := s.client.Get(ctx, "otp:"+email).Result()
	if err == redis.Nil {
		return "", nil
	}
	return otp, err
}

func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, "otp:"+email).Err()
}
