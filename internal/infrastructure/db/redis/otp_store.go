package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/infrastructure/crypto"
)

const defaultOTPTTL = 10 * time.Minute

// OTPStore keeps outstanding one-time passwords in Redis.
// Key format: otp:user:<code> → owning user id, expiring after the TTL.
// GETDEL makes consumption atomic, so a code can be consumed exactly
// once no matter how many verify requests race on it. Issuing a new code
// leaves earlier codes outstanding until their own TTL runs out.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &OTPStore{client: client, ttl: ttl}
}

func (s *OTPStore) Issue(ctx context.Context, userID string) (string, error) {
	code, err := crypto.NewOTPCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(code), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

func (s *OTPStore) Find(ctx context.Context, code string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidOTP
		}
		return "", fmt.Errorf("find otp: %w", err)
	}
	return userID, nil
}

func (s *OTPStore) Consume(ctx context.Context, code string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidOTP
		}
		return "", fmt.Errorf("consume otp: %w", err)
	}
	return userID, nil
}

func (s *OTPStore) key(code string) string {
	return "otp:user:" + code
}
