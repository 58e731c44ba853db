// Package redisotp keeps OTP challenges in redis instead of the database.
// Expiry is delegated to key TTLs; consumption uses GETDEL so a code can
// only be taken once.
package redisotp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mater/internal/domain"
	"mater/internal/store"
)

const defaultPrefix = "mater:otp"

type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

func New(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb, prefix: defaultPrefix}
}

func (s *Store) codeKey(userID domain.UserID, code string) string {
	return s.prefix + ":" + userID.String() + ":" + code
}

func (s *Store) userKey(userID domain.UserID) string {
	return s.prefix + ":user:" + userID.String()
}

func (s *Store) Create(ctx context.Context, c *domain.OTPChallenge) error {
	if c.ID == (domain.ChallengeID{}) {
		c.ID = domain.NewID()
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ttl := time.Until(c.ExpiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}

	key := s.codeKey(c.UserID, c.Code)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, ttl)
		pipe.SAdd(ctx, s.userKey(c.UserID), key)
		pipe.Expire(ctx, s.userKey(c.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis otp create: %w", err)
	}
	return nil
}

func (s *Store) Consume(ctx context.Context, userID domain.UserID, code string) (*domain.OTPChallenge, error) {
	key := s.codeKey(userID, code)
	data, err := s.rdb.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis otp consume: %w", err)
	}
	s.rdb.SRem(ctx, s.userKey(userID), key)

	var c domain.OTPChallenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("redis otp decode: %w", err)
	}
	return &c, nil
}

// PurgeExpired is a no-op; redis evicts expired keys itself.
func (s *Store) PurgeExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *Store) DeleteByUser(ctx context.Context, userID domain.UserID) error {
	keys, err := s.rdb.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis otp list: %w", err)
	}
	keys = append(keys, s.userKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}
