package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"invitame/internal/domains"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "invitame:draft:"

// RedisStore keeps drafts as JSON strings with a sliding TTL.
type RedisStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewRedisClient opens a client and checks it answers.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (domains.Draft, bool, error) {
	raw, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domains.Draft{}, false, nil
	}
	if err != nil {
		return domains.Draft{}, false, fmt.Errorf("get draft: %w", err)
	}
	var d domains.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return domains.Draft{}, false, fmt.Errorf("decode draft: %w", err)
	}
	return d, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, d domains.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.rdb.Set(ctx, key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set draft: %w", err)
	}
	return nil
}

// Merge reads, patches and writes back the draft. Concurrent merges from two
// tabs are last write wins.
func (s *RedisStore) Merge(ctx context.Context, sessionID string, patch domains.DraftPatch) (domains.Draft, error) {
	d, _, err := s.Get(ctx, sessionID)
	if err != nil {
		return domains.Draft{}, err
	}
	d = d.Apply(patch)
	if err := s.Set(ctx, sessionID, d); err != nil {
		return domains.Draft{}, err
	}
	return d, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
