package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/course-authoring-service/internal/cache"
)

const keyPrefix = "authoring:session:"

// RedisStore keeps session values in the shared cache so any replica can serve
// the next step of a flow.
type RedisStore struct {
	cache cache.CacheService
	ttl   time.Duration
}

func NewRedisStore(c cache.CacheService, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, sessionID, key string, value any) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}
	return s.cache.Set(ctx, redisKey(sessionID, key), value, s.ttl)
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string, dest any) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}
	return notFound(s.cache.Get(ctx, redisKey(sessionID, key), dest))
}

func (s *RedisStore) Take(ctx context.Context, sessionID, key string, dest any) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}
	return notFound(s.cache.Take(ctx, redisKey(sessionID, key), dest))
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}
	return s.cache.Delete(ctx, redisKey(sessionID, key))
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.cache.DeletePattern(ctx, keyPrefix+escapeGlob(sessionID)+":*")
}

func redisKey(sessionID, key string) string {
	return keyPrefix + sessionID + ":" + key
}

func notFound(err error) error {
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrNotFound
	}
	return err
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
