// Package redisstore keeps session keys in Redis so several client processes
// on one machine (or a shared dev box) observe the same login.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gongxings/ai-creator/storage"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every transport level failure.
var ErrRedisUnavailable = errors.New("redis unavailable")

var _ storage.Repo = (*Store)(nil)

type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// New wraps an existing client. Keys are stored as "<prefix>:<key>".
func New(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{
		rdb:    rdb,
		prefix: strings.TrimSuffix(prefix, ":"),
	}
}

// Dial opens a client for addr and verifies it with PING.
func Dial(ctx context.Context, addr, password string, db int, prefix string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return New(rdb, prefix), nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
