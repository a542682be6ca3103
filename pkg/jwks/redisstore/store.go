// Package redisstore shares cached key sets between processes through Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joeydtaylor/steeze-edge/pkg/codec"
	"github.com/joeydtaylor/steeze-edge/pkg/jwks"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces cache keys.
const DefaultKeyPrefix = "edgeauth:jwks:"

// Config configures a Store.
type Config struct {
	Client    *redis.Client
	KeyPrefix string
}

// Store is a jwks.Store backed by Redis. Entries expire in Redis at their
// ExpiresAt, so a stale entry is normally gone before anyone reads it.
type Store struct {
	rdb    *redis.Client
	prefix string
}

var _ jwks.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, errors.New("redisstore: nil client")
	}
	p := cfg.KeyPrefix
	if p == "" {
		p = DefaultKeyPrefix
	}
	return &Store{rdb: cfg.Client, prefix: p}, nil
}

func (s *Store) key(url string) string { return s.prefix + url }

func (s *Store) Get(ctx context.Context, url string) (*jwks.Entry, error) {
	b, err := s.rdb.Get(ctx, s.key(url)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get: %w", err)
	}
	var e jwks.Entry
	if err := codec.JSONStrict.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("redisstore: decode %s: %w", url, err)
	}
	return &e, nil
}

func (s *Store) Put(ctx context.Context, url string, e *jwks.Entry) error {
	ttl := time.Until(e.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := codec.JSONStrict.Marshal(e)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(url), b, ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set: %w", err)
	}
	return nil
}

// Clear deletes every key under the store's prefix.
func (s *Store) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redisstore: scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }
