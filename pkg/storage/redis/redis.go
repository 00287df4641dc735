// Package redis stores autosaved graphs in Redis.
//
// Keys are namespaced with a prefix (default "lineageflow:") so several
// tools can share one database.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/lineageflow/pkg/storage"
)

// DefaultPrefix namespaces keys when Config.Prefix is empty.
const DefaultPrefix = "lineageflow:"

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// Timeout bounds dialing and each command. Zero uses 5 seconds.
	Timeout time.Duration
}

// Store implements storage.Store on a Redis client.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return New(client, cfg.Prefix), nil
}

// New wraps an existing client.
func New(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := storage.RetryWithBackoff(ctx, func() error {
		v, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if err != nil {
			return classify(err)
		}
		data = v
		return nil
	})
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	err := storage.RetryWithBackoff(ctx, func() error {
		return classify(s.client.Set(ctx, s.prefix+key, value, 0).Err())
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// classify marks network failures as retryable.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return storage.Retryable(err)
	}
	return err
}

var _ storage.Store = (*Store)(nil)
