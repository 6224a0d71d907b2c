// Package redisstore keeps session snapshots in Redis so every replica of the
// console sees the same session state.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"commandcentre/internal/domain"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "commandcentre:session:"

// SessionStore implements gateway.SessionStore on top of Redis.
type SessionStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewSessionStore wraps an existing client. An empty prefix uses DefaultPrefix.
func NewSessionStore(client redis.Cmdable, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{client: client, keyPrefix: prefix}
}

// Options mirrors the connection settings the console exposes.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Dial creates a client and checks the connection.
func Dial(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

func (s *SessionStore) key(id string) string {
	return s.keyPrefix + id
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.Principal, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Principal{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("reading session: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(val, &p); err != nil {
		return domain.Principal{}, fmt.Errorf("decoding session: %w", err)
	}
	return p, nil
}

// Save stores p under id. A non-positive ttl deletes the session, since Redis
// would otherwise keep the key forever.
func (s *SessionStore) Save(ctx context.Context, id string, p domain.Principal, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, id)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), b, ttl).Err(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
