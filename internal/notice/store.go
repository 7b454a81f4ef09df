// Package notice stores the institute-wide broadcast notice shown as a
// ticker on every page. A single notice exists at a time; setting an empty
// text clears it.
package notice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notice is the current broadcast notice.
type Notice struct {
	Text      string    `json:"text"`
	SetBy     string    `json:"set_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store holds the single global notice.
type Store interface {
	Get(ctx context.Context) (Notice, error)
	Set(ctx context.Context, n Notice) error
	Clear(ctx context.Context) error
}

// RedisStore persists the notice so it survives restarts and is shared
// across instances.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context) (Notice, error) {
	data, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Notice{}, fmt.Errorf("failed to get notice from redis: %w", err)
	}
	if len(data) == 0 {
		return Notice{}, nil
	}

	n := Notice{Text: data["text"], SetBy: data["set_by"]}
	if raw, ok := data["updated_at"]; ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			n.UpdatedAt = ts
		}
	}
	return n, nil
}

func (s *RedisStore) Set(ctx context.Context, n Notice) error {
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}
	err := s.client.HSet(ctx, s.key,
		"text", n.Text,
		"set_by", n.SetBy,
		"updated_at", n.UpdatedAt.Format(time.RFC3339),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set notice in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to clear notice in redis: %w", err)
	}
	return nil
}

// MemoryStore keeps the notice in process. Used in tests and when Redis is
// not configured.
type MemoryStore struct {
	mu     sync.RWMutex
	notice Notice
	set    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return Notice{}, nil
	}
	return s.notice, nil
}

func (s *MemoryStore) Set(ctx context.Context, n Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}
	s.notice = n
	s.set = true
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = Notice{}
	s.set = false
	return nil
}
