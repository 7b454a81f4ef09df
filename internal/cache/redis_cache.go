// Package cache holds the Redis-backed read cache for the course catalog.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akinstitute/liveclass/internal/config"
	"github.com/akinstitute/liveclass/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// CatalogCache caches catalog reads in front of the database.
type CatalogCache interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	SetCourse(ctx context.Context, course *domain.Course, ttl time.Duration) error
	GetList(ctx context.Context, key string) ([]domain.Course, error)
	SetList(ctx context.Context, key string, courses []domain.Course, ttl time.Duration) error
	Invalidate(ctx context.Context, courseID string) error
	Close() error
}

type RedisCatalogCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCatalogCache(cfg config.RedisConfig, prefix string) (*RedisCatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCatalogCache{client: client, prefix: prefix}, nil
}

// Client exposes the underlying connection for components sharing it.
func (c *RedisCatalogCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCatalogCache) courseKey(id string) string {
	return fmt.Sprintf("%s:course:%s", c.prefix, id)
}

func (c *RedisCatalogCache) listKey(key string) string {
	return fmt.Sprintf("%s:list:%s", c.prefix, key)
}

func (c *RedisCatalogCache) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	data, err := c.client.Get(ctx, c.courseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &course, nil
}

func (c *RedisCatalogCache) SetCourse(ctx context.Context, course *domain.Course, ttl time.Duration) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.courseKey(course.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisCatalogCache) GetList(ctx context.Context, key string) ([]domain.Course, error) {
	data, err := c.client.Get(ctx, c.listKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var courses []domain.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return courses, nil
}

func (c *RedisCatalogCache) SetList(ctx context.Context, key string, courses []domain.Course, ttl time.Duration) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached course and every cached list. Any catalog
// write changes list contents, so lists are cleared wholesale.
func (c *RedisCatalogCache) Invalidate(ctx context.Context, courseID string) error {
	keys := []string{c.courseKey(courseID)}

	iter := c.client.Scan(ctx, 0, c.listKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan list keys: %w", err)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}
