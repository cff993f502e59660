package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/config"
)

const (
	courseKeyPrefix = "course:" // course:{id} -> JSON encoded course
	defaultTTL      = 5 * time.Minute
)

// NewRedisClient connects to the configured Redis and pings it
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return client, nil
}

// CourseCache stores single courses in Redis
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCourseCache creates a cache; a non-positive ttl falls back to five minutes
func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CourseCache{client: client, ttl: ttl}
}

func courseKey(id int64) string {
	return courseKeyPrefix + strconv.FormatInt(id, 10)
}

// Get returns the cached course, or nil without error on a miss
func (c *CourseCache) Get(ctx context.Context, id int64) (*models.Course, error) {
	data, err := c.client.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read course %d from cache: %w", id, err)
	}

	var course models.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("failed to decode cached course %d: %w", id, err)
	}
	return &course, nil
}

// Set stores course under its id
func (c *CourseCache) Set(ctx context.Context, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to encode course %d: %w", course.ID, err)
	}
	if err := c.client.Set(ctx, courseKey(course.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache course %d: %w", course.ID, err)
	}
	return nil
}

// Delete invalidates the cached course
func (c *CourseCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, courseKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate course %d: %w", id, err)
	}
	return nil
}

// Ping checks that Redis is reachable
func (c *CourseCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
