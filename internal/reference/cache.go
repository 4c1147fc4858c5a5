package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	userdomain "github.com/Gorgija/ehour/internal/users/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix          = "ehour:ref:"
	assignmentTypesKey = keyPrefix + "assignment_types"
	rolesKey           = keyPrefix + "roles"
	defaultTTL         = 24 * time.Hour
)

// Cache keeps reference lists in redis. A nil client turns every call into a
// direct load, so the API runs without redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache creates a new Cache
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// AssignmentTypes returns the cached assignment types, calling load on a miss.
func (c *Cache) AssignmentTypes(ctx context.Context, load func(context.Context) ([]assigndomain.ProjectAssignmentType, error)) ([]assigndomain.ProjectAssignmentType, error) {
	return readThrough(ctx, c, assignmentTypesKey, load)
}

// Roles returns the cached roles, calling load on a miss.
func (c *Cache) Roles(ctx context.Context, load func(context.Context) ([]userdomain.Role, error)) ([]userdomain.Role, error) {
	return readThrough(ctx, c, rolesKey, load)
}

// Invalidate drops every cached reference list.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, assignmentTypesKey, rolesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate reference cache: %w", err)
	}
	return nil
}

// readThrough serves key from redis, falling back to load. Redis failures are
// logged and never fail the caller.
func readThrough[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		c.logger.Warn("discarding unreadable reference cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("reference cache unavailable", "key", key, "error", err)
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to store reference cache entry", "key", key, "error", err)
	}
	return out, nil
}
