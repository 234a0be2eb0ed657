package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shoecreatify/shoecreatify-api/config"
)

const keyPrefix = "shoecreatify:ratelimit"

// NewClient connects to redis and pings it once
func NewClient(ctx context.Context, cfg *config.RateLimitConfiguration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// redisCounter keeps fixed window counters shared by every instance
type redisCounter struct {
	client redis.UniversalClient
}

func key(rule Rule, id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, rule.Name, id)
}

func (c *redisCounter) hit(ctx context.Context, rule Rule, id string) (Result, error) {
	k := key(rule, id)
	count, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := c.client.PExpire(ctx, k, rule.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("redis pexpire: %w", err)
		}
	}
	res := newResult(rule, count)
	if !res.Allowed {
		ttl, err := c.client.PTTL(ctx, k).Result()
		if err != nil {
			return res, fmt.Errorf("redis pttl: %w", err)
		}
		if ttl < 0 {
			// key without expiry, left behind by a failed pexpire
			if err := c.client.PExpire(ctx, k, rule.Window).Err(); err != nil {
				return res, fmt.Errorf("redis pexpire: %w", err)
			}
			ttl = rule.Window
		}
		res.RetryAfter = ttl
	}
	return res, nil
}

func (c *redisCounter) undo(ctx context.Context, rule Rule, id string) error {
	if err := c.client.Decr(ctx, key(rule, id)).Err(); err != nil {
		return fmt.Errorf("redis decr: %w", err)
	}
	return nil
}
