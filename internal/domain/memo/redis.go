package memo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/dailyword/internal/domain/model"
)

const (
	keyPrefix      = "dailyword:memo:"
	minTTL         = time.Minute
	redisPingLimit = 5 * time.Second
)

// RedisBacking stores memo entries as JSON strings with a TTL.
type RedisBacking struct {
	client *redis.Client
}

// NewRedisBacking wraps an existing client.
func NewRedisBacking(client *redis.Client) *RedisBacking {
	return &RedisBacking{client: client}
}

// DialRedis parses url, tunes the pool and pings the server.
func DialRedis(ctx context.Context, url string) (*RedisBacking, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 1
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = time.Second
	opt.WriteTimeout = time.Second

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingLimit)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBacking{client: client}, nil
}

// Key returns the redis key for date.
func Key(date string) string { return keyPrefix + date }

// Load implements Backing.
func (r *RedisBacking) Load(ctx context.Context, date string) (model.DailyWord, bool, error) {
	raw, err := r.client.Get(ctx, Key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.DailyWord{}, false, nil
	}
	if err != nil {
		return model.DailyWord{}, false, fmt.Errorf("get %s: %w", Key(date), err)
	}

	var word model.DailyWord
	if err := json.Unmarshal(raw, &word); err != nil {
		return model.DailyWord{}, false, fmt.Errorf("decode %s: %w", Key(date), err)
	}
	if word.ActiveDate != date {
		return model.DailyWord{}, false, nil
	}
	return word, true, nil
}

// Save implements Backing. TTLs shorter than a minute are rounded up.
func (r *RedisBacking) Save(ctx context.Context, date string, word model.DailyWord, ttl time.Duration) error {
	raw, err := json.Marshal(word)
	if err != nil {
		return fmt.Errorf("encode %s: %w", Key(date), err)
	}
	if ttl < minTTL {
		ttl = minTTL
	}
	if err := r.client.Set(ctx, Key(date), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", Key(date), err)
	}
	return nil
}

// Close releases the client.
func (r *RedisBacking) Close() error {
	return r.client.Close()
}
