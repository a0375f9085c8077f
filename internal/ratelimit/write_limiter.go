package ratelimit

import (
	"context"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/housing/internal/config"
	"go.uber.org/zap"
)

const keyWritePrefix = "housing:ratelimit:write:"

var ErrTooManyRequests = errors.New("too_many_requests")

// WriteLimiter throttles record writes per client. A nil *WriteLimiter
// allows everything.
type WriteLimiter struct {
	client *redis.Client
	bucket *TokenBucket
	log    *zap.Logger

	rate  float64
	burst int
}

// NewWriteLimiter returns nil when no Redis address is configured.
func NewWriteLimiter(cfg config.Config, log *zap.Logger) (*WriteLimiter, error) {
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil, nil
	}
	if cfg.RateLimit.Rate <= 0 || cfg.RateLimit.Burst <= 0 {
		return nil, errors.New("write rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})

	return newWriteLimiter(client, cfg.RateLimit.Rate, cfg.RateLimit.Burst, log), nil
}

func newWriteLimiter(client *redis.Client, rate float64, burst int, log *zap.Logger) *WriteLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &WriteLimiter{
		client: client,
		bucket: NewTokenBucket(client),
		log:    log.Named("ratelimit"),
		rate:   rate,
		burst:  burst,
	}
}

func (l *WriteLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow consumes one token for the client. Redis failures let the request
// through and are logged.
func (l *WriteLimiter) Allow(ctx context.Context, clientID string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}

	res, err := l.bucket.Allow(ctx, keyWritePrefix+strings.TrimSpace(clientID), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return &RateLimitResult{Allowed: true, Limit: l.burst}, nil
	}
	if !res.Allowed {
		return res, ErrTooManyRequests
	}
	return res, nil
}

func (l *WriteLimiter) Close() error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Close()
}
