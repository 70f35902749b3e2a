package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidConfig    = errors.New("invalid rate limiter configuration")
	ErrStoreUnavailable = errors.New("rate limiter store unavailable")
)

type Config struct {
	Limit  int           `env:"RATE_LIMIT_LOGIN" envDefault:"20"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("limit must be positive"))
	}
	if c.Window <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("window must be positive"))
	}
	return nil
}

// Result describes a single rate limit decision.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request fits in the current window.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long until the window resets, or 0 when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Limiter counts requests per key in fixed windows stored in Redis, so every
// replica of the service shares the same budget.
type Limiter struct {
	client redis.UniversalClient
	cfg    Config
	prefix string
}

// New creates a Limiter. Keys are stored under "ratelimit:" unless prefix is set.
func New(client redis.UniversalClient, cfg Config, prefix string) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &Limiter{client: client, cfg: cfg, prefix: prefix}, nil
}

// Allow consumes one request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	k := l.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.cfg.Window)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	window := ttl.Val()
	if window < 0 {
		window = l.cfg.Window
	}
	return &Result{
		Limit:     l.cfg.Limit,
		Remaining: l.cfg.Limit - int(incr.Val()),
		ResetAt:   time.Now().Add(window),
	}, nil
}

// Reset clears the counter for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
