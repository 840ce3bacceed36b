// Package ratelimit applies a Redis-backed token bucket to the command
// stream.  One bucket exists per session (or per session+command,
// depending on configuration), shared across server instances through
// Redis.  The limiter fails open: when Redis is missing or errors, the
// request is allowed, because throttling is surrounding infrastructure
// and must never take bookings down with it.
package ratelimit

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-seat-reservation/internal/config"
)

// bucketScript refills and debits a token bucket atomically inside
// Redis.  State per key: current tokens and the last refill instant.
var bucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter throttles commands per session.  A nil Limiter is valid and
// allows everything.
type Limiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// New returns a Limiter over the given Redis client, or nil when
// limiting is disabled or no client is available.
func New(cfg config.RateLimitConfig, rdb *redis.Client) *Limiter {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &Limiter{cfg: cfg, rdb: rdb}
}

// Allow debits one token from the bucket for the given session and
// command, reporting whether the request may proceed.
func (l *Limiter) Allow(ctx context.Context, sessionID, command string) Decision {
	if l == nil {
		return Decision{Allowed: true}
	}

	key := l.buildKey(sessionID, command)
	args := []interface{}{
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL / time.Second),
	}

	vals, err := bucketScript.Run(ctx, l.rdb, []string{key}, args...).Result()
	if err != nil {
		if l.cfg.Debug {
			log.Printf("ratelimit: redis error for key=%s: %v", key, err)
		}
		return Decision{Allowed: true}
	}

	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		if l.cfg.Debug {
			log.Printf("ratelimit: unexpected script result for key=%s: %#v", key, vals)
		}
		return Decision{Allowed: true}
	}

	d := Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}
	if !d.Allowed && l.cfg.Debug {
		log.Printf("ratelimit: block key=%s remaining=%d retry=%s", key, d.Remaining, d.RetryAfter)
	}
	return d
}

func (l *Limiter) buildKey(sessionID, command string) string {
	parts := []string{l.cfg.Prefix, "session", sessionID}
	if strings.EqualFold(l.cfg.KeyStrategy, "session_command") {
		parts = append(parts, "cmd", command)
	}
	return strings.Join(parts, ":")
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
