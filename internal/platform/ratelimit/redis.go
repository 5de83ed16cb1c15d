package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Redis is a sliding-window limiter shared across instances, backed by one
// sorted set per key scored by event time in milliseconds.
type Redis struct {
	rdb    goredis.UniversalClient
	cfg    Config
	prefix string
	now    func() time.Time
}

func NewRedis(rdb goredis.UniversalClient, cfg Config, prefix string) *Redis {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &Redis{rdb: rdb, cfg: cfg.normalized(), prefix: prefix, now: time.Now}
}

func (r *Redis) Check(ctx context.Context, key string) (Result, error) {
	now := r.now()
	nowMs := now.UnixMilli()
	windowMs := r.cfg.Window.Milliseconds()
	k := r.prefix + key
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	var card *goredis.IntCmd
	var oldest *goredis.ZSliceCmd
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(nowMs-windowMs, 10))
		card = p.ZCard(ctx, k)
		p.ZAdd(ctx, k, goredis.Z{Score: float64(nowMs), Member: member})
		oldest = p.ZRangeWithScores(ctx, k, 0, 0)
		p.PExpire(ctx, k, r.cfg.Window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("redis rate limit: %w", err)
	}

	res := Result{Limit: r.cfg.Limit}
	resetAt := now.Add(r.cfg.Window)
	if zs := oldest.Val(); len(zs) > 0 {
		resetAt = time.UnixMilli(int64(zs[0].Score)).Add(r.cfg.Window)
	}
	res.ResetAt = resetAt

	count := int(card.Val())
	if count >= r.cfg.Limit {
		// over the limit: the speculative add must not count against the caller
		if err := r.rdb.ZRem(ctx, k, member).Err(); err != nil {
			return Result{}, fmt.Errorf("redis rate limit: %w", err)
		}
		res.RetryAfter = resetAt.Sub(now)
		return res, nil
	}
	res.Allowed = true
	res.Remaining = r.cfg.Limit - count - 1
	return res, nil
}
