package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc                *redis.Client
	maxProgressScript string
	expireDuration    time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc: rc,
		maxProgressScript: rc.ScriptLoad(context.Background(), `
			local cur = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
			local new = tonumber(ARGV[2])
			if new > cur then
				redis.call('HSET', KEYS[1], ARGV[1], new)
				return new
			end
			return cur
		`).Val(),
		expireDuration: expireDuration,
	}
}
