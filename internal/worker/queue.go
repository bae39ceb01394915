package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisQueue implements service.Queue over Redis lists: producers LPUSH,
// the pool BRPOPs.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Enqueue(ctx context.Context, queue string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queue, raw).Err()
}
