package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 泛型包装：缓存里存 JSON。load 返回的错误（包括 not found）不会被缓存。
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		// 缓存内容损坏，直接回源
		return load(ctx)
	}
	return &out, nil
}
