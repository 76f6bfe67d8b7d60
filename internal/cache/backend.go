package cache

import (
	"context"
	"time"
)

// Backend 缓存后端
// Get 在 key 不存在或已过期时返回 ErrCacheMiss，其余错误表示后端故障
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
