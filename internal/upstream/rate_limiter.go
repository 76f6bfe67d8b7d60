package upstream

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter 目录请求限流器（令牌桶）
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter 创建限流器
// perSecond: 每秒允许的请求数，burst: 突发容量
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = 5
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait 阻塞直到拿到令牌或 ctx 结束
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		return ErrRateLimitExceeded
	}
	return nil
}
