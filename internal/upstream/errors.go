package upstream

import "errors"

var (
	// ErrUpstreamUnavailable 电台目录服务不可用（5xx 或网络错误）
	ErrUpstreamUnavailable = errors.New("station directory unavailable")

	// ErrCircuitOpen 熔断器打开
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRateLimitExceeded 速率限制超出
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidResponse 目录返回了无法解析的数据
	ErrInvalidResponse = errors.New("invalid response from station directory")

	// ErrBadStatus 目录返回了非预期的 4xx 状态码
	ErrBadStatus = errors.New("unexpected status from station directory")
)
