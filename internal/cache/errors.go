package cache

import "errors"

var (
	// ErrCacheMiss 缓存未命中
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidData 缓存内容无法解码
	ErrInvalidData = errors.New("invalid cache data")

	// ErrDirectory 电台目录调用失败，调用方应映射为 500
	ErrDirectory = errors.New("station directory error")
)
