package cache

import (
	"golang.org/x/sync/singleflight"
)

// SingleFlight 合并同一 key 的并发回源请求
type SingleFlight struct {
	group singleflight.Group
}

// NewSingleFlight 创建SingleFlight
func NewSingleFlight() *SingleFlight {
	return &SingleFlight{}
}

// DoChan 相同key的并发请求只执行一次，结果通过 channel 返回，调用方可以提前放弃等待
func (s *SingleFlight) DoChan(key string, fn func() (interface{}, error)) <-chan singleflight.Result {
	return s.group.DoChan(key, fn)
}
