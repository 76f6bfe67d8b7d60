package cache

import (
	"net/url"
	"strconv"
)

// DefaultSearchLimit 未指定或非正数时使用的检索条数
const DefaultSearchLimit = 100

const searchKeyPrefix = "stations:search"

// NormalizeLimit 把 nil 或 <=0 的 limit 规范为默认值
func NormalizeLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return DefaultSearchLimit
	}
	return *limit
}

// SearchKey 生成检索缓存 key：stations:search:<limit>:<name>:<tag>
// nil 与空串等价，name/tag 经过 URL 转义，避免分隔符冲突
func SearchKey(limit int, name, tag *string) string {
	return searchKeyPrefix + ":" + strconv.Itoa(limit) + ":" + url.QueryEscape(deref(name)) + ":" + url.QueryEscape(deref(tag))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
