package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxListNameLength 列表名称最大字符数
const MaxListNameLength = 100

// StationList 用户自定义电台列表
type StationList struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	StationIDs []string  `json:"stationIds"` // 按加入时间排序
}

// StationListItem 列表成员，(ListID, StationUUID) 唯一
type StationListItem struct {
	ListID      string    `json:"list_id"`
	StationUUID string    `json:"station_uuid"`
	AddedAt     time.Time `json:"added_at"`
}

// RemoveStationResult 从列表移除电台的结果
// List 为 nil 表示列表不存在或不属于当前用户
type RemoveStationResult struct {
	List    *StationList `json:"list"`
	Removed bool         `json:"removed"`
}

// NormalizeListName 校验并去除列表名称首尾空白
func NormalizeListName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrListNameRequired
	}
	if utf8.RuneCountInString(n) > MaxListNameLength {
		return "", ErrListNameTooLong
	}
	return n, nil
}

// EnsureStationIDs 保证 JSON 输出为 [] 而不是 null
func (l *StationList) EnsureStationIDs() *StationList {
	if l != nil && l.StationIDs == nil {
		l.StationIDs = []string{}
	}
	return l
}
