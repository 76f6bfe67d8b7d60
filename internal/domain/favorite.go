package domain

import (
	"strings"
	"time"
)

// MaxStationIDLength 电台 UUID 最大长度
const MaxStationIDLength = 128

// Favorite 收藏实体，(UserID, StationUUID) 唯一
type Favorite struct {
	UserID      string    `json:"user_id"`
	StationUUID string    `json:"station_uuid"`
	CreatedAt   time.Time `json:"created_at"`
}

// RemoveFavoriteResult 取消收藏结果
type RemoveFavoriteResult struct {
	List    []string `json:"list"`
	Removed bool     `json:"removed"` // 是否真的删除了一行
}

// NormalizeStationID 校验并规整电台 UUID
func NormalizeStationID(stationUUID string) (string, error) {
	id := strings.TrimSpace(stationUUID)
	if id == "" {
		return "", ErrStationIDRequired
	}
	if len(id) > MaxStationIDLength {
		return "", ErrStationIDTooLong
	}
	return id, nil
}
