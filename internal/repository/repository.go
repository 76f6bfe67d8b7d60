package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
)

// FavoriteRepository 收藏仓储接口
type FavoriteRepository interface {
	// Add 插入收藏，已存在时不报错，返回是否真的插入
	Add(ctx context.Context, userID, stationUUID string) (bool, error)
	// Remove 删除收藏，返回是否真的删除
	Remove(ctx context.Context, userID, stationUUID string) (bool, error)
	// ListStationIDs 按收藏时间返回电台 UUID
	ListStationIDs(ctx context.Context, userID string) ([]string, error)
}

// StationListRepository 电台列表仓储接口，所有方法都按 userID 限定归属
type StationListRepository interface {
	Create(ctx context.Context, userID, name string) (*domain.StationList, error)
	// ListByUser 返回用户全部列表（含成员），新建的在前
	ListByUser(ctx context.Context, userID string) ([]*domain.StationList, error)
	// GetByUser 返回列表详情（含成员），不存在或不属于用户时返回 domain.ErrListNotFound
	GetByUser(ctx context.Context, userID, listID string) (*domain.StationList, error)
	Exists(ctx context.Context, userID, listID string) (bool, error)
	Rename(ctx context.Context, userID, listID, name string) (bool, error)
	// Delete 删除列表，成员由外键级联删除
	Delete(ctx context.Context, userID, listID string) (bool, error)
}

// StationListItemRepository 列表成员仓储接口
type StationListItemRepository interface {
	// Add 在用户拥有的列表中加入电台，重复加入不报错
	Add(ctx context.Context, userID, listID, stationUUID string) (bool, error)
	// Remove 从用户拥有的列表中移除电台，不存在时不报错
	Remove(ctx context.Context, userID, listID, stationUUID string) (bool, error)
}

// validListID 非法 UUID 直接视为不存在，避免数据库类型转换报错
func validListID(listID string) bool {
	_, err := uuid.Parse(listID)
	return err == nil
}
