package handler

import (
	"context"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/upstream"
)

// FavoriteLibrary 收藏库，由 service.FavoriteService 实现
type FavoriteLibrary interface {
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, stationUUID string) ([]string, error)
	Remove(ctx context.Context, userID, stationUUID string) (*domain.RemoveFavoriteResult, error)
}

// StationListLibrary 电台列表库，由 service.StationListService 实现
type StationListLibrary interface {
	Create(ctx context.Context, userID, name string) (*domain.StationList, error)
	ListAll(ctx context.Context, userID string) ([]*domain.StationList, error)
	GetDetail(ctx context.Context, userID, listID string) (*domain.StationList, error)
	Rename(ctx context.Context, userID, listID, newName string) (*domain.StationList, error)
	Delete(ctx context.Context, userID, listID string) (bool, error)
	AddStation(ctx context.Context, userID, listID, stationUUID string) (*domain.StationList, error)
	RemoveStation(ctx context.Context, userID, listID, stationUUID string) (*domain.RemoveStationResult, error)
}

// LiveStations 在线电台检索，由 cache.LiveStationCache 实现
type LiveStations interface {
	Search(ctx context.Context, params upstream.SearchParams) ([]upstream.Station, error)
}

// stationRequest 携带电台 UUID 的请求体
type stationRequest struct {
	StationID string `json:"stationId"`
}

// nameRequest 携带列表名称的请求体
type nameRequest struct {
	Name string `json:"name"`
}
