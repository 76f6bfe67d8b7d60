package service

import (
	"context"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/repository"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// FavoriteService 收藏服务
// 每次写操作后都会重新读取完整收藏列表返回给调用方
type FavoriteService struct {
	repo   repository.FavoriteRepository
	logger logger.Logger
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(repo repository.FavoriteRepository, log logger.Logger) *FavoriteService {
	return &FavoriteService{
		repo:   repo,
		logger: log.WithFields(logger.String("component", "favorite_service")),
	}
}

// List 获取用户收藏的电台 UUID
func (s *FavoriteService) List(ctx context.Context, userID string) ([]string, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.repo.ListStationIDs(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "favorite.list", userID, "", err)
	}
	return ids, nil
}

// Add 添加收藏，重复添加视为成功
func (s *FavoriteService) Add(ctx context.Context, userID, stationUUID string) ([]string, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	stationUUID, err := domain.NormalizeStationID(stationUUID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.repo.Add(ctx, userID, stationUUID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "favorite.add", userID, stationUUID, err)
	}
	if inserted {
		s.logger.WithContext(ctx).Debug("favorite added", logger.String("station_uuid", stationUUID))
	}

	ids, err := s.repo.ListStationIDs(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "favorite.add.read_back", userID, stationUUID, err)
	}
	return ids, nil
}

// Remove 取消收藏，不存在时 Removed 为 false 而不是报错
func (s *FavoriteService) Remove(ctx context.Context, userID, stationUUID string) (*domain.RemoveFavoriteResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	stationUUID, err := domain.NormalizeStationID(stationUUID)
	if err != nil {
		return nil, err
	}

	removed, err := s.repo.Remove(ctx, userID, stationUUID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "favorite.remove", userID, stationUUID, err)
	}

	ids, err := s.repo.ListStationIDs(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "favorite.remove.read_back", userID, stationUUID, err)
	}
	return &domain.RemoveFavoriteResult{List: ids, Removed: removed}, nil
}
