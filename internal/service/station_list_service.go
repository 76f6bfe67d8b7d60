package service

import (
	"context"
	"errors"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/repository"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// StationListService 电台列表服务
// 所有操作都按调用者 userID 校验归属，不属于调用者的列表一律视为不存在
type StationListService struct {
	listRepo repository.StationListRepository
	itemRepo repository.StationListItemRepository
	logger   logger.Logger
}

// NewStationListService 创建电台列表服务
func NewStationListService(listRepo repository.StationListRepository, itemRepo repository.StationListItemRepository, log logger.Logger) *StationListService {
	return &StationListService{
		listRepo: listRepo,
		itemRepo: itemRepo,
		logger:   log.WithFields(logger.String("component", "station_list_service")),
	}
}

// Create 创建列表
func (s *StationListService) Create(ctx context.Context, userID, name string) (*domain.StationList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name, err := domain.NormalizeListName(name)
	if err != nil {
		return nil, err
	}

	list, err := s.listRepo.Create(ctx, userID, name)
	if err != nil {
		return nil, storeError(ctx, s.logger, "station_list.create", userID, "", err)
	}
	return list.EnsureStationIDs(), nil
}

// ListAll 获取用户全部列表
func (s *StationListService) ListAll(ctx context.Context, userID string) ([]*domain.StationList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	lists, err := s.listRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "station_list.list_all", userID, "", err)
	}
	return lists, nil
}

// GetDetail 获取列表详情
func (s *StationListService) GetDetail(ctx context.Context, userID, listID string) (*domain.StationList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.resolve(ctx, "station_list.get", userID, listID)
}

// Rename 重命名列表
func (s *StationListService) Rename(ctx context.Context, userID, listID, newName string) (*domain.StationList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name, err := domain.NormalizeListName(newName)
	if err != nil {
		return nil, err
	}

	updated, err := s.listRepo.Rename(ctx, userID, listID, name)
	if err != nil {
		return nil, storeError(ctx, s.logger, "station_list.rename", userID, listID, err)
	}
	if !updated {
		return nil, domain.ErrListNotFound
	}
	return s.resolve(ctx, "station_list.rename.read_back", userID, listID)
}

// Delete 删除列表，返回是否删除了调用者拥有的列表
func (s *StationListService) Delete(ctx context.Context, userID, listID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	deleted, err := s.listRepo.Delete(ctx, userID, listID)
	if err != nil {
		return false, storeError(ctx, s.logger, "station_list.delete", userID, listID, err)
	}
	return deleted, nil
}

// AddStation 向列表加入电台，先单独校验列表归属
func (s *StationListService) AddStation(ctx context.Context, userID, listID, stationUUID string) (*domain.StationList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	stationUUID, err := domain.NormalizeStationID(stationUUID)
	if err != nil {
		return nil, err
	}

	exists, err := s.listRepo.Exists(ctx, userID, listID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "station_list.add_station.check", userID, listID, err)
	}
	if !exists {
		return nil, domain.ErrListNotFound
	}

	if _, err := s.itemRepo.Add(ctx, userID, listID, stationUUID); err != nil {
		return nil, storeError(ctx, s.logger, "station_list.add_station", userID, listID, err)
	}

	// 插入为零行（重复加入）时读回失败同样按存储错误处理
	return s.resolve(ctx, "station_list.add_station.read_back", userID, listID)
}

// RemoveStation 从列表移除电台
// 列表不属于调用者时返回 {List: nil, Removed: false}
func (s *StationListService) RemoveStation(ctx context.Context, userID, listID, stationUUID string) (*domain.RemoveStationResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	stationUUID, err := domain.NormalizeStationID(stationUUID)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolve(ctx, "station_list.remove_station.check", userID, listID); err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return &domain.RemoveStationResult{List: nil, Removed: false}, nil
		}
		return nil, err
	}

	removed, err := s.itemRepo.Remove(ctx, userID, listID, stationUUID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "station_list.remove_station", userID, listID, err)
	}

	list, err := s.resolve(ctx, "station_list.remove_station.read_back", userID, listID)
	if err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			// 列表在两次查询之间被并发删除
			return &domain.RemoveStationResult{List: nil, Removed: removed}, nil
		}
		return nil, err
	}
	return &domain.RemoveStationResult{List: list, Removed: removed}, nil
}

// resolve 读取列表完整状态，不存在返回 domain.ErrListNotFound
func (s *StationListService) resolve(ctx context.Context, op, userID, listID string) (*domain.StationList, error) {
	list, err := s.listRepo.GetByUser(ctx, userID, listID)
	if errors.Is(err, domain.ErrListNotFound) {
		return nil, domain.ErrListNotFound
	}
	if err != nil {
		return nil, storeError(ctx, s.logger, op, userID, listID, err)
	}
	return list.EnsureStationIDs(), nil
}
