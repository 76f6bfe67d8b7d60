package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
)

// MockFavoriteRepository 收藏仓储Mock
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, stationUUID string) (bool, error) {
	args := m.Called(ctx, userID, stationUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, stationUUID string) (bool, error) {
	args := m.Called(ctx, userID, stationUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ListStationIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockStationListRepository 电台列表仓储Mock
type MockStationListRepository struct {
	mock.Mock
}

func (m *MockStationListRepository) Create(ctx context.Context, userID, name string) (*domain.StationList, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationList), args.Error(1)
}

func (m *MockStationListRepository) ListByUser(ctx context.Context, userID string) ([]*domain.StationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StationList), args.Error(1)
}

func (m *MockStationListRepository) GetByUser(ctx context.Context, userID, listID string) (*domain.StationList, error) {
	args := m.Called(ctx, userID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationList), args.Error(1)
}

func (m *MockStationListRepository) Exists(ctx context.Context, userID, listID string) (bool, error) {
	args := m.Called(ctx, userID, listID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStationListRepository) Rename(ctx context.Context, userID, listID, name string) (bool, error) {
	args := m.Called(ctx, userID, listID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStationListRepository) Delete(ctx context.Context, userID, listID string) (bool, error) {
	args := m.Called(ctx, userID, listID)
	return args.Bool(0), args.Error(1)
}

// MockStationListItemRepository 列表成员仓储Mock
type MockStationListItemRepository struct {
	mock.Mock
}

func (m *MockStationListItemRepository) Add(ctx context.Context, userID, listID, stationUUID string) (bool, error) {
	args := m.Called(ctx, userID, listID, stationUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStationListItemRepository) Remove(ctx context.Context, userID, listID, stationUUID string) (bool, error) {
	args := m.Called(ctx, userID, listID, stationUUID)
	return args.Bool(0), args.Error(1)
}
