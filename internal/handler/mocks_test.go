package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/upstream"
)

// MockFavoriteLibrary 收藏库Mock
type MockFavoriteLibrary struct {
	mock.Mock
}

func (m *MockFavoriteLibrary) List(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteLibrary) Add(ctx context.Context, userID, stationUUID string) ([]string, error) {
	args := m.Called(ctx, userID, stationUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteLibrary) Remove(ctx context.Context, userID, stationUUID string) (*domain.RemoveFavoriteResult, error) {
	args := m.Called(ctx, userID, stationUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoveFavoriteResult), args.Error(1)
}

// MockStationListLibrary 电台列表库Mock
type MockStationListLibrary struct {
	mock.Mock
}

func (m *MockStationListLibrary) Create(ctx context.Context, userID, name string) (*domain.StationList, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationList), args.Error(1)
}

func (m *MockStationListLibrary) ListAll(ctx context.Context, userID string) ([]*domain.StationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StationList), args.Error(1)
}

func (m *MockStationListLibrary) GetDetail(ctx context.Context, userID, listID string) (*domain.StationList, error) {
	args := m.Called(ctx, userID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationList), args.Error(1)
}

func (m *MockStationListLibrary) Rename(ctx context.Context, userID, listID, newName string) (*domain.StationList, error) {
	args := m.Called(ctx, userID, listID, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationList), args.Error(1)
}

func (m *MockStationListLibrary) Delete(ctx context.Context, userID, listID string) (bool, error) {
	args := m.Called(ctx, userID, listID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStationListLibrary) AddStation(ctx context.Context, userID, listID, stationUUID string) (*domain.StationList, error) {
	args := m.Called(ctx, userID, listID, stationUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationList), args.Error(1)
}

func (m *MockStationListLibrary) RemoveStation(ctx context.Context, userID, listID, stationUUID string) (*domain.RemoveStationResult, error) {
	args := m.Called(ctx, userID, listID, stationUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoveStationResult), args.Error(1)
}

// MockLiveStations 在线电台Mock
type MockLiveStations struct {
	mock.Mock
}

func (m *MockLiveStations) Search(ctx context.Context, params upstream.SearchParams) ([]upstream.Station, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.Station), args.Error(1)
}

// stubPinger 固定结果的探活依赖
type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
