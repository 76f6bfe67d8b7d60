package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

const listL1 = "6f1c1f2e-8b4b-4b8e-9c55-2a0f3f6b2d11"

func newListService() (*StationListService, *MockStationListRepository, *MockStationListItemRepository) {
	lists := new(MockStationListRepository)
	items := new(MockStationListItemRepository)
	return NewStationListService(lists, items, logger.Nop()), lists, items
}

func sampleList(ids ...string) *domain.StationList {
	return &domain.StationList{
		ID:         listL1,
		UserID:     "u1",
		Name:       "Favorites Radio",
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		StationIDs: ids,
	}
}

func TestStationListService_Create(t *testing.T) {
	ctx := context.Background()
	svc, lists, _ := newListService()

	lists.On("Create", ctx, "u1", "Favorites Radio").Return(sampleList(), nil)

	got, err := svc.Create(ctx, "u1", "  Favorites Radio ")
	require.NoError(t, err)
	assert.Equal(t, "Favorites Radio", got.Name)
	assert.NotNil(t, got.StationIDs)
	assert.Empty(t, got.StationIDs)
}

func TestStationListService_CreateBlankName(t *testing.T) {
	svc, lists, _ := newListService()
	_, err := svc.Create(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, domain.ErrListNameRequired)
	lists.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStationListService_InputLimits(t *testing.T) {
	ctx := context.Background()
	svc, lists, items := newListService()

	_, err := svc.Create(ctx, "u1", strings.Repeat("n", domain.MaxListNameLength+1))
	assert.ErrorIs(t, err, domain.ErrListNameTooLong)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Rename(ctx, "u1", listL1, strings.Repeat("n", domain.MaxListNameLength+1))
	assert.ErrorIs(t, err, domain.ErrListNameTooLong)

	_, err = svc.AddStation(ctx, "u1", listL1, strings.Repeat("s", domain.MaxStationIDLength+1))
	assert.ErrorIs(t, err, domain.ErrStationIDTooLong)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// 超限输入不触达存储
	lists.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	lists.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStationListService_CreateStoreError(t *testing.T) {
	ctx := context.Background()
	svc, lists, _ := newListService()
	lists.On("Create", ctx, "u1", "x").Return(nil, errors.New("disk full"))

	_, err := svc.Create(ctx, "u1", "x")
	assert.True(t, domain.IsStoreError(err))
}

func TestStationListService_GetDetailNotFound(t *testing.T) {
	ctx := context.Background()
	svc, lists, _ := newListService()
	lists.On("GetByUser", ctx, "bob", listL1).Return(nil, domain.ErrListNotFound)

	_, err := svc.GetDetail(ctx, "bob", listL1)
	assert.ErrorIs(t, err, domain.ErrListNotFound)
	assert.False(t, domain.IsStoreError(err))
}

func TestStationListService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("owned", func(t *testing.T) {
		svc, lists, _ := newListService()
		renamed := sampleList("abc")
		renamed.Name = "Night"
		lists.On("Rename", ctx, "u1", listL1, "Night").Return(true, nil)
		lists.On("GetByUser", ctx, "u1", listL1).Return(renamed, nil)

		got, err := svc.Rename(ctx, "u1", listL1, " Night ")
		require.NoError(t, err)
		assert.Equal(t, "Night", got.Name)
		assert.Equal(t, []string{"abc"}, got.StationIDs)
	})

	t.Run("not owned", func(t *testing.T) {
		svc, lists, _ := newListService()
		lists.On("Rename", ctx, "bob", listL1, "Night").Return(false, nil)

		_, err := svc.Rename(ctx, "bob", listL1, "Night")
		assert.ErrorIs(t, err, domain.ErrListNotFound)
		lists.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank", func(t *testing.T) {
		svc, _, _ := newListService()
		_, err := svc.Rename(ctx, "u1", listL1, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestStationListService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, lists, _ := newListService()
	lists.On("Delete", ctx, "u1", listL1).Return(true, nil).Once()
	lists.On("Delete", ctx, "bob", listL1).Return(false, nil).Once()

	ok, err := svc.Delete(ctx, "u1", listL1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, "bob", listL1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStationListService_AddStation(t *testing.T) {
	ctx := context.Background()

	t.Run("owned", func(t *testing.T) {
		svc, lists, items := newListService()
		lists.On("Exists", ctx, "u1", listL1).Return(true, nil)
		items.On("Add", ctx, "u1", listL1, "abc-uuid").Return(true, nil)
		lists.On("GetByUser", ctx, "u1", listL1).Return(sampleList("abc-uuid"), nil)

		got, err := svc.AddStation(ctx, "u1", listL1, "abc-uuid")
		require.NoError(t, err)
		assert.Equal(t, []string{"abc-uuid"}, got.StationIDs)
	})

	t.Run("not owned never touches membership", func(t *testing.T) {
		svc, lists, items := newListService()
		lists.On("Exists", ctx, "bob", listL1).Return(false, nil)

		_, err := svc.AddStation(ctx, "bob", listL1, "abc-uuid")
		assert.ErrorIs(t, err, domain.ErrListNotFound)
		items.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty station", func(t *testing.T) {
		svc, lists, _ := newListService()
		_, err := svc.AddStation(ctx, "u1", listL1, "")
		assert.ErrorIs(t, err, domain.ErrStationIDRequired)
		lists.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate insert with failing read back", func(t *testing.T) {
		svc, lists, items := newListService()
		lists.On("Exists", ctx, "u1", listL1).Return(true, nil)
		items.On("Add", ctx, "u1", listL1, "abc-uuid").Return(false, nil)
		lists.On("GetByUser", ctx, "u1", listL1).Return(nil, errors.New("timeout"))

		_, err := svc.AddStation(ctx, "u1", listL1, "abc-uuid")
		var se *domain.StoreError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "station_list.add_station.read_back", se.Op)
	})
}

func TestStationListService_RemoveStation(t *testing.T) {
	ctx := context.Background()

	t.Run("not owned", func(t *testing.T) {
		svc, lists, items := newListService()
		lists.On("GetByUser", ctx, "bob", listL1).Return(nil, domain.ErrListNotFound)

		res, err := svc.RemoveStation(ctx, "bob", listL1, "abc")
		require.NoError(t, err)
		assert.Nil(t, res.List)
		assert.False(t, res.Removed)
		items.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("absent member", func(t *testing.T) {
		svc, lists, items := newListService()
		lists.On("GetByUser", ctx, "u1", listL1).Return(sampleList("abc-uuid"), nil)
		items.On("Remove", ctx, "u1", listL1, "xyz-uuid").Return(false, nil)

		res, err := svc.RemoveStation(ctx, "u1", listL1, "xyz-uuid")
		require.NoError(t, err)
		assert.False(t, res.Removed)
		assert.Equal(t, []string{"abc-uuid"}, res.List.StationIDs)
	})

	t.Run("removed", func(t *testing.T) {
		svc, lists, items := newListService()
		lists.On("GetByUser", ctx, "u1", listL1).Return(sampleList("abc-uuid"), nil).Once()
		items.On("Remove", ctx, "u1", listL1, "abc-uuid").Return(true, nil)
		lists.On("GetByUser", ctx, "u1", listL1).Return(sampleList(), nil).Once()

		res, err := svc.RemoveStation(ctx, "u1", listL1, "abc-uuid")
		require.NoError(t, err)
		assert.True(t, res.Removed)
		assert.Empty(t, res.List.StationIDs)
	})

	t.Run("store error", func(t *testing.T) {
		svc, lists, _ := newListService()
		lists.On("GetByUser", ctx, "u1", listL1).Return(nil, errors.New("broken pipe"))

		_, err := svc.RemoveStation(ctx, "u1", listL1, "abc")
		assert.True(t, domain.IsStoreError(err))
	})
}
