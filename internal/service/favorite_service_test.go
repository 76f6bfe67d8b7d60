package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

func TestFavoriteService_Add(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFavoriteRepository)
	svc := NewFavoriteService(repo, logger.Nop())

	repo.On("Add", ctx, "u1", "abc-uuid").Return(true, nil).Once()
	repo.On("ListStationIDs", ctx, "u1").Return([]string{"abc-uuid"}, nil).Once()

	ids, err := svc.Add(ctx, "u1", " abc-uuid ")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc-uuid"}, ids)
	repo.AssertExpectations(t)
}

func TestFavoriteService_AddDuplicateIsNotAnError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFavoriteRepository)
	svc := NewFavoriteService(repo, logger.Nop())

	repo.On("Add", ctx, "u1", "abc-uuid").Return(false, nil)
	repo.On("ListStationIDs", ctx, "u1").Return([]string{"abc-uuid"}, nil)

	first, err := svc.Add(ctx, "u1", "abc-uuid")
	require.NoError(t, err)
	second, err := svc.Add(ctx, "u1", "abc-uuid")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFavoriteService_AddValidation(t *testing.T) {
	repo := new(MockFavoriteRepository)
	svc := NewFavoriteService(repo, logger.Nop())

	_, err := svc.Add(context.Background(), "u1", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Add(context.Background(), "", "abc")
	assert.ErrorIs(t, err, domain.ErrValidation)

	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteService_AddStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	t.Run("write", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		svc := NewFavoriteService(repo, logger.Nop())
		repo.On("Add", ctx, "u1", "abc").Return(false, boom)

		_, err := svc.Add(ctx, "u1", "abc")
		assert.True(t, domain.IsStoreError(err))
		assert.ErrorIs(t, err, boom)
		repo.AssertNotCalled(t, "ListStationIDs", mock.Anything, mock.Anything)
	})

	t.Run("read back", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		svc := NewFavoriteService(repo, logger.Nop())
		repo.On("Add", ctx, "u1", "abc").Return(false, nil)
		repo.On("ListStationIDs", ctx, "u1").Return(nil, boom)

		_, err := svc.Add(ctx, "u1", "abc")
		var se *domain.StoreError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "favorite.add.read_back", se.Op)
		assert.Equal(t, "abc", se.Resource)
	})
}

func TestFavoriteService_Remove(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFavoriteRepository)
	svc := NewFavoriteService(repo, logger.Nop())

	repo.On("Remove", ctx, "u1", "abc").Return(true, nil).Once()
	repo.On("Remove", ctx, "u1", "xyz").Return(false, nil).Once()
	repo.On("ListStationIDs", ctx, "u1").Return([]string{"def"}, nil)

	res, err := svc.Remove(ctx, "u1", "abc")
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, []string{"def"}, res.List)

	res, err = svc.Remove(ctx, "u1", "xyz")
	require.NoError(t, err)
	assert.False(t, res.Removed)
	assert.Equal(t, []string{"def"}, res.List)
}

func TestFavoriteService_RemoveValidation(t *testing.T) {
	svc := NewFavoriteService(new(MockFavoriteRepository), logger.Nop())
	_, err := svc.Remove(context.Background(), "u1", "")
	assert.ErrorIs(t, err, domain.ErrStationIDRequired)
}

func TestFavoriteService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFavoriteRepository)
	svc := NewFavoriteService(repo, logger.Nop())

	repo.On("ListStationIDs", ctx, "u1").Return([]string{}, nil)
	ids, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
