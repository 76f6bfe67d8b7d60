package repository

import (
	"context"
)

// FavoriteRepositoryImpl 收藏仓储实现
type FavoriteRepositoryImpl struct {
	db Querier
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(db Querier) FavoriteRepository {
	return &FavoriteRepositoryImpl{db: db}
}

// Add 添加收藏
func (r *FavoriteRepositoryImpl) Add(ctx context.Context, userID, stationUUID string) (bool, error) {
	query := `
		INSERT INTO favorites (user_id, station_uuid)
		VALUES ($1, $2)
		ON CONFLICT (user_id, station_uuid) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, stationUUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Remove 取消收藏
func (r *FavoriteRepositoryImpl) Remove(ctx context.Context, userID, stationUUID string) (bool, error) {
	query := `DELETE FROM favorites WHERE user_id = $1 AND station_uuid = $2`
	tag, err := r.db.Exec(ctx, query, userID, stationUUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListStationIDs 获取用户的收藏电台
func (r *FavoriteRepositoryImpl) ListStationIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT station_uuid
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at ASC, station_uuid ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ FavoriteRepository = (*FavoriteRepositoryImpl)(nil)
