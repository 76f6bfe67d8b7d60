package repository

import (
	"context"
)

// StationListItemRepositoryImpl 列表成员仓储实现
type StationListItemRepositoryImpl struct {
	db Querier
}

// NewStationListItemRepository 创建列表成员仓储
func NewStationListItemRepository(db Querier) StationListItemRepository {
	return &StationListItemRepositoryImpl{db: db}
}

// Add 加入电台
// 插入语句本身也限定列表归属，列表在检查之后被删除时不会触发外键错误
func (r *StationListItemRepositoryImpl) Add(ctx context.Context, userID, listID, stationUUID string) (bool, error) {
	if !validListID(listID) {
		return false, nil
	}
	query := `
		INSERT INTO station_list_items (list_id, station_uuid)
		SELECT id, $3 FROM station_lists WHERE id = $1::uuid AND user_id = $2
		ON CONFLICT (list_id, station_uuid) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, listID, userID, stationUUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Remove 移除电台
func (r *StationListItemRepositoryImpl) Remove(ctx context.Context, userID, listID, stationUUID string) (bool, error) {
	if !validListID(listID) {
		return false, nil
	}
	query := `
		DELETE FROM station_list_items i
		USING station_lists l
		WHERE i.list_id = l.id
			AND l.id = $1::uuid
			AND l.user_id = $2
			AND i.station_uuid = $3
	`
	tag, err := r.db.Exec(ctx, query, listID, userID, stationUUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
