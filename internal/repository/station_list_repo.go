package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
)

// StationListRepositoryImpl 电台列表仓储实现
type StationListRepositoryImpl struct {
	db Querier
}

// NewStationListRepository 创建电台列表仓储
func NewStationListRepository(db Querier) StationListRepository {
	return &StationListRepositoryImpl{db: db}
}

// 列表及其成员一次查出，成员按加入时间排序
const selectListWithMembers = `
	SELECT l.id::text, l.user_id, l.name, l.created_at,
		COALESCE(
			array_agg(i.station_uuid ORDER BY i.added_at, i.station_uuid)
				FILTER (WHERE i.station_uuid IS NOT NULL),
			'{}'::text[]
		)
	FROM station_lists l
	LEFT JOIN station_list_items i ON i.list_id = l.id
`

// Create 创建列表
func (r *StationListRepositoryImpl) Create(ctx context.Context, userID, name string) (*domain.StationList, error) {
	query := `
		INSERT INTO station_lists (user_id, name)
		VALUES ($1, $2)
		RETURNING id::text, user_id, name, created_at
	`
	var list domain.StationList
	err := r.db.QueryRow(ctx, query, userID, name).Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	list.StationIDs = []string{}
	return &list, nil
}

// ListByUser 获取用户的全部列表
func (r *StationListRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*domain.StationList, error) {
	query := selectListWithMembers + `
		WHERE l.user_id = $1
		GROUP BY l.id
		ORDER BY l.created_at DESC, l.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]*domain.StationList, 0)
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// GetByUser 获取用户拥有的某个列表
func (r *StationListRepositoryImpl) GetByUser(ctx context.Context, userID, listID string) (*domain.StationList, error) {
	if !validListID(listID) {
		return nil, domain.ErrListNotFound
	}
	query := selectListWithMembers + `
		WHERE l.id = $1::uuid AND l.user_id = $2
		GROUP BY l.id
	`
	list, err := scanList(r.db.QueryRow(ctx, query, listID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Exists 检查列表是否存在且属于该用户
func (r *StationListRepositoryImpl) Exists(ctx context.Context, userID, listID string) (bool, error) {
	if !validListID(listID) {
		return false, nil
	}
	query := `
		SELECT EXISTS(
			SELECT 1 FROM station_lists
			WHERE id = $1::uuid AND user_id = $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, listID, userID).Scan(&exists)
	return exists, err
}

// Rename 重命名列表
func (r *StationListRepositoryImpl) Rename(ctx context.Context, userID, listID, name string) (bool, error) {
	if !validListID(listID) {
		return false, nil
	}
	query := `UPDATE station_lists SET name = $3 WHERE id = $1::uuid AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, listID, userID, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete 删除列表
func (r *StationListRepositoryImpl) Delete(ctx context.Context, userID, listID string) (bool, error) {
	if !validListID(listID) {
		return false, nil
	}
	query := `DELETE FROM station_lists WHERE id = $1::uuid AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, listID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanList(row pgx.Row) (*domain.StationList, error) {
	var list domain.StationList
	err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.CreatedAt,
		&list.StationIDs,
	)
	if err != nil {
		return nil, err
	}
	return list.EnsureStationIDs(), nil
}
