package domain

import (
	"errors"
	"fmt"
)

var (
	// 错误分类，处理层通过 errors.Is 映射 HTTP 状态码
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	// 参数校验错误
	ErrInvalidUserID     = fmt.Errorf("%w: user id is required", ErrValidation)
	ErrStationIDRequired = fmt.Errorf("%w: stationId is required", ErrValidation)
	ErrListNameRequired  = fmt.Errorf("%w: name is required", ErrValidation)
	ErrListNameTooLong   = fmt.Errorf("%w: name must be at most %d characters", ErrValidation, MaxListNameLength)
	ErrStationIDTooLong  = fmt.Errorf("%w: stationId must be at most %d characters", ErrValidation, MaxStationIDLength)

	// 资源不存在（不区分"不存在"与"不属于当前用户"）
	ErrFavoriteNotFound = fmt.Errorf("favorite %w", ErrNotFound)
	ErrListNotFound     = fmt.Errorf("station list %w", ErrNotFound)
)

// StoreError 关系存储异常，携带操作上下文用于日志
type StoreError struct {
	Op       string // 操作名，如 "favorite.add"
	UserID   string
	Resource string // 资源标识，如电台 UUID 或列表 ID
	Err      error
}

func (e *StoreError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("store: %s (user=%s resource=%s): %v", e.Op, e.UserID, e.Resource, e.Err)
	}
	return fmt.Sprintf("store: %s (user=%s): %v", e.Op, e.UserID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError 包装存储层错误
func NewStoreError(op, userID, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, UserID: userID, Resource: resource, Err: err}
}

// IsStoreError 判断是否为存储层错误
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
