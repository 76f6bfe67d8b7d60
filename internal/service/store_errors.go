package service

import (
	"context"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/domain"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// storeError 记录并包装存储层错误，不会被吞掉
func storeError(ctx context.Context, log logger.Logger, op, userID, resource string, err error) error {
	wrapped := domain.NewStoreError(op, userID, resource, err)
	log.WithContext(ctx).Error("store operation failed",
		logger.String("op", op),
		logger.String("user_id", userID),
		logger.String("resource", resource),
		logger.Error(err),
	)
	return wrapped
}

func requireUser(userID string) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}
	return nil
}
