package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/upstream"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// Refresher 预热目标，由 LiveStationCache 实现
type Refresher interface {
	Refresh(ctx context.Context, params upstream.SearchParams) (int, error)
}

// WarmUpService 在线电台缓存预热
// 预热默认检索（无过滤）以及配置的热门标签
type WarmUpService struct {
	cache  Refresher
	tags   []string
	logger logger.Logger
}

// NewWarmUpService 创建预热服务
func NewWarmUpService(cache Refresher, tags []string, log logger.Logger) *WarmUpService {
	return &WarmUpService{
		cache:  cache,
		tags:   tags,
		logger: log.WithFields(logger.String("component", "cache_warmup")),
	}
}

// Searches 需要预热的检索参数
func (w *WarmUpService) Searches() []upstream.SearchParams {
	searches := make([]upstream.SearchParams, 0, len(w.tags)+1)
	searches = append(searches, upstream.SearchParams{})
	for _, tag := range w.tags {
		if tag == "" {
			continue
		}
		tag := tag
		searches = append(searches, upstream.SearchParams{Tag: &tag})
	}
	return searches
}

// WarmUp 执行预热，单个检索失败不影响其他检索
func (w *WarmUpService) WarmUp(ctx context.Context) error {
	searches := w.Searches()
	w.logger.Info("Starting cache warm up", logger.Int("count", len(searches)))
	start := time.Now()

	success := 0
	failed := 0
	for _, params := range searches {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := w.cache.Refresh(ctx, params)
		if err != nil {
			w.logger.Error("Failed to warm up search",
				logger.String("tag", deref(params.Tag)),
				logger.Error(err),
			)
			failed++
			continue
		}
		w.logger.Debug("Warmed up search",
			logger.String("tag", deref(params.Tag)),
			logger.Int("stations", n),
		)
		success++
	}

	w.logger.Info("Cache warm up completed",
		logger.Int("success", success),
		logger.Int("failed", failed),
		logger.Duration("elapsed", time.Since(start)),
	)

	if failed > 0 {
		return fmt.Errorf("warm up partially failed: %d/%d searches failed", failed, len(searches))
	}
	return nil
}
