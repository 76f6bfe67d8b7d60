package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/upstream"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/telemetry"
)

const (
	// DefaultTTL 检索结果缓存时长
	DefaultTTL = time.Hour
	// DefaultOpTimeout 单次缓存后端调用超时
	DefaultOpTimeout = 500 * time.Millisecond
	// DefaultLoadTimeout 一次共享回源（限流等待 + 目录请求 + 写回）的上限
	DefaultLoadTimeout = 15 * time.Second
)

// Directory 外部电台目录
type Directory interface {
	Search(ctx context.Context, params upstream.SearchParams) ([]upstream.Station, error)
}

// Options 在线电台缓存配置
type Options struct {
	TTL       time.Duration
	OpTimeout time.Duration
	// LoadTimeout 共享回源的上限，它不跟随任何单个调用方取消
	LoadTimeout time.Duration
	Meter       metric.Meter // nil 时不上报指标
}

// LiveStationCache 电台目录检索的读穿缓存
// 后端异常一律按未命中处理，只有目录失败会返回错误
type LiveStationCache struct {
	backend     Backend
	directory   Directory
	flight      *SingleFlight
	ttl         time.Duration
	opTimeout   time.Duration
	loadTimeout time.Duration
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	tracer      trace.Tracer
	logger      logger.Logger
}

// NewLiveStationCache 创建在线电台缓存
func NewLiveStationCache(backend Backend, directory Directory, opts Options, log logger.Logger) (*LiveStationCache, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = DefaultOpTimeout
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}
	meter := opts.Meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("live-stations")
	}
	hits, misses, err := telemetry.NewCacheHitCounter(meter, "live_stations")
	if err != nil {
		return nil, fmt.Errorf("create cache counters: %w", err)
	}

	return &LiveStationCache{
		backend:     backend,
		directory:   directory,
		flight:      NewSingleFlight(),
		ttl:         opts.TTL,
		opTimeout:   opts.OpTimeout,
		loadTimeout: opts.LoadTimeout,
		hits:        hits,
		misses:      misses,
		tracer:      otel.Tracer("radio-svc/cache"),
		logger:      log.WithFields(logger.String("component", "live_station_cache")),
	}, nil
}

// Search 检索在线电台
// 命中直接返回；未命中（或后端故障）回源目录并写回缓存，写回失败只记录日志
func (c *LiveStationCache) Search(ctx context.Context, params upstream.SearchParams) ([]upstream.Station, error) {
	limit := NormalizeLimit(params.Limit)
	key := SearchKey(limit, params.Name, params.Tag)

	ctx, span := c.tracer.Start(ctx, "LiveStationCache.Search", trace.WithAttributes(
		attribute.String("cache.key", key),
		attribute.Int("search.limit", limit),
	))
	defer span.End()

	if stations, ok := c.lookup(ctx, key); ok {
		c.hits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return stations, nil
	}
	c.misses.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	params.Limit = &limit
	stations, err := c.load(ctx, key, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return stations, nil
}

// Refresh 跳过缓存直接回源并写回，供预热任务使用
func (c *LiveStationCache) Refresh(ctx context.Context, params upstream.SearchParams) (int, error) {
	limit := NormalizeLimit(params.Limit)
	params.Limit = &limit
	stations, err := c.load(ctx, SearchKey(limit, params.Name, params.Tag), params)
	if err != nil {
		return 0, err
	}
	return len(stations), nil
}

// lookup 读取缓存，任何后端错误或坏数据都视为未命中
func (c *LiveStationCache) lookup(ctx context.Context, key string) ([]upstream.Station, bool) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	data, err := c.backend.Get(opCtx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.WithContext(ctx).Warn("Cache get failed, falling back to directory",
				logger.String("key", key),
				logger.Error(err),
			)
		}
		return nil, false
	}

	var stations []upstream.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		c.logger.WithContext(ctx).Warn("Cache payload undecodable, treating as miss",
			logger.String("key", key),
			logger.Error(fmt.Errorf("%w: %v", ErrInvalidData, err)),
		)
		if err := c.backend.Delete(opCtx, key); err != nil {
			c.logger.WithContext(ctx).Warn("Cache delete failed", logger.String("key", key), logger.Error(err))
		}
		return nil, false
	}
	if stations == nil {
		stations = []upstream.Station{}
	}
	return stations, true
}

// load 回源目录，同一 key 的并发未命中只发起一次请求
// 调用方取消或超时立即返回，共享的回源继续执行并写回缓存
func (c *LiveStationCache) load(ctx context.Context, key string, params upstream.SearchParams) ([]upstream.Station, error) {
	detached := context.WithoutCancel(ctx)

	ch := c.flight.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(detached, c.loadTimeout)
		defer cancel()

		stations, err := c.directory.Search(flightCtx, params)
		if err != nil {
			return nil, err
		}
		if stations == nil {
			stations = []upstream.Station{}
		}
		c.store(flightCtx, key, stations)
		return stations, nil
	})

	select {
	case <-ctx.Done():
		c.logger.WithContext(ctx).Warn("Directory search abandoned by caller",
			logger.String("key", key),
			logger.Error(ctx.Err()),
		)
		return nil, fmt.Errorf("%w: %w", ErrDirectory, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			c.logger.WithContext(ctx).Error("Directory search failed",
				logger.String("key", key),
				logger.Error(res.Err),
			)
			return nil, fmt.Errorf("%w: %w", ErrDirectory, res.Err)
		}
		stations := res.Val.([]upstream.Station)
		if !res.Shared {
			return stations, nil
		}
		// 共享结果按调用方复制，互不影响
		c.logger.Debug("Directory result shared", logger.String("key", key))
		out := make([]upstream.Station, len(stations))
		copy(out, stations)
		return out, nil
	}
}

// store 写回缓存，失败只告警
func (c *LiveStationCache) store(ctx context.Context, key string, stations []upstream.Station) {
	data, err := json.Marshal(stations)
	if err != nil {
		c.logger.Warn("Failed to encode stations for cache", logger.String("key", key), logger.Error(err))
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.backend.Set(opCtx, key, data, c.ttl); err != nil {
		c.logger.WithContext(ctx).Warn("Cache set failed",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}
