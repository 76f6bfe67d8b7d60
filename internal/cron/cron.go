package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// WarmUpper 缓存预热任务
type WarmUpper interface {
	WarmUp(ctx context.Context) error
}

// Sweeper 过期条目清理任务，由内存缓存实现
type Sweeper interface {
	CleanExpired() int
}

// Config 定时任务配置，Schedule 为空的任务不注册
type Config struct {
	WarmupSchedule string        // 如 "@every 30m"
	WarmupTimeout  time.Duration // 单次预热超时
	SweepSchedule  string        // 如 "@every 5m"
}

// CronManager 定时任务管理器
type CronManager struct {
	cron    *cron.Cron
	cfg     Config
	warmup  WarmUpper
	sweeper Sweeper
	logger  logger.Logger
}

// NewCronManager 创建定时任务管理器，warmup 或 sweeper 为 nil 时跳过对应任务
func NewCronManager(cfg Config, warmup WarmUpper, sweeper Sweeper, log logger.Logger) *CronManager {
	if cfg.WarmupTimeout <= 0 {
		cfg.WarmupTimeout = 5 * time.Minute
	}
	log = log.WithFields(logger.String("component", "cron"))
	return &CronManager{
		cron: cron.New(
			cron.WithLocation(time.Local),
			// 上一轮未结束时跳过本轮
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		cfg:     cfg,
		warmup:  warmup,
		sweeper: sweeper,
		logger:  log,
	}
}

// Start 注册并启动定时任务
func (m *CronManager) Start() error {
	if m.warmup != nil && m.cfg.WarmupSchedule != "" {
		if _, err := m.cron.AddFunc(m.cfg.WarmupSchedule, m.runWarmup); err != nil {
			return fmt.Errorf("register warmup job %q: %w", m.cfg.WarmupSchedule, err)
		}
	}
	if m.sweeper != nil && m.cfg.SweepSchedule != "" {
		if _, err := m.cron.AddFunc(m.cfg.SweepSchedule, m.runSweep); err != nil {
			return fmt.Errorf("register sweep job %q: %w", m.cfg.SweepSchedule, err)
		}
	}

	m.cron.Start()
	m.logger.Info("Cron manager started",
		logger.Int("jobs", len(m.cron.Entries())),
		logger.String("warmup_schedule", m.cfg.WarmupSchedule),
		logger.String("sweep_schedule", m.cfg.SweepSchedule),
	)
	return nil
}

// Stop 停止定时任务，等待运行中的任务完成
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("Cron manager stopped")
}

// RunWarmupNow 立即执行一次预热（启动时调用）
func (m *CronManager) RunWarmupNow(ctx context.Context) error {
	if m.warmup == nil {
		return nil
	}
	return m.warmup.WarmUp(ctx)
}

func (m *CronManager) runWarmup() {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.WarmupTimeout)
	defer cancel()

	start := time.Now()
	if err := m.warmup.WarmUp(ctx); err != nil {
		m.logger.Warn("Scheduled warm up failed", logger.Error(err))
		return
	}
	m.logger.Info("Scheduled warm up completed", logger.Duration("elapsed", time.Since(start)))
}

func (m *CronManager) runSweep() {
	if n := m.sweeper.CleanExpired(); n > 0 {
		m.logger.Debug("Expired cache entries swept", logger.Int("count", n))
	}
}
