package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/xiaoxiao0301/listen-stream-radio/internal/cache"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/cron"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/handler"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/middleware"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/repository"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/service"
	"github.com/xiaoxiao0301/listen-stream-radio/internal/upstream"
	"github.com/xiaoxiao0301/listen-stream-radio/migrations"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/config"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/consul"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/db"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/grpcserver"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/jwt"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/redis"
	"github.com/xiaoxiao0301/listen-stream-radio/pkg/telemetry"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(sigCtx, cfg)
		},
	}
}

// closer releases one resource during shutdown.
type closer struct {
	name string
	fn   func(context.Context) error
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg.Log)
	logger.SetGlobalLogger(log)

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = "radio-svc"
	}
	log.Info("starting radio-svc",
		logger.String("version", version),
		logger.Int("http_port", cfg.Server.HTTPPort),
		logger.Int("grpc_port", cfg.Server.GRPCPort),
		logger.String("cache_backend", cfg.Cache.Backend),
	)

	// closers run in reverse order of registration
	var closers []closer
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].fn(shutdownCtx); err != nil {
				log.Error("shutdown step failed", logger.String("step", closers[i].name), logger.Error(err))
			}
		}
		log.Info("radio-svc stopped")
	}()

	provider, shutdownTelemetry, err := telemetry.Init(ctx, &telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Telemetry.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	closers = append(closers, closer{"telemetry", func(ctx context.Context) error { return shutdownTelemetry(ctx) }})
	log.Info("telemetry initialized",
		logger.Bool("tracing", provider.TracingEnabled()),
		logger.String("otlp_endpoint", cfg.Telemetry.OTLPEndpoint),
	)

	if cfg.Database.AutoMigrate {
		if err := migrateSchema(ctx, cfg.Database.DSN()); err != nil {
			return err
		}
		log.Info("database schema up to date")
	}

	pool, err := repository.NewPool(ctx, &repository.DBConfig{
		DSN:               cfg.Database.DSN(),
		MaxConns:          cfg.Database.MaxConns,
		MinConns:          cfg.Database.MinConns,
		MaxConnLifetime:   cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	closers = append(closers, closer{"database", func(context.Context) error {
		repository.ClosePool(pool)
		return nil
	}})

	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(pool), log)
	lists := service.NewStationListService(
		repository.NewStationListRepository(pool),
		repository.NewStationListItemRepository(pool),
		log,
	)

	backend, sweeper, closeBackend := newCacheBackend(cfg)
	if closeBackend != nil {
		closers = append(closers, closer{"cache backend", func(context.Context) error { return closeBackend() }})
	}

	directory := upstream.NewClient(upstream.ClientConfig{
		BaseURL:   cfg.Directory.BaseURL,
		UserAgent: cfg.Directory.UserAgent,
		Timeout:   cfg.Directory.Timeout,
		RateLimit: cfg.Directory.RateLimit,
		RateBurst: cfg.Directory.RateBurst,
		BreakerSettings: upstream.BreakerSettings{
			MaxFailures: cfg.Directory.BreakerMaxFailures,
			Timeout:     cfg.Directory.BreakerTimeout,
			OnStateChange: func(from, to upstream.State, counts upstream.Counts) {
				log.Warn("directory breaker state changed",
					logger.String("from", from.String()),
					logger.String("to", to.String()),
					logger.Int("consecutive_failures", int(counts.ConsecutiveFailures)),
					logger.Int("total_failures", int(counts.TotalFailures)),
				)
			},
		},
	}, log)

	liveStations, err := cache.NewLiveStationCache(backend, directory, cache.Options{
		TTL:         cfg.Cache.TTL,
		OpTimeout:   cfg.Cache.OpTimeout,
		LoadTimeout: cfg.Directory.Timeout + cfg.Cache.OpTimeout,
		Meter:       provider.Meter(),
	}, log)
	if err != nil {
		return fmt.Errorf("build live station cache: %w", err)
	}

	cronMgr := newCronManager(cfg, liveStations, sweeper, log)
	if err := cronMgr.Start(); err != nil {
		return fmt.Errorf("start cron: %w", err)
	}
	closers = append(closers, closer{"cron", func(context.Context) error {
		cronMgr.Stop()
		return nil
	}})
	if cfg.Cache.WarmupEnabled {
		go func() {
			if err := cronMgr.RunWarmupNow(ctx); err != nil {
				log.Warn("startup warm up failed", logger.Error(err))
			}
		}()
	}

	engine, err := newEngine(cfg, serviceName, provider, log, &handler.Router{
		Favorites: handler.NewFavoriteHandler(favorites),
		Lists:     handler.NewStationListHandler(lists),
		Stations:  handler.NewStationHandler(liveStations),
		Health:    handler.NewHealthHandler(pool, version),
		Auth: middleware.Auth(jwt.NewManager(&jwt.Config{
			Secret:      cfg.JWT.Secret,
			Issuer:      cfg.JWT.Issuer,
			TokenExpiry: cfg.JWT.TokenExpiry,
		}), log),
		Metrics: provider.MetricsHandler(),
	})
	if err != nil {
		return err
	}

	grpcSrv, err := grpcserver.New(grpcserver.DefaultConfig(serviceName, cfg.Server.GRPCPort), log)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := grpcSrv.Serve(); err != nil {
			serveErr <- err
		}
	}()
	closers = append(closers,
		closer{"grpc server", grpcSrv.Shutdown},
		closer{"http server", httpSrv.Shutdown},
	)

	if cfg.Consul.Enabled {
		registry, err := registerConsul(cfg, serviceName, log)
		if err != nil {
			// the service keeps running unregistered
			log.Error("consul registration failed", logger.Error(err))
		} else {
			closers = append(closers, closer{"consul", registry.Deregister})
		}
		if cfg.Consul.LogLevelKey != "" {
			watchLogLevel(ctx, cfg, log)
		}
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		return nil
	case err := <-serveErr:
		return err
	}
}

func migrateSchema(ctx context.Context, dsn string) error {
	sqlDB, err := db.Open(ctx, dsn)
	if err != nil {
		return err
	}
	m, err := db.NewMigrator(sqlDB, migrations.FS, ".")
	if err != nil {
		sqlDB.Close()
		return err
	}
	defer m.Close()
	return m.EnsureSchema(ctx)
}

// newCacheBackend returns the configured backend, the sweeper for backends
// that need one and an optional close func.
func newCacheBackend(cfg *config.Config) (cache.Backend, cron.Sweeper, func() error) {
	if cfg.Cache.Backend == config.CacheBackendMemory {
		mem := cache.NewMemoryCache(cfg.Cache.MemoryCapacity)
		return mem, mem, nil
	}

	client := redis.NewClient(&redis.Config{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})
	return cache.NewRedisCache(client.Universal(), cfg.Cache.Prefix), nil, client.Close
}

func newCronManager(cfg *config.Config, refresher cache.Refresher, sweeper cron.Sweeper, log logger.Logger) *cron.CronManager {
	var warmup cron.WarmUpper
	if cfg.Cache.WarmupEnabled {
		warmup = cache.NewWarmUpService(refresher, cfg.Cache.WarmupTags, log)
	}
	return cron.NewCronManager(cron.Config{
		WarmupSchedule: cfg.Cache.WarmupSchedule,
		SweepSchedule:  cfg.Cache.SweepSchedule,
	}, warmup, sweeper, log)
}

func newEngine(cfg *config.Config, serviceName string, provider *telemetry.Provider, log logger.Logger, router *handler.Router) (*gin.Engine, error) {
	requests, err := provider.NewHTTPRequestCounter()
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	duration, err := provider.NewHTTPDurationHistogram()
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(serviceName),
		middleware.Logging(log),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.Metrics(requests, duration),
	)
	if cfg.Server.RateLimit > 0 {
		router.RateLimit = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst).Limit()
	}
	router.Register(engine)
	return engine, nil
}

func registerConsul(cfg *config.Config, serviceName string, log logger.Logger) (*consul.ServiceRegistry, error) {
	addr := cfg.Consul.ServiceAddress
	if addr == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("resolve hostname: %w", err)
		}
		addr = net.JoinHostPort(host, strconv.Itoa(cfg.Server.HTTPPort))
	}
	return consul.Register(consul.RegistryConfig{
		ConsulAddr:  cfg.Consul.Address,
		Token:       cfg.Consul.Token,
		ServiceName: serviceName,
		ServiceAddr: addr,
		ServiceTags: cfg.Consul.Tags,
		HealthCheck: consul.HealthCheckConfig{
			HTTP: "http://" + addr + "/health",
		},
	}, log)
}

// watchLogLevel applies the level stored under consul.log_level_key until ctx is done.
func watchLogLevel(ctx context.Context, cfg *config.Config, log logger.Logger) {
	watcher, err := consul.NewKeyWatcher(consul.WatchConfig{
		ConsulAddr: cfg.Consul.Address,
		Token:      cfg.Consul.Token,
		Key:        cfg.Consul.LogLevelKey,
	}, log)
	if err != nil {
		log.Error("log level watch disabled", logger.Error(err))
		return
	}
	go watcher.Run(ctx, func(value string) {
		level := logger.ParseLevel(value)
		log.SetLevel(level)
		log.Info("log level changed", logger.String("level", level.String()))
	})
}
