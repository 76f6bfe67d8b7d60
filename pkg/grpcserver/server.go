// Package grpcserver runs the internal gRPC endpoint of the radio service.
//
// The endpoint carries the standard grpc.health.v1.Health service so that
// orchestrators and peers can probe the process without going through HTTP.
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// Config holds gRPC server configuration.
type Config struct {
	// Addr to listen on, e.g. ":9090". Port 0 picks a free port.
	Addr string

	// ServiceName is reported by the health service next to the "" entry.
	ServiceName string

	MaxConcurrentStreams uint32
	ConnectionTimeout    time.Duration
	MaxConnectionIdle    time.Duration
	MaxConnectionAge     time.Duration
	KeepaliveMinTime     time.Duration
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig(serviceName string, port int) *Config {
	return &Config{
		Addr:                 fmt.Sprintf(":%d", port),
		ServiceName:          serviceName,
		MaxConcurrentStreams: 100,
		ConnectionTimeout:    120 * time.Second,
		MaxConnectionIdle:    300 * time.Second,
		MaxConnectionAge:     600 * time.Second,
		KeepaliveMinTime:     60 * time.Second,
	}
}

// Server wraps a gRPC server and its health service.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	config   *Config
	logger   logger.Logger
}

// New creates the server and binds its listener. Serve must be called to
// start accepting connections.
func New(cfg *Config, log logger.Logger) (*Server, error) {
	log = log.WithFields(logger.String("component", "grpc"))

	srv := grpc.NewServer(
		grpc.MaxConcurrentStreams(cfg.MaxConcurrentStreams),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             cfg.KeepaliveMinTime,
			PermitWithoutStream: true,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: cfg.MaxConnectionIdle,
			MaxConnectionAge:  cfg.MaxConnectionAge,
			Time:              30 * time.Second,
			Timeout:           10 * time.Second,
		}),
		grpc.ConnectionTimeout(cfg.ConnectionTimeout),
		grpc.ChainUnaryInterceptor(
			recoveryInterceptor(log),
			loggingInterceptor(log),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	s := &Server{
		server:   srv,
		health:   hs,
		listener: lis,
		config:   cfg,
		logger:   log,
	}
	s.SetServing(true)
	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve blocks until the server stops. A graceful stop returns nil.
func (s *Server) Serve() error {
	s.logger.Info("gRPC server listening", logger.String("addr", s.listener.Addr().String()))
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// SetServing flips the health status of both the overall and named service.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	if s.config.ServiceName != "" {
		s.health.SetServingStatus(s.config.ServiceName, st)
	}
}

// Shutdown marks the service NOT_SERVING, then waits for in-flight RPCs
// until ctx expires, after which remaining connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetServing(false)

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("graceful shutdown timeout: %w", ctx.Err())
	}
}

func loggingInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []logger.Field{
			logger.String("method", info.FullMethod),
			logger.Duration("duration", time.Since(start)),
			logger.String("code", status.Code(err).String()),
		}
		if err != nil {
			log.Warn("gRPC request failed", append(fields, logger.Error(err))...)
		} else {
			log.Debug("gRPC request completed", fields...)
		}
		return resp, err
	}
}

func recoveryInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if p := recover(); p != nil {
				log.Error("gRPC panic recovered",
					logger.String("method", info.FullMethod),
					logger.Any("panic", p),
					logger.String("stack", string(debug.Stack())),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
