// Package consul registers the service with a Consul agent.
package consul

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/consul/api"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// RegistryConfig describes the registration.
type RegistryConfig struct {
	ConsulAddr  string // e.g. "localhost:8500"
	Token       string
	ServiceName string // e.g. "radio-svc"
	ServiceAddr string // host:port reachable by Consul
	ServiceTags []string
	HealthCheck HealthCheckConfig
}

// HealthCheckConfig configures the HTTP check Consul runs against the service.
type HealthCheckConfig struct {
	HTTP                           string        // e.g. "http://10.0.0.5:8080/health"
	Interval                       time.Duration // default 10s
	Timeout                        time.Duration // default 5s
	DeregisterCriticalServiceAfter time.Duration // default 30s
}

// ServiceRegistry holds a live registration.
type ServiceRegistry struct {
	client      *api.Client
	serviceID   string
	serviceName string
	logger      logger.Logger
}

// Register creates the Consul client and registers the service.
func Register(cfg RegistryConfig, log logger.Logger) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.ConsulAddr
	if cfg.Token != "" {
		consulConfig.Token = cfg.Token
	}

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	registration, err := buildRegistration(cfg)
	if err != nil {
		return nil, err
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("failed to register service: %w", err)
	}

	log.Info("Service registered to Consul",
		logger.String("service_id", registration.ID),
		logger.String("service_name", cfg.ServiceName),
		logger.String("address", cfg.ServiceAddr),
	)

	return &ServiceRegistry{
		client:      client,
		serviceID:   registration.ID,
		serviceName: cfg.ServiceName,
		logger:      log,
	}, nil
}

func buildRegistration(cfg RegistryConfig) (*api.AgentServiceRegistration, error) {
	host, portStr, err := net.SplitHostPort(cfg.ServiceAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid service address %s: %w", cfg.ServiceAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port %s: %w", portStr, err)
	}

	hc := cfg.HealthCheck
	if hc.Interval <= 0 {
		hc.Interval = 10 * time.Second
	}
	if hc.Timeout <= 0 {
		hc.Timeout = 5 * time.Second
	}
	if hc.DeregisterCriticalServiceAfter <= 0 {
		hc.DeregisterCriticalServiceAfter = 30 * time.Second
	}

	reg := &api.AgentServiceRegistration{
		// name plus address keeps replicas distinct
		ID:      fmt.Sprintf("%s-%s", cfg.ServiceName, cfg.ServiceAddr),
		Name:    cfg.ServiceName,
		Address: host,
		Port:    port,
		Tags:    cfg.ServiceTags,
	}
	if hc.HTTP != "" {
		reg.Check = &api.AgentServiceCheck{
			HTTP:                           hc.HTTP,
			Interval:                       hc.Interval.String(),
			Timeout:                        hc.Timeout.String(),
			DeregisterCriticalServiceAfter: hc.DeregisterCriticalServiceAfter.String(),
		}
	}
	return reg, nil
}

// ServiceID returns the registered id.
func (r *ServiceRegistry) ServiceID() string { return r.serviceID }

// Deregister removes the registration.
func (r *ServiceRegistry) Deregister(ctx context.Context) error {
	opts := (&api.QueryOptions{}).WithContext(ctx)
	if err := r.client.Agent().ServiceDeregisterOpts(r.serviceID, opts); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	r.logger.Info("Service deregistered from Consul",
		logger.String("service_id", r.serviceID),
		logger.String("service_name", r.serviceName),
	)
	return nil
}
