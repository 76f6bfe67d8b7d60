package consul

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// WatchConfig describes a single KV key to follow.
type WatchConfig struct {
	ConsulAddr    string
	Token         string
	Key           string        // e.g. "radio-svc/log_level"
	WaitTime      time.Duration // blocking query wait, default 5m
	RetryInterval time.Duration // pause after an error, default 5s
}

// KeyWatcher follows one KV key with blocking queries and reports each
// distinct value.
type KeyWatcher struct {
	kv       *api.KV
	key      string
	waitTime time.Duration
	retry    time.Duration
	logger   logger.Logger
}

// NewKeyWatcher creates the Consul client. No request is made until Run.
func NewKeyWatcher(cfg WatchConfig, log logger.Logger) (*KeyWatcher, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("watch key is required")
	}
	if cfg.WaitTime <= 0 {
		cfg.WaitTime = 5 * time.Minute
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}

	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.ConsulAddr
	if cfg.Token != "" {
		consulConfig.Token = cfg.Token
	}
	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &KeyWatcher{
		kv:       client.KV(),
		key:      cfg.Key,
		waitTime: cfg.WaitTime,
		retry:    cfg.RetryInterval,
		logger:   log.WithFields(logger.String("component", "consul_watch"), logger.String("key", cfg.Key)),
	}, nil
}

// Run blocks until ctx is done. fn is called with the current value and then
// again each time it changes. A missing key is not reported.
func (w *KeyWatcher) Run(ctx context.Context, fn func(value string)) {
	var (
		index uint64
		last  *string
	)
	for {
		opts := (&api.QueryOptions{WaitIndex: index, WaitTime: w.waitTime}).WithContext(ctx)
		pair, meta, err := w.kv.Get(w.key, opts)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			w.logger.Warn("Consul key watch failed", logger.Error(err))
			if !sleep(ctx, w.retry) {
				return
			}
			continue
		}

		// an index that goes backwards means the key was reset
		if meta.LastIndex < index {
			index = 0
		} else {
			index = meta.LastIndex
		}

		if pair != nil {
			value := string(pair.Value)
			if last == nil || *last != value {
				last = &value
				fn(value)
			}
		}

		// without an index the next query would return immediately
		if index == 0 && !sleep(ctx, w.retry) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
