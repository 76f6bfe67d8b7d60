package upstream

import (
	"sync"
	"time"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// State 熔断器状态
type State int

const (
	// StateClosed 正常放行
	StateClosed State = iota
	// StateOpen 熔断中，直接拒绝
	StateOpen
	// StateHalfOpen 试探恢复
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerSettings 熔断器设置
type BreakerSettings struct {
	MaxFailures   int                                 // 连续失败多少次后熔断
	Timeout       time.Duration                       // 熔断持续时间
	MaxRequests   int                                 // 半开状态允许的试探请求数
	OnStateChange func(from, to State, counts Counts) // counts 为切换时的计数快照
}

// Counts 熔断器计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// CircuitBreaker 保护电台目录的熔断器
type CircuitBreaker struct {
	settings BreakerSettings
	state    State
	counts   Counts
	expiry   time.Time
	now      func() time.Time
	mu       sync.Mutex
	logger   logger.Logger
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(settings BreakerSettings, log logger.Logger) *CircuitBreaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.MaxRequests <= 0 {
		settings.MaxRequests = 1
	}
	return &CircuitBreaker{
		settings: settings,
		state:    StateClosed,
		now:      time.Now,
		logger:   log,
	}
}

// Execute 在熔断保护下执行 fn
// 熔断打开时不调用 fn，直接返回 ErrCircuitOpen
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	cb.afterRequest(err == nil)
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.expiry.After(cb.now()) {
			return ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.counts = Counts{}
	case StateHalfOpen:
		if cb.counts.Requests >= uint32(cb.settings.MaxRequests) {
			return ErrCircuitOpen
		}
	}

	cb.counts.Requests++
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.counts.TotalSuccesses++
		cb.counts.ConsecutiveSuccesses++
		cb.counts.ConsecutiveFailures = 0
		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= uint32(cb.settings.MaxRequests) {
			cb.setState(StateClosed)
			cb.counts = Counts{}
		}
		return
	}

	cb.counts.TotalFailures++
	cb.counts.ConsecutiveFailures++
	cb.counts.ConsecutiveSuccesses = 0
	// 半开状态下任何失败都重新熔断
	if cb.state == StateHalfOpen || cb.counts.ConsecutiveFailures >= uint32(cb.settings.MaxFailures) {
		cb.setState(StateOpen)
		cb.expiry = cb.now().Add(cb.settings.Timeout)
	}
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}
	from := cb.state
	cb.state = state

	cb.logger.Info("Circuit breaker state changed",
		logger.String("from", from.String()),
		logger.String("to", state.String()),
	)
	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(from, state, cb.counts)
	}
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
