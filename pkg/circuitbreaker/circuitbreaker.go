// Package circuitbreaker 实现熔断器模式
//
// 本服务中用于保护图片上传网关（S3）：
// 1. 监控上传调用的成功/失败
// 2. 失败达到阈值时快速失败（OPEN），避免每次都等待网络超时
// 3. 超时后进入半开状态（HALF_OPEN）探测恢复
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	// StateClosed 关闭状态（正常），统计失败次数，达到阈值时转为OPEN
	StateClosed State = iota

	// StateOpen 打开状态（熔断），所有请求快速失败，超时后转为HALF_OPEN
	StateOpen

	// StateHalfOpen 半开状态（探测），允许少量请求通过
	StateHalfOpen
)

// String 状态转字符串（便于日志）
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的最大请求数
	MaxRequests uint32

	// Interval 关闭状态下的统计时间窗口
	Interval time.Duration

	// Timeout 熔断持续时间（OPEN状态转为HALF_OPEN前的等待）
	Timeout time.Duration

	// ReadyToTrip 根据统计数据判断是否熔断
	ReadyToTrip func(counts Counts) bool
}

// Counts 统计数据
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 计算失败率
func (c *Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

// Reset 重置统计
func (c *Counts) Reset() {
	c.Requests = 0
	c.TotalSuccesses = 0
	c.TotalFailures = 0
	c.ConsecutiveSuccesses = 0
	c.ConsecutiveFailures = 0
}

// Requests在beforeRequest中递增，这里只记录结果
func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name          string
	maxRequests   uint32
	interval      time.Duration
	timeout       time.Duration
	readyToTrip   func(counts Counts) bool
	state         State
	generation    uint64 // 生成号，每次状态切换递增，防止旧请求回写统计
	counts        Counts
	expiry        time.Time
	mu            sync.Mutex
	onStateChange func(name string, from State, to State)
}

// ErrOpenState 熔断器打开错误
var ErrOpenState = errors.New("circuit breaker is open")

// NewCircuitBreaker 创建熔断器
//
// 示例：
//
//	cb := NewCircuitBreaker("s3-upload", Config{
//	    MaxRequests: 2,
//	    Interval:    30 * time.Second,
//	    Timeout:     30 * time.Second,
//	    ReadyToTrip: func(counts Counts) bool {
//	        return counts.ConsecutiveFailures >= 5
//	    },
//	})
func NewCircuitBreaker(name string, config Config) *CircuitBreaker {
	return &CircuitBreaker{
		name:          name,
		maxRequests:   config.MaxRequests,
		interval:      config.Interval,
		timeout:       config.Timeout,
		readyToTrip:   config.ReadyToTrip,
		state:         StateClosed,
		counts:        Counts{},
		expiry:        time.Now().Add(config.Interval),
		onStateChange: func(name string, from State, to State) {},
	}
}

// SetStateChangeCallback 设置状态变化回调（记录日志、更新监控指标）
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(name string, from State, to State)) {
	cb.onStateChange = fn
}

// Execute 执行请求
// 返回业务错误，或者熔断器打开时的ErrOpenState
func (cb *CircuitBreaker) Execute(req func() error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	err = req()

	cb.afterRequest(generation, err == nil)

	return err
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, generation := cb.currentState(now)

	if state == StateOpen {
		return generation, ErrOpenState
	} else if state == StateHalfOpen && cb.counts.Requests >= cb.maxRequests {
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, generation := cb.currentState(now)

	// 状态已切换，丢弃过期请求的结果
	if generation != before {
		return
	}

	if success {
		cb.onSuccess(state, now)
	} else {
		cb.onFailure(state, now)
	}
}

func (cb *CircuitBreaker) onSuccess(state State, now time.Time) {
	cb.counts.onSuccess()

	if state == StateHalfOpen {
		cb.setState(StateClosed, now)
	}
}

func (cb *CircuitBreaker) onFailure(state State, now time.Time) {
	cb.counts.onFailure()

	switch state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

// currentState 处理状态过期：
// - CLOSED：统计窗口过期时重置计数
// - OPEN：超时后转为HALF_OPEN
func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts.Reset()
			cb.expiry = now.Add(cb.interval)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}

	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.generation++
	cb.counts.Reset()

	switch state {
	case StateClosed:
		cb.expiry = now.Add(cb.interval)
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	case StateHalfOpen:
		cb.expiry = time.Time{}
	}

	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, prev, state)
	}
}

// State 获取当前状态（只读）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, _ := cb.currentState(now)
	return state
}

// Counts 获取当前统计数据（只读）
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}
