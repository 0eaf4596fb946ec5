package infra

import (
	"log/slog"
	"sync"
	"time"
)

// State is the breaker position.
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // venue treated as down, calls rejected
	StateHalfOpen              // probing whether the venue recovered
)

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

// CircuitBreaker stops the REST client from hammering a venue that keeps
// erroring. After failureThreshold consecutive failures it opens and
// rejects calls outright; once timeout passes it lets probes through and
// closes again after successThreshold of them succeed. Safe for
// concurrent use.
type CircuitBreaker struct {
	name string
	mu   sync.RWMutex

	state        State
	failureCount int
	successCount int
	lastFailure  time.Time

	failureThreshold int
	successThreshold int
	timeout          time.Duration
}

// CircuitBreakerConfig holds the breaker thresholds.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// DefaultCircuitBreakerConfig returns the thresholds used for venue REST
// calls: trip after 5 straight failures, probe after 30s, close on 2
// good probes.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:             cfg.Name,
		state:            StateClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		timeout:          cfg.Timeout,
	}
}

// Allow reports whether the next call may go out. An open breaker whose
// timeout has elapsed flips to half-open and lets the call through as a
// probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(cb.lastFailure) > cb.timeout {
			cb.state = StateHalfOpen
			cb.successCount = 0
			slog.Info("BREAKER_HALF_OPEN", slog.String("name", cb.name))
			return true
		}
		return false

	case StateHalfOpen:
		return true

	default:
		return false
	}
}

// RecordSuccess feeds back a completed call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0

	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.successCount = 0
			slog.Info("BREAKER_CLOSED", slog.String("name", cb.name))
		}
	}
}

// RecordFailure feeds back a failed call. A single failure during a
// half-open probe reopens immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = time.Now()

	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.state = StateOpen
			slog.Warn("BREAKER_OPEN",
				slog.String("name", cb.name),
				slog.Int("failures", cb.failureCount))
		}

	case StateHalfOpen:
		cb.state = StateOpen
		cb.successCount = 0
		slog.Warn("BREAKER_REOPENED", slog.String("name", cb.name))
	}
}

// GetState returns the current position, for monitoring.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	slog.Info("BREAKER_RESET", slog.String("name", cb.name))
}
