// Package infra provides shared infrastructure for the Ghost Content MCP server.
// It holds the circuit breaker that guards outbound Content API calls.
package infra

import (
	"sync"
	"time"
)

// CircuitState represents the current state of the circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing fast, rejecting requests
	CircuitHalfOpen                     // Probing whether the site recovered
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig tunes a CircuitBreaker. Zero fields take the defaults.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures before opening (default 5)
	ResetTimeout     time.Duration // open duration before probing (default 30s)
	HalfOpenMax      int           // probes allowed while half-open (default 2)

	// OnStateChange is called with the new state after every transition,
	// outside the breaker lock.
	OnStateChange func(CircuitState)
}

// CircuitBreaker fails fast once the Ghost site looks unreachable, instead of
// letting every tool call wait for the HTTP timeout.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg BreakerConfig

	state            CircuitState
	consecutiveFails int
	lastFailure      time.Time
	halfOpenCount    int
	halfOpenSince    time.Time

	now func() time.Time
}

// NewCircuitBreaker creates a circuit breaker. Zero-valued config fields fall
// back to 5 failures, 30 seconds and 2 half-open probes.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = 2
	}
	return &CircuitBreaker{cfg: cfg, state: CircuitClosed, now: time.Now}
}

// Allow reports whether a request may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	allowed, changed := cb.allowLocked()
	state := cb.state
	cb.mu.Unlock()

	if changed {
		cb.notify(state)
	}
	return allowed
}

func (cb *CircuitBreaker) allowLocked() (allowed, changed bool) {
	switch cb.state {
	case CircuitClosed:
		return true, false
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) > cb.cfg.ResetTimeout {
			cb.state = CircuitHalfOpen
			cb.halfOpenCount = 1
			cb.halfOpenSince = cb.now()
			return true, true
		}
		return false, false
	case CircuitHalfOpen:
		// Probes that never report back must not pin the circuit half-open.
		if cb.halfOpenCount >= cb.cfg.HalfOpenMax && cb.now().Sub(cb.halfOpenSince) > cb.cfg.ResetTimeout {
			cb.halfOpenCount = 0
			cb.halfOpenSince = cb.now()
		}
		if cb.halfOpenCount < cb.cfg.HalfOpenMax {
			cb.halfOpenCount++
			return true, false
		}
		return false, false
	default:
		return false, false
	}
}

// Release returns a half-open probe taken by Allow for a request that ended
// without an outcome, such as one canceled by its caller.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitHalfOpen && cb.halfOpenCount > 0 {
		cb.halfOpenCount--
	}
}

// RecordSuccess resets the failure streak and closes a half-open circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	cb.consecutiveFails = 0
	changed := cb.state == CircuitHalfOpen
	if changed {
		cb.state = CircuitClosed
		cb.halfOpenCount = 0
	}
	cb.mu.Unlock()

	if changed {
		cb.notify(CircuitClosed)
	}
}

// RecordFailure extends the failure streak, opening the circuit at the
// threshold. Any failure while half-open reopens it.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	cb.consecutiveFails++
	cb.lastFailure = cb.now()

	changed := false
	switch cb.state {
	case CircuitClosed:
		if cb.consecutiveFails >= cb.cfg.FailureThreshold {
			cb.state = CircuitOpen
			changed = true
		}
	case CircuitHalfOpen:
		cb.state = CircuitOpen
		cb.halfOpenCount = 0
		changed = true
	}
	cb.mu.Unlock()

	if changed {
		cb.notify(CircuitOpen)
	}
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns circuit breaker statistics
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return CircuitBreakerStats{
		State:            cb.state.String(),
		ConsecutiveFails: cb.consecutiveFails,
		LastFailure:      cb.lastFailure,
		RetryAt:          cb.lastFailure.Add(cb.cfg.ResetTimeout),
	}
}

func (cb *CircuitBreaker) notify(state CircuitState) {
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(state)
	}
}

// CircuitBreakerStats contains circuit breaker statistics
type CircuitBreakerStats struct {
	State            string    `json:"state"`
	ConsecutiveFails int       `json:"consecutive_failures"`
	LastFailure      time.Time `json:"last_failure,omitempty"`
	RetryAt          time.Time `json:"retry_at,omitempty"`
}

// ErrCircuitOpen is returned when the circuit breaker rejects a request
type ErrCircuitOpen struct {
	RetryAt  time.Time
	Failures int
}

func (e *ErrCircuitOpen) Error() string {
	return "circuit breaker is open after repeated failures reaching the Ghost site, retry after " + e.RetryAt.Format(time.RFC3339)
}
