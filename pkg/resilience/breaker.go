// Package resilience provides the circuit breaker that guards calls to the
// external scenario store.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the breaker state.
type State int

const (
	StateClosed   State = iota // normal operation
	StateOpen                  // reject calls
	StateHalfOpen              // allow a probe call
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

var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerOpts configures the circuit breaker.
type BreakerOpts struct {
	// Name identifies the guarded dependency in state change callbacks.
	Name string
	// FailThreshold is how many consecutive failures trip the breaker.
	FailThreshold int
	// Timeout is how long the breaker stays open before entering half-open.
	Timeout time.Duration
	// HalfOpenMax is the number of probe calls allowed in half-open state.
	HalfOpenMax int
	// IsFailure decides whether an error counts against the breaker.
	// Defaults to any error except context cancellation.
	IsFailure func(error) bool
	// OnStateChange is called, outside the lock, after every transition.
	OnStateChange func(name string, from, to State)
}

// DefaultBreakerOpts provides sensible defaults.
var DefaultBreakerOpts = BreakerOpts{
	Name:          "store",
	FailThreshold: 5,
	Timeout:       30 * time.Second,
	HalfOpenMax:   1,
}

func countsAsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Breaker implements a circuit breaker with closed/open/half-open states.
type Breaker struct {
	mu            sync.Mutex
	opts          BreakerOpts
	state         State
	failures      int
	openedAt      time.Time
	halfOpenCount int
	now           func() time.Time // for testing
}

// NewBreaker creates a circuit breaker with the given options.
func NewBreaker(opts BreakerOpts) *Breaker {
	if opts.Name == "" {
		opts.Name = DefaultBreakerOpts.Name
	}
	if opts.FailThreshold <= 0 {
		opts.FailThreshold = DefaultBreakerOpts.FailThreshold
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultBreakerOpts.Timeout
	}
	if opts.HalfOpenMax <= 0 {
		opts.HalfOpenMax = DefaultBreakerOpts.HalfOpenMax
	}
	if opts.IsFailure == nil {
		opts.IsFailure = countsAsFailure
	}
	return &Breaker{opts: opts, now: time.Now}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, _ := b.currentState()
	return st
}

// currentState transitions open→half-open once the timeout elapsed and
// reports whether it did. Must hold mu.
func (b *Breaker) currentState() (State, bool) {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.opts.Timeout {
		b.state = StateHalfOpen
		b.halfOpenCount = 0
		return b.state, true
	}
	return b.state, false
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.opts.OnStateChange != nil {
		b.opts.OnStateChange(b.opts.Name, from, to)
	}
}

// admit reserves a slot for one call or returns ErrCircuitOpen.
func (b *Breaker) admit() error {
	b.mu.Lock()
	st, moved := b.currentState()
	var err error
	switch st {
	case StateOpen:
		err = ErrCircuitOpen
	case StateHalfOpen:
		if b.halfOpenCount >= b.opts.HalfOpenMax {
			err = ErrCircuitOpen
		} else {
			b.halfOpenCount++
		}
	}
	b.mu.Unlock()
	if moved {
		b.notify(StateOpen, StateHalfOpen)
	}
	return err
}

// record updates the state with the outcome of an admitted call.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	from := b.state
	if err != nil && b.opts.IsFailure(err) {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.opts.FailThreshold {
			b.state = StateOpen
			b.openedAt = b.now()
			b.failures = 0
			b.halfOpenCount = 0
		}
	} else if err == nil {
		if b.state == StateHalfOpen {
			b.state = StateClosed
		}
		b.failures = 0
	}
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

// Call executes f through the circuit breaker. f runs at most once.
func (b *Breaker) Call(ctx context.Context, f func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := f(ctx)
	b.record(err)
	return err
}
