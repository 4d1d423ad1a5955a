package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errUnreachable = errors.New("store unreachable")

func failing(context.Context) error { return errUnreachable }
func passing(context.Context) error { return nil }

func TestBreakerStartsClosed(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Second})
	if b.State() != StateClosed {
		t.Fatalf("expected closed, got %v", b.State())
	}
}

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Second})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := b.Call(ctx, failing); !errors.Is(err, errUnreachable) {
			t.Fatalf("call %d: expected store error, got %v", i, err)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %v", b.State())
	}

	ran := false
	err := b.Call(ctx, func(context.Context) error { ran = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) || ran {
		t.Fatalf("expected rejection without running, got %v ran=%v", err, ran)
	}
}

func TestBreakerResetsOnSuccess(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Second})
	ctx := context.Background()

	_ = b.Call(ctx, failing)
	_ = b.Call(ctx, failing)
	_ = b.Call(ctx, passing)
	_ = b.Call(ctx, failing)
	_ = b.Call(ctx, failing)
	if b.State() != StateClosed {
		t.Fatalf("expected still closed, got %v", b.State())
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Second})
	_ = b.Call(context.Background(), func(context.Context) error { return context.Canceled })
	if b.State() != StateClosed {
		t.Fatalf("cancellation should not trip the breaker, got %v", b.State())
	}
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	var transitions []string
	b := NewBreaker(BreakerOpts{
		Name:          "dynamodb",
		FailThreshold: 2,
		Timeout:       5 * time.Second,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
			mu.Unlock()
		},
	})
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Call(ctx, failing)
	_ = b.Call(ctx, failing)
	now = now.Add(6 * time.Second)
	if err := b.Call(ctx, passing); err != nil {
		t.Fatalf("probe should run, got %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("expected closed after probe success, got %v", b.State())
	}

	want := []string{"dynamodb:closed->open", "dynamodb:open->half-open", "dynamodb:half-open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, transitions)
		}
	}
}

func TestBreakerHalfOpenFailure(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 2, Timeout: 5 * time.Second, HalfOpenMax: 1})
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Call(ctx, failing)
	_ = b.Call(ctx, failing)
	now = now.Add(6 * time.Second)
	_ = b.Call(ctx, failing)
	if b.State() != StateOpen {
		t.Fatalf("expected open after probe failure, got %v", b.State())
	}
}

func TestBreakerHalfOpenMaxExceeded(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Second, HalfOpenMax: 1})
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Call(ctx, failing)
	now = now.Add(2 * time.Second)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Call(ctx, func(context.Context) error { <-release; return nil })
	}()
	// Wait for the probe to be admitted.
	for {
		b.mu.Lock()
		n := b.halfOpenCount
		b.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if err := b.Call(ctx, passing); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe should be rejected, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("probe failed: %v", err)
	}
}

func TestNewBreakerDefaults(t *testing.T) {
	b := NewBreaker(BreakerOpts{})
	if b.opts.Name != "store" || b.opts.FailThreshold != 5 || b.opts.Timeout != 30*time.Second || b.opts.HalfOpenMax != 1 {
		t.Fatalf("unexpected defaults %+v", b.opts)
	}
	if StateHalfOpen.String() != "half-open" || State(9).String() != "unknown" {
		t.Fatal("unexpected state names")
	}
}
