package transport

import (
	"errors"
	"testing"
	"time"
)

var errConnection = errors.New("connection refused")

// fakeClock lets tests move past the cooldown without sleeping
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(config CircuitBreakerConfig) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(config)
	cb.now = clock.now
	cb.lastStateChangeTime = clock.now()
	return cb, clock
}

func tripBreaker(cb *CircuitBreaker, n uint32) {
	for i := uint32(0); i < n; i++ {
		_ = cb.Call(func() error { return errConnection })
	}
}

func TestCircuitBreaker_DefaultConfig(t *testing.T) {
	config := DefaultCircuitBreakerConfig()

	if config.MaxFailures != 5 {
		t.Errorf("Expected MaxFailures = 5, got %d", config.MaxFailures)
	}

	if config.Cooldown != 30*time.Second {
		t.Errorf("Expected Cooldown = 30s, got %v", config.Cooldown)
	}

	if config.MaxTrials != 1 {
		t.Errorf("Expected MaxTrials = 1, got %d", config.MaxTrials)
	}
}

func TestCircuitBreaker_InitialState(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	if cb.State() != StateClosed {
		t.Errorf("Expected initial state = closed, got %v", cb.State())
	}

	if cb.Failures() != 0 {
		t.Errorf("Expected failures = 0, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_SuccessfulCalls(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	for i := 0; i < 10; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("Expected success, got error: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed after successes, got %v", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 3, Cooldown: time.Minute, MaxTrials: 1})

	tripBreaker(cb, 2)
	if cb.State() != StateClosed {
		t.Fatalf("Expected state = closed after 2 failures, got %v", cb.State())
	}

	tripBreaker(cb, 1)
	if cb.State() != StateOpen {
		t.Fatalf("Expected state = open after 3 failures, got %v", cb.State())
	}

	called := false
	err := cb.Call(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("Expected fn not to run while circuit is open")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 3, Cooldown: time.Minute, MaxTrials: 1})

	tripBreaker(cb, 2)
	_ = cb.Call(func() error { return nil })
	tripBreaker(cb, 2)

	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed, got %v", cb.State())
	}
	if cb.Failures() != 2 {
		t.Errorf("Expected failures = 2, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	tests := []struct {
		name      string
		trialErr  error
		wantState CircuitState
	}{
		{name: "successful trial closes circuit", trialErr: nil, wantState: StateClosed},
		{name: "failed trial reopens circuit", trialErr: errConnection, wantState: StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, clock := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Cooldown: 10 * time.Second, MaxTrials: 1})
			tripBreaker(cb, 1)

			clock.advance(11 * time.Second)

			err := cb.Call(func() error {
				if cb.State() != StateHalfOpen {
					t.Errorf("Expected state = half-open during trial, got %v", cb.State())
				}
				return tt.trialErr
			})
			if !errors.Is(err, tt.trialErr) {
				t.Errorf("Expected trial error %v, got %v", tt.trialErr, err)
			}
			if cb.State() != tt.wantState {
				t.Errorf("Expected state = %v, got %v", tt.wantState, cb.State())
			}
		})
	}
}

func TestCircuitBreaker_HalfOpenRejectsExtraTrials(t *testing.T) {
	cb, clock := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Cooldown: time.Second, MaxTrials: 1})
	tripBreaker(cb, 1)
	clock.advance(2 * time.Second)

	var inner error
	_ = cb.Call(func() error {
		inner = cb.Call(func() error { return nil })
		return nil
	})

	if !errors.Is(inner, ErrTooManyTrials) {
		t.Errorf("Expected ErrTooManyTrials for concurrent trial, got %v", inner)
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []CircuitState
	cb, clock := newTestBreaker(CircuitBreakerConfig{
		MaxFailures: 1,
		Cooldown:    time.Second,
		MaxTrials:   1,
		OnStateChange: func(s CircuitState) {
			transitions = append(transitions, s)
		},
	})

	tripBreaker(cb, 1)
	clock.advance(2 * time.Second)
	_ = cb.Call(func() error { return nil })

	want := []CircuitState{StateOpen, StateHalfOpen, StateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("Expected %d transitions, got %v", len(want), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("Transition %d: expected %v, got %v", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Cooldown: time.Hour, MaxTrials: 1})
	tripBreaker(cb, 1)

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed after reset, got %v", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("Expected failures = 0 after reset, got %d", cb.Failures())
	}
}

func TestCircuitState_String(t *testing.T) {
	cases := map[CircuitState]string{
		StateClosed:      "closed",
		StateOpen:        "open",
		StateHalfOpen:    "half-open",
		CircuitState(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
