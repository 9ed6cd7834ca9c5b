package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursegen/internal/services"
)

func transient(msg string) error {
	return services.Wrap(services.ErrTransient, "llm", "request", msg, nil)
}

func recordSleeps(slept *[]time.Duration) Option {
	return WithSleeper(func(d time.Duration) { *slept = append(*slept, d) })
}

func TestDoRetriesTransientThenReturnsLastError(t *testing.T) {
	var calls int
	var slept []time.Duration
	_, err := Do(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls == 3 {
			return "", transient("http 500")
		}
		return "", transient("http 503")
	}, recordSleeps(&slept))
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != DefaultMaxAttempts {
		t.Fatalf("expected %d calls, got %d", DefaultMaxAttempts, calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("expected sleeps %v, got %v", want, slept)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("expected sleeps %v, got %v", want, slept)
		}
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if got := err.Error(); got != transient("http 500").Error() {
		t.Fatalf("expected last error to be returned, got %q", got)
	}
}

func TestDoDoesNotRetryTerminalErrors(t *testing.T) {
	terminal := []error{
		services.Wrap(services.ErrProvider, "llm", "request", "http 400", nil),
		errors.New("dial tcp: connection refused"),
		services.Wrap(services.ErrParse, "llm", "decode", "not json", nil),
	}
	for _, want := range terminal {
		var calls int
		var slept []time.Duration
		_, err := Do(context.Background(), func(context.Context) (int, error) {
			calls++
			return 0, want
		}, recordSleeps(&slept))
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if calls != 1 {
			t.Fatalf("expected single call for %v, got %d", want, calls)
		}
		if len(slept) != 0 {
			t.Fatalf("expected no sleeps for %v, got %v", want, slept)
		}
	}
}

func TestDoStopsOnFirstSuccess(t *testing.T) {
	var calls int
	var slept []time.Duration
	got, err := Do(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", transient("http 429")
		}
		return "ok", nil
	}, recordSleeps(&slept), WithMaxAttempts(5))
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single 1s sleep, got %v", slept)
	}
}

func TestDoObserverSeesEveryRetry(t *testing.T) {
	var attempts []Attempt
	_, _ = Do(context.Background(), func(context.Context) (bool, error) {
		return false, transient("http 503")
	},
		WithMaxAttempts(2),
		WithBaseDelay(10*time.Millisecond),
		WithSleeper(func(time.Duration) {}),
		WithObserver(func(a Attempt) { attempts = append(attempts, a) }),
	)
	if len(attempts) != 2 {
		t.Fatalf("expected 2 observed attempts, got %d", len(attempts))
	}
	if attempts[0].Number != 1 || attempts[0].Delay != 10*time.Millisecond {
		t.Fatalf("unexpected first attempt: %+v", attempts[0])
	}
	if attempts[1].Number != 2 || attempts[1].Delay != 20*time.Millisecond {
		t.Fatalf("unexpected second attempt: %+v", attempts[1])
	}
	if !services.IsTransient(attempts[1].Err) {
		t.Fatalf("expected attempt error to be recorded, got %v", attempts[1].Err)
	}
}

func TestDoContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	_, err := Do(ctx, func(context.Context) (int, error) {
		calls++
		return 0, transient("http 503")
	}, WithSleeper(func(time.Duration) { cancel() }))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no further attempts after cancel, got %d", calls)
	}
}

func TestDoRealTimerHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := Do(ctx, func(context.Context) (int, error) {
		return 0, transient("http 429")
	}, WithBaseDelay(time.Hour))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("expected wait to be interrupted by context")
	}
}

func TestDoCustomRetryable(t *testing.T) {
	sentinel := errors.New("flaky")
	var calls int
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, sentinel
	},
		WithRetryable(func(err error) bool { return errors.Is(err, sentinel) }),
		WithSleeper(func(time.Duration) {}),
		WithMaxAttempts(4),
	)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}
}

func TestDelaySchedule(t *testing.T) {
	cases := map[int]time.Duration{
		0: time.Second,
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
		4: 8 * time.Second,
	}
	for attempt, want := range cases {
		if got := Delay(time.Second, attempt); got != want {
			t.Fatalf("Delay(1s, %d) = %s, want %s", attempt, got, want)
		}
	}
	if got := Delay(0, 3); got != 0 {
		t.Fatalf("expected zero delay for zero base, got %s", got)
	}
}

func TestDoNilOperation(t *testing.T) {
	if _, err := Do[int](context.Background(), nil); err == nil {
		t.Fatal("expected error for nil operation")
	}
}
