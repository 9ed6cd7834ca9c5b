package backoff

import (
	"context"
	"errors"
	"time"

	"coursegen/internal/services"
)

const (
	// DefaultMaxAttempts is the attempt budget used when none is configured.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the wait after the first failed attempt.
	DefaultBaseDelay = time.Second

	maxShift = 30
)

// Attempt describes one failed attempt that is about to be followed by a wait.
type Attempt struct {
	Number int
	Delay  time.Duration
	Err    error
}

// Option customizes a single Do call.
type Option func(*policy)

type policy struct {
	maxAttempts int
	baseDelay   time.Duration
	retryable   func(error) bool
	sleeper     func(time.Duration)
	observer    func(Attempt)
}

// WithMaxAttempts overrides the attempt budget (defaults to 3). Values below one
// fall back to the default.
func WithMaxAttempts(attempts int) Option {
	return func(p *policy) {
		p.maxAttempts = attempts
	}
}

// WithBaseDelay overrides the wait after the first failed attempt.
func WithBaseDelay(delay time.Duration) Option {
	return func(p *policy) {
		p.baseDelay = delay
	}
}

// WithRetryable replaces the transient check. The default is
// services.IsTransient.
func WithRetryable(fn func(error) bool) Option {
	return func(p *policy) {
		if fn != nil {
			p.retryable = fn
		}
	}
}

// WithSleeper overrides how waits are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(p *policy) {
		p.sleeper = sleeper
	}
}

// WithObserver registers a callback invoked for every retryable failure before
// its wait starts.
func WithObserver(observer func(Attempt)) Option {
	return func(p *policy) {
		p.observer = observer
	}
}

func newPolicy(opts []Option) policy {
	p := policy{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		retryable:   services.IsTransient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = DefaultMaxAttempts
	}
	if p.baseDelay < 0 {
		p.baseDelay = 0
	}
	return p
}

// Do invokes op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. Every attempt re-runs op from scratch, so op must be
// safe to repeat.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T
	if op == nil {
		return zero, errors.New("backoff: nil operation")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p := newPolicy(opts)

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if !p.retryable(err) {
			return zero, err
		}
		lastErr = err

		delay := Delay(p.baseDelay, attempt)
		if p.observer != nil {
			p.observer(Attempt{Number: attempt, Delay: delay, Err: err})
		}
		if err := p.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

// Delay returns the wait that follows the given 1-based attempt.
func Delay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	shift := attempt - 1
	if shift < 0 {
		shift = 0
	}
	if shift > maxShift {
		shift = maxShift
	}
	return base << shift
}

func (p policy) sleep(ctx context.Context, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}
	if p.sleeper != nil {
		p.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
