package booking

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/iliyamo/carwash-slot-booking/internal/repository"
)

// Defaults for the retry driver. Five attempts with a 10ms base and a
// 200ms cap keeps worst-case added latency under a second while still
// riding out short contention bursts.
const (
	DefaultMaxAttempts = 5
	DefaultBackoffBase = 10 * time.Millisecond
	DefaultBackoffCap  = 200 * time.Millisecond
)

// jitterFrac is the fraction by which each backoff delay is randomly
// stretched or shrunk, so colliding callers do not retry in lockstep.
const jitterFrac = 0.2

// RetryDriver wraps a Coordinator and makes repository.ErrConflict
// invisible to the caller: each conflicted attempt is re-run against
// fresh state after a capped exponential backoff. Genuine business
// failures (not found, slot unavailable, store unavailable) pass
// through immediately.
type RetryDriver struct {
	coord       *Coordinator
	maxAttempts int
	base        time.Duration
	cap         time.Duration

	// sleep is swapped out by tests; it must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryDriver constructs a RetryDriver. Non-positive maxAttempts,
// base or cap fall back to the package defaults.
func NewRetryDriver(coord *Coordinator, maxAttempts int, base, cap time.Duration) *RetryDriver {
	if coord == nil {
		panic("nil coordinator passed to NewRetryDriver")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if cap <= 0 {
		cap = DefaultBackoffCap
	}
	return &RetryDriver{
		coord:       coord,
		maxAttempts: maxAttempts,
		base:        base,
		cap:         cap,
		sleep:       sleepCtx,
	}
}

// ReserveWithRetry runs Coordinator.Reserve until it succeeds, fails
// with a non-conflict error, or maxAttempts conflicts are exhausted,
// in which case it returns repository.ErrConflictExhausted. Every
// attempt re-reads the service fresh; no stale snapshot is reused.
func (d *RetryDriver) ReserveWithRetry(ctx context.Context, serviceID, slot, userID, address string) (string, error) {
	for attempt := 1; ; attempt++ {
		id, err := d.coord.Reserve(ctx, serviceID, slot, userID, address)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return "", err
		}
		if attempt >= d.maxAttempts {
			return "", repository.ErrConflictExhausted
		}
		if err := d.sleep(ctx, d.backoff(attempt)); err != nil {
			return "", err
		}
	}
}

// ReplaceSlotsWithRetry applies the same retry policy to operator
// slot edits.
func (d *RetryDriver) ReplaceSlotsWithRetry(ctx context.Context, serviceID string, slots []string) error {
	for attempt := 1; ; attempt++ {
		err := d.coord.ReplaceSlots(ctx, serviceID, slots)
		if err == nil || !errors.Is(err, repository.ErrConflict) {
			return err
		}
		if attempt >= d.maxAttempts {
			return repository.ErrConflictExhausted
		}
		if err := d.sleep(ctx, d.backoff(attempt)); err != nil {
			return err
		}
	}
}

// backoff returns the delay before the next attempt: base doubled per
// completed attempt, capped, then jittered by ±jitterFrac.
func (d *RetryDriver) backoff(attempt int) time.Duration {
	delay := d.base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= d.cap {
			delay = d.cap
			break
		}
	}
	// Jitter in [-jitterFrac, +jitterFrac] of the delay.
	j := 1 + jitterFrac*(2*rand.Float64()-1)
	return time.Duration(float64(delay) * j)
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes
// first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
