package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/xpanvictor/emovox/pkg/Logger"
)

type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	// Sleep waits d or until ctx ends. Tests swap it out.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Second, Sleep: sleepCtx}
}

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

// Backoff is the wait after a failed attempt (0-based).
func (r RetryPolicy) Backoff(attempt int) time.Duration {
	return r.BaseDelay * time.Duration(1<<attempt)
}

// Retry runs fn until it succeeds, fails permanently, or the attempts run out.
// Only IsTransient failures are retried, each after resetting the pool.
func Retry(ctx context.Context, policy RetryPolicy, pool *Pool, logger *Logger.Logger, op string, fn func() error) error {
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
		if pool != nil {
			pool.Reset()
		}
		if attempt == attempts-1 {
			break
		}

		wait := policy.Backoff(attempt)
		logger.Warnf("%s: transient failure on attempt %d/%d, retrying in %s: %v", op, attempt+1, attempts, wait, err)
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	logger.Errorf("%s: giving up after %d attempts: %v", op, attempts, lastErr)
	return fmt.Errorf("%s: %w: %v", op, ErrConnectionFailed, lastErr)
}
