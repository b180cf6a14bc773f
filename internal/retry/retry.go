// Package retry is the shared bounded-retry policy for network-bound
// capability calls. Embedding and generation use the same backoff shape so
// the pipeline's worst-case latency stays predictable.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy describes a bounded exponential backoff.
type Policy struct {
	MaxAttempts int
	InitialWait time.Duration
	Multiplier  float64
}

// Default is 3 attempts starting at 500ms, doubling between attempts.
func Default() Policy {
	return Policy{MaxAttempts: 3, InitialWait: 500 * time.Millisecond, Multiplier: 2}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.InitialWait <= 0 {
		p.InitialWait = 500 * time.Millisecond
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	return p
}

// permanentError marks an error that further attempts cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Stop wraps err so Do returns it immediately without further attempts.
func Stop(err error) error { return &permanentError{err: err} }

// Do runs fn up to MaxAttempts times, sleeping between attempts. Returns the
// last error when every attempt fails, or ctx.Err() as soon as the context is
// done; an expired pipeline deadline is not worth another attempt.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	p = p.normalized()

	wait := p.InitialWait
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = time.Duration(float64(wait) * p.Multiplier)
	}
	return lastErr
}
