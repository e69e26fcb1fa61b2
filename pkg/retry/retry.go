package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// ErrExhausted is returned (wrapped) when every attempt failed
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy is an exponential backoff policy
type Policy struct {
	// Attempts is the total number of tries, including the first
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter in [0,1], applied as +/- fraction of each interval
	Jitter float64
}

// DefaultPolicy tries 4 times: 200ms, 400ms, 800ms between attempts
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   4,
		Initial:    200 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2,
		Jitter:     0.1,
	}
}

func (p Policy) normalized() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.Initial <= 0 {
		p.Initial = 200 * time.Millisecond
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	p.Jitter = math.Min(math.Max(p.Jitter, 0), 1)
	return p
}

// Interval returns the wait before retry number n (0-based)
func (p Policy) Interval(n int) time.Duration {
	p = p.normalized()
	d := float64(p.Initial) * math.Pow(p.Multiplier, float64(n))
	if p.Jitter > 0 {
		d += d * p.Jitter * (rand.Float64()*2 - 1)
	}
	if d > float64(p.Max) {
		d = float64(p.Max)
	}
	if d <= 0 {
		d = float64(p.Initial)
	}
	return time.Duration(d)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs op until it succeeds, returns a permanent error, runs out of attempts,
// or ctx is done. It returns the number of attempts made.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) (int, error) {
	p = p.normalized()

	var lastErr error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, errors.Join(err, lastErr)
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return attempt + 1, nil
		}
		if IsPermanent(lastErr) {
			return attempt + 1, errors.Unwrap(lastErr)
		}
		if attempt == p.Attempts-1 {
			break
		}

		timer := time.NewTimer(p.Interval(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt + 1, errors.Join(ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return p.Attempts, errors.Join(ErrExhausted, lastErr)
}
