package advisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/pkg/logger"
)

// ErrBreakerOpen is returned without calling the advisor while the breaker is open
var ErrBreakerOpen = errors.New("advisor circuit breaker is open")

// BreakerState is the breaker position
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Breaker opens after Threshold consecutive failures and lets a single
// trial call through once Cooldown has elapsed.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	log       *logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a closed breaker. threshold < 1 is treated as 1.
func NewBreaker(name string, threshold int, cooldown time.Duration, log *logger.Logger) *Breaker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Breaker{
		name:      name,
		threshold: max(threshold, 1),
		cooldown:  cooldown,
		log:       log.Named("breaker"),
		now:       time.Now,
	}
}

// State reports the current position
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs op unless the breaker is open
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if !b.allow() {
		return ErrBreakerOpen
	}
	err := op(ctx)
	b.record(err)
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = BreakerHalfOpen
		b.probing = true
		b.log.Info("breaker half-open", zap.String("name", b.name))
		return true
	case BreakerHalfOpen:
		// one trial at a time
		if b.probing {
			return false
		}
		b.probing = true
		return true
	}
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil {
		if b.state != BreakerClosed {
			b.log.Info("breaker closed", zap.String("name", b.name))
		}
		b.state = BreakerClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		if b.state != BreakerOpen {
			b.log.Warn("breaker opened",
				zap.String("name", b.name),
				zap.Int("failures", b.failures),
				zap.Error(err),
			)
		}
		b.state = BreakerOpen
		b.openedAt = b.now()
	}
}
