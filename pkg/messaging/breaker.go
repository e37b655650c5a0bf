package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/whiskystock/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// ErrPublisherUnavailable is returned while the circuit is open and events are being dropped.
var ErrPublisherUnavailable = errors.New("event publisher unavailable")

// BreakerPublisher guards a Publisher with a circuit breaker so a broker outage
// fails fast instead of stalling every stock operation on publish timeouts.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher wraps next with a circuit breaker configured by cfg.
func NewBreakerPublisher(next Publisher, cfg config.CircuitBreakerConfig) *BreakerPublisher {
	st := gobreaker.Settings{
		Name:        "whisky-event-publisher",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about the broker health
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerPublisher{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

// Publish forwards the event unless the circuit is open.
func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrPublisherUnavailable, err)
	}
	return err
}

// State reports the current breaker state.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.cb.State()
}
