package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abgdnv/whiskystock/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

type testEvent struct{}

func (testEvent) Subject() string          { return "whisky.test" }
func (testEvent) Payload() ([]byte, error) { return []byte("{}"), nil }

// mockPublisher returns the queued responses in order, then succeeds.
// Not thread-safe, should be used in sequential tests only.
type mockPublisher struct {
	callCount int
	responses []error
}

func (p *mockPublisher) Publish(context.Context, Event) error {
	p.callCount++
	if len(p.responses) > 0 {
		err := p.responses[0]
		p.responses = p.responses[1:]
		return err
	}
	return nil
}

func newTestBreaker(next Publisher) *BreakerPublisher {
	return NewBreakerPublisher(next, config.CircuitBreakerConfig{
		ConsecutiveFailures: 3,
		ErrorRatePercent:    60,
		OpenTimeout:         time.Minute,
		HalfOpenRequests:    1,
	})
}

func TestBreakerPublisher_HappyPath(t *testing.T) {
	// given
	next := &mockPublisher{}
	publisher := newTestBreaker(next)

	// when
	err := publisher.Publish(context.Background(), testEvent{})

	// then
	require.NoError(t, err)
	require.Equal(t, 1, next.callCount)
	require.Equal(t, gobreaker.StateClosed, publisher.State())
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	// given
	next := &mockPublisher{responses: []error{errBroker, errBroker, errBroker}}
	publisher := newTestBreaker(next)

	// when
	for range 3 {
		err := publisher.Publish(context.Background(), testEvent{})
		require.ErrorIs(t, err, errBroker)
	}

	// then
	require.Equal(t, gobreaker.StateOpen, publisher.State())
	err := publisher.Publish(context.Background(), testEvent{})
	require.ErrorIs(t, err, ErrPublisherUnavailable)
	require.Equal(t, 3, next.callCount, "an open circuit must not reach the broker")
}

func TestBreakerPublisher_IgnoresCanceledContext(t *testing.T) {
	// given
	next := &mockPublisher{responses: []error{context.Canceled, context.Canceled, context.Canceled, context.Canceled}}
	publisher := newTestBreaker(next)

	// when
	for range 4 {
		err := publisher.Publish(context.Background(), testEvent{})
		require.ErrorIs(t, err, context.Canceled)
	}

	// then
	require.Equal(t, gobreaker.StateClosed, publisher.State())
	require.Equal(t, 4, next.callCount)
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, NoopPublisher{}.Publish(context.Background(), testEvent{}))
}
