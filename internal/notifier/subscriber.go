// Package notifier consumes whisky stock events and reports stock alerts.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/abgdnv/whiskystock/pkg/config"
	"github.com/abgdnv/whiskystock/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ackableMsg is the part of jetstream.Msg the notifier needs.
type ackableMsg interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
}

// StockLevel classifies a stock quantity against the whisky max capacity.
type StockLevel int

const (
	StockNormal StockLevel = iota
	StockFull
	StockLow
	StockOut
)

func (l StockLevel) String() string {
	switch l {
	case StockFull:
		return "full"
	case StockLow:
		return "low"
	case StockOut:
		return "out"
	default:
		return "normal"
	}
}

// Classify returns the stock level of quantity. A positive quantity at or below
// lowPercent of max is low.
func Classify(quantity, max int32, lowPercent int) StockLevel {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity >= max:
		return StockFull
	case int64(quantity)*100 <= int64(max)*int64(lowPercent):
		return StockLow
	default:
		return StockNormal
	}
}

type Notifier struct {
	logger          *slog.Logger
	lowStockPercent int
	tracer          trace.Tracer
}

func New(logger *slog.Logger, lowStockPercent int) *Notifier {
	return &Notifier{
		logger:          logger.With("component", "notifier"),
		lowStockPercent: lowStockPercent,
		tracer:          otel.Tracer("stock-notifier"),
	}
}

// Start creates the durable consumer and runs the configured number of workers until ctx is done.
func (n *Notifier) Start(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig) error {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for range subscriberCfg.Workers {
		g.Go(func() error {
			return n.runWorker(gCtx, consumer, subscriberCfg.Timeout, subscriberCfg.Interval)
		})
	}
	return g.Wait()
}

func (n *Notifier) runWorker(ctx context.Context, consumer jetstream.Consumer, timeout time.Duration, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				n.logger.ErrorContext(ctx, "failed to fetch messages", "error", err)
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				n.handleMessage(ctx, msg)
			}
		}
	}
}

func (n *Notifier) handleMessage(ctx context.Context, msg ackableMsg) {
	if msg == nil {
		n.logger.ErrorContext(ctx, "received nil message")
		return
	}
	var event events.WhiskyStockChangedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		n.logger.ErrorContext(ctx, "failed to unmarshal message", "error", err, "subject", msg.Subject())
		if err := msg.Nak(); err != nil {
			n.logger.ErrorContext(ctx, "failed to nack message", "error", err)
		}
		return
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(event.Carrier))
	ctx, span := n.tracer.Start(ctx, "notifier.handleStockChanged",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.Int64("whisky.id", event.ID)))
	defer span.End()

	n.report(ctx, event)

	if err := msg.Ack(); err != nil {
		n.logger.ErrorContext(ctx, "failed to ack message", "error", err)
	}
}

func (n *Notifier) report(ctx context.Context, event events.WhiskyStockChangedEvent) {
	attrs := []any{
		slog.Int64("id", event.ID),
		slog.String("name", event.Name),
		slog.Int("delta", int(event.Delta)),
		slog.Int("quantity", int(event.Quantity)),
		slog.Int("max", int(event.Max)),
	}
	switch Classify(event.Quantity, event.Max, n.lowStockPercent) {
	case StockOut:
		n.logger.WarnContext(ctx, "whisky is out of stock", attrs...)
	case StockLow:
		n.logger.WarnContext(ctx, "whisky stock is low", append(attrs, slog.Int("threshold_percent", n.lowStockPercent))...)
	case StockFull:
		n.logger.InfoContext(ctx, "whisky stock reached max capacity", attrs...)
	default:
		n.logger.DebugContext(ctx, "whisky stock changed", attrs...)
	}
}
