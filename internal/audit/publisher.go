package audit

import (
	"context"
	"log/slog"
	"time"
)

// Sink fans events out to an external bus. Publishing is best-effort: a sink
// failure never fails the emitting request.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. Events are appended to the
// store and, when a sink is configured, published to the bus.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithSink sets an external event bus sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithLogger sets a logger for sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"shop_id", event.ShopID,
				"error", err,
			)
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, shopID string) ([]Event, error) {
	return p.store.ListByShop(ctx, shopID)
}
