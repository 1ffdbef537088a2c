// Package messaging publishes order notifications to a message channel.
//
// Publishing happens after the order transaction committed and is best
// effort: failures are logged and counted, never returned. There is no
// outbox, so an event lost here is not replayed.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	// DefaultChannel is the queue order events go to unless configured otherwise.
	DefaultChannel = "order-events"

	publishTimeout = 5 * time.Second
)

// OrderCreatedEvent is the flat payload consumed by the notification side.
type OrderCreatedEvent struct {
	OrderID         string          `json:"orderId"`
	UserID          string          `json:"userId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingAddress string          `json:"shippingAddress"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// NewOrderCreatedEvent flattens o.
func NewOrderCreatedEvent(o *order.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:         o.ID().String(),
		UserID:          o.UserID().String(),
		ProductName:     o.ProductName(),
		Quantity:        o.Quantity(),
		TotalPrice:      o.TotalPrice().Amount(),
		ShippingAddress: o.ShippingAddress().String(),
		TrackingNumber:  o.TrackingNumber(),
		CreatedAt:       o.CreatedAt().UTC(),
	}
}

var _ ports.OrderEventPublisher = (*OrderEventPublisher)(nil)

type OrderEventPublisher struct {
	sender    ports.MessageSender
	channel   string
	logger    *slog.Logger
	published metric.Int64Counter
	failed    metric.Int64Counter
}

// NewOrderEventPublisher sends to channel, or DefaultChannel when it is
// blank. A nil meter disables metrics.
func NewOrderEventPublisher(
	sender ports.MessageSender,
	channel string,
	logger *slog.Logger,
	meter metric.Meter,
) (*OrderEventPublisher, error) {
	if sender == nil {
		return nil, errs.NewValueIsRequiredError("sender")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("orderflow/messaging")
	}

	published, err := meter.Int64Counter("orderflow.events.published",
		metric.WithDescription("Order events handed to the message channel"))
	if err != nil {
		return nil, fmt.Errorf("create published counter: %w", err)
	}
	failed, err := meter.Int64Counter("orderflow.events.publish_failures",
		metric.WithDescription("Order events that could not be published"))
	if err != nil {
		return nil, fmt.Errorf("create failure counter: %w", err)
	}

	return &OrderEventPublisher{
		sender:    sender,
		channel:   channel,
		logger:    logger.With("component", "order-event-publisher"),
		published: published,
		failed:    failed,
	}, nil
}

// PublishOrderCreated never fails the caller. The send is detached from the
// caller's cancellation so a finished HTTP request does not drop the event.
func (p *OrderEventPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) {
	if err := o.Validate(); err != nil {
		p.logger.ErrorContext(ctx, "refusing to publish unconstructed order", slog.String("error", err.Error()))
		return
	}

	orderID := o.ID().String()
	attrs := metric.WithAttributes(attribute.String("channel", p.channel))

	body, err := json.Marshal(NewOrderCreatedEvent(o))
	if err != nil {
		p.failed.Add(ctx, 1, attrs)
		p.logger.ErrorContext(ctx, "failed to encode order event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err = p.sender.Send(sendCtx, p.channel, body); err != nil {
		p.failed.Add(ctx, 1, attrs)
		p.logger.ErrorContext(ctx, "failed to publish order event",
			slog.String("order_id", orderID),
			slog.String("channel", p.channel),
			slog.String("error", err.Error()),
		)
		return
	}

	p.published.Add(ctx, 1, attrs)
	p.logger.InfoContext(ctx, "order event published",
		slog.String("order_id", orderID),
		slog.String("channel", p.channel),
	)
}
