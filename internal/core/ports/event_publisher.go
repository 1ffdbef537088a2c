package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// OrderEventPublisher emits order notifications. Publishing is best effort:
// implementations log and swallow every failure, so there is no error result.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order)
}

// MessageSender delivers one payload to a named channel.
type MessageSender interface {
	Send(ctx context.Context, channel string, body []byte) error
}
