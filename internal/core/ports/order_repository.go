// Package ports defines the contracts between the application core and its
// adapters: repositories and the unit of work for local state, clients for the
// remote user and shipment services, and the outbound event channel.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a changed order only if the stored version still equals
	// aggregate.Version(). On success the stored version and the aggregate's
	// version both advance by one. A stale version fails with
	// errs.VersionIsInvalidError; a missing row with errs.ObjectNotFoundError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id or fails with errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus returns up to limit orders in the given status, oldest
	// first. A non-positive limit means no limit.
	GetAllInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)
}
