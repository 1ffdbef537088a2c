package ports

import (
	"context"
	"errors"
)

// ErrTrackingNumberTaken reports a collision on the unique tracking number index.
var ErrTrackingNumberTaken = errors.New("tracking number is already taken")

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Each status transition of an
// order or a shipment runs in its own unit of work; remote calls and event
// publishing never do.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository

	// ShipmentRepository returns a repository bound to the current transaction.
	ShipmentRepository() ShipmentRepository
}
