package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
// Tracking numbers are unique across all shipments.
type ShipmentRepository interface {
	// Add persists a new shipment. A tracking number that is already taken
	// fails with ErrTrackingNumberTaken.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update follows the same version rules as OrderRepository.Update.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error)
}
