package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/shipment"
)

// CreateShipmentRequest asks the shipment service for a new shipment.
type CreateShipmentRequest struct {
	OrderID          kernel.UUID
	RecipientName    string
	RecipientAddress string
}

// ShipmentRecord is the shipment service's view of a shipment.
type ShipmentRecord struct {
	ID               kernel.UUID
	TrackingNumber   string
	OrderID          kernel.UUID
	RecipientName    string
	RecipientAddress string
	Status           shipment.Status
	CreatedAt        time.Time
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
}

// ShipmentClient talks to the shipment service. Errors follow the same
// taxonomy as UserClient.
type ShipmentClient interface {
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (ShipmentRecord, error)
	FetchShipment(ctx context.Context, id kernel.UUID) (ShipmentRecord, error)
	FetchShipmentByTracking(ctx context.Context, trackingNumber string) (ShipmentRecord, error)
}
