// Package shipmentrepo persists shipment aggregates with GORM. Tracking
// numbers are protected by a unique index.
package shipmentrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment aggregates.
type ShipmentDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber   string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecipientName    string     `gorm:"type:varchar(255);not null"`
	RecipientAddress string     `gorm:"type:varchar(500);not null"`
	Status           string     `gorm:"type:varchar(16);not null"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	Version          int64 `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "shipment_dtos".
func (ShipmentDTO) TableName() string {
	return "shipments"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:               s.ID().Bytes(),
		TrackingNumber:   s.TrackingNumber(),
		OrderID:          s.OrderID().Bytes(),
		RecipientName:    s.RecipientName(),
		RecipientAddress: s.RecipientAddress().String(),
		Status:           s.Status().String(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
		ShippedAt:        s.ShippedAt(),
		DeliveredAt:      s.DeliveredAt(),
		Version:          s.Version(),
	}
}

func (dto ShipmentDTO) mutableColumns() map[string]any {
	return map[string]any{
		"status":       dto.Status,
		"updated_at":   dto.UpdatedAt,
		"shipped_at":   dto.ShippedAt,
		"delivered_at": dto.DeliveredAt,
		"version":      dto.Version + 1,
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewAddress(dto.RecipientAddress)
	if err != nil {
		return nil, err
	}

	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(
		id,
		orderID,
		dto.RecipientName,
		address,
		dto.TrackingNumber,
		status,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.ShippedAt,
		dto.DeliveredAt,
		dto.Version,
	)
}
