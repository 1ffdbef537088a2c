// Package orderrepo persists order aggregates with GORM. The orders table
// carries a version column used for conditional updates.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(255);not null"`
	Quantity        int             `gorm:"type:int;not null"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingAddress string          `gorm:"type:varchar(500);not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	ShipmentID      *uuid.UUID      `gorm:"type:uuid;index"`
	TrackingNumber  *string         `gorm:"type:varchar(64)"`
	ShippingClaimed *time.Time      `gorm:"column:shipping_claimed_at"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
	Version         int64           `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var shipmentID *uuid.UUID
	if id := o.ShipmentID(); id != nil {
		raw := id.Bytes()
		shipmentID = &raw
	}

	var trackingNumber *string
	if tn := o.TrackingNumber(); tn != "" {
		trackingNumber = &tn
	}

	return OrderDTO{
		ID:              o.ID().Bytes(),
		UserID:          o.UserID().Bytes(),
		ProductName:     o.ProductName(),
		Quantity:        o.Quantity(),
		TotalPrice:      o.TotalPrice().Amount(),
		ShippingAddress: o.ShippingAddress().String(),
		Status:          o.Status().String(),
		ShipmentID:      shipmentID,
		TrackingNumber:  trackingNumber,
		ShippingClaimed: o.ShippingClaimedAt(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		Version:         o.Version(),
	}
}

// mutableColumns lists what a status transition may change. id, user,
// product, quantity, price and address are fixed at creation.
func (dto OrderDTO) mutableColumns() map[string]any {
	return map[string]any{
		"status":              dto.Status,
		"shipment_id":         dto.ShipmentID,
		"tracking_number":     dto.TrackingNumber,
		"shipping_claimed_at": dto.ShippingClaimed,
		"updated_at":          dto.UpdatedAt,
		"version":             dto.Version + 1,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var shipmentID *kernel.UUID
	if dto.ShipmentID != nil {
		sID, shipmentErr := kernel.UUIDFromBytes((*dto.ShipmentID)[:])
		if shipmentErr != nil {
			return nil, shipmentErr
		}
		shipmentID = &sID
	}

	var trackingNumber string
	if dto.TrackingNumber != nil {
		trackingNumber = *dto.TrackingNumber
	}

	price, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewAddress(dto.ShippingAddress)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		userID,
		dto.ProductName,
		dto.Quantity,
		price,
		address,
		status,
		shipmentID,
		trackingNumber,
		dto.ShippingClaimed,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	)
}
