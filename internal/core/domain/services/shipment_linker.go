package services

import (
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/shipment"
	"orderflow/internal/pkg/errs"
)

// ShipmentRef is the part of a shipment the order side relies on.
type ShipmentRef struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	TrackingNumber string
	Status         shipment.Status
}

// ShipmentLinker applies shipment facts to orders.
//
// Business rules:
//   - a shipment may only be linked to the order it was created for
//   - linking moves the order Confirmed -> Shipped together with the linkage
//   - a linked order follows its shipment to Delivered, never backwards
type ShipmentLinker struct{}

func NewShipmentLinker() ShipmentLinker {
	return ShipmentLinker{}
}

// Link marks o as shipped with ref's id and tracking number.
func (l ShipmentLinker) Link(o *order.Order, ref ShipmentRef, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if err := ref.ID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("shipment", fmt.Errorf("shipment id: %w", err))
	}

	if !ref.OrderID.IsEqual(o.ID()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"shipment",
			fmt.Errorf("shipment %s belongs to order %s, not %s", ref.ID, ref.OrderID, o.ID()),
		)
	}

	return o.MarkShipped(ref.ID, ref.TrackingNumber, now)
}

// SyncDelivery moves a shipped order to Delivered once its shipment was
// delivered. It reports whether the order changed. Shipments that are still
// under way leave the order untouched.
func (l ShipmentLinker) SyncDelivery(o *order.Order, ref ShipmentRef, now time.Time) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	linked := o.ShipmentID()
	if linked == nil || !linked.IsEqual(ref.ID) {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"shipment",
			fmt.Errorf("order %s is not linked to shipment %s", o.ID(), ref.ID),
		)
	}

	if ref.Status != shipment.Delivered {
		return false, nil
	}

	if err := o.MarkDelivered(now); err != nil {
		return false, err
	}

	return true, nil
}
