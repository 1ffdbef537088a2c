package queries

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetShipmentQueryIsNotConstructed = errors.New(
		"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
	)
	ErrGetShipmentByTrackingQueryIsNotConstructed = errors.New(
		"GetShipmentByTrackingQuery must be created via NewGetShipmentByTrackingQuery constructor",
	)
	ErrGetShipmentsByOrderQueryIsNotConstructed = errors.New(
		"GetShipmentsByOrderQuery must be created via NewGetShipmentsByOrderQuery constructor",
	)
)

// GetShipmentQuery reads one shipment by id.
type GetShipmentQuery struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// GetShipmentByTrackingQuery reads one shipment by its public tracking number.
type GetShipmentByTrackingQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

func NewGetShipmentByTrackingQuery(trackingNumber string) (GetShipmentByTrackingQuery, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return GetShipmentByTrackingQuery{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	return GetShipmentByTrackingQuery{trackingNumber: trackingNumber, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentByTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentByTrackingQueryIsNotConstructed)
}

func (q GetShipmentByTrackingQuery) TrackingNumber() string {
	return q.trackingNumber
}

// GetShipmentsByOrderQuery lists every shipment created for an order. There is
// normally one, more only after a lost race on confirmation.
type GetShipmentsByOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipmentsByOrderQuery(orderID kernel.UUID) (GetShipmentsByOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetShipmentsByOrderQuery{}, err
	}
	return GetShipmentsByOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentsByOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentsByOrderQueryIsNotConstructed)
}

func (q GetShipmentsByOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
