package shipment

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrShipmentIsNotConstructed is returned for shipments not built by NewShipment or RestoreShipment.
var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

// Shipment is the physical delivery created for a confirmed order. The
// tracking number is assigned at creation and never changes; shippedAt and
// deliveredAt are stamped only by the matching transitions.
type Shipment struct {
	id               kernel.UUID
	trackingNumber   string
	orderID          kernel.UUID
	recipientName    string
	recipientAddress kernel.Address
	status           Status
	createdAt        time.Time
	updatedAt        time.Time
	shippedAt        *time.Time
	deliveredAt      *time.Time
	version          int64

	isConstructed bool
}

// NewShipment creates a Pending shipment.
func NewShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	recipientName string,
	recipientAddress kernel.Address,
	trackingNumber string,
	now time.Time,
) (*Shipment, error) {
	s := &Shipment{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setOrderID(orderID),
		s.setRecipientName(recipientName),
		s.setRecipientAddress(recipientAddress),
		s.setTrackingNumber(trackingNumber),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreShipment rebuilds a shipment from persistence.
func RestoreShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	recipientName string,
	recipientAddress kernel.Address,
	trackingNumber string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
	shippedAt *time.Time,
	deliveredAt *time.Time,
	version int64,
) (*Shipment, error) {
	s, err := NewShipment(id, orderID, recipientName, recipientAddress, trackingNumber, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	s.status = status
	s.updatedAt = updatedAt.UTC()
	s.shippedAt = utcPtr(shippedAt)
	s.deliveredAt = utcPtr(deliveredAt)
	s.version = version
	return s, nil
}

// Validate ensures the Shipment instance was created through NewShipment or
// RestoreShipment.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// Accessors. Timestamps are returned in UTC; ShippedAt and DeliveredAt stay
// nil until the matching transition happened.
func (s *Shipment) ID() kernel.UUID                  { return s.id }
func (s *Shipment) TrackingNumber() string           { return s.trackingNumber }
func (s *Shipment) OrderID() kernel.UUID             { return s.orderID }
func (s *Shipment) RecipientName() string            { return s.recipientName }
func (s *Shipment) RecipientAddress() kernel.Address { return s.recipientAddress }
func (s *Shipment) Status() Status                   { return s.status }
func (s *Shipment) CreatedAt() time.Time             { return s.createdAt }
func (s *Shipment) UpdatedAt() time.Time             { return s.updatedAt }
func (s *Shipment) ShippedAt() *time.Time            { return utcPtr(s.shippedAt) }
func (s *Shipment) DeliveredAt() *time.Time          { return utcPtr(s.deliveredAt) }
func (s *Shipment) Version() int64                   { return s.version }

// AdvanceVersion is called by repositories after a successful conditional write.
func (s *Shipment) AdvanceVersion() {
	s.version++
}

// UpdateStatus applies target if the transition table allows it.
func (s *Shipment) UpdateStatus(target Status, now time.Time) error {
	if err := CanTransition(s.status, target); err != nil {
		return err
	}

	stamp := now.UTC()
	switch target { //nolint:exhaustive // other targets carry no timestamp
	case Shipped:
		s.shippedAt = &stamp
	case Delivered:
		s.deliveredAt = &stamp
	}

	s.status = target
	s.updatedAt = stamp
	return nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	s.orderID = orderID
	return nil
}

func (s *Shipment) setRecipientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	s.recipientName = name
	return nil
}

func (s *Shipment) setRecipientAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	s.recipientAddress = address
	return nil
}

func (s *Shipment) setTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	s.trackingNumber = trackingNumber
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
