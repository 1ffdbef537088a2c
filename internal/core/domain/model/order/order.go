package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ProductNameMaxLength bounds the product descriptor.
const ProductNameMaxLength = 255

// MaxQuantity matches the int column orders are stored in.
const MaxQuantity = math.MaxInt32

// MaxTotalPrice is the exclusive upper bound of a numeric(12,2) amount.
var MaxTotalPrice = decimal.New(1, 10)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrShipmentAlreadyLinked is returned when shipment linkage would be written twice.
	ErrShipmentAlreadyLinked = errs.NewValueIsInvalidErrorWithCause(
		"shipmentId",
		errors.New("order already references a shipment"),
	)

	// ErrShippingInProgress is returned when another request holds an unexpired
	// shipping claim on the order.
	ErrShippingInProgress = errs.NewVersionIsInvalidErrorWithCause(
		"order",
		errors.New("shipment creation is already in progress"),
	)
)

// Order is the aggregate root of the ordering flow. It is created Pending once
// the owning user was validated and is afterwards mutated only through its
// transition methods.
//
// Order follows these invariants:
//   - id and userID are valid identifiers
//   - quantity is positive and totalPrice is strictly positive
//   - shippingAddress is non-empty
//   - shipmentID and trackingNumber are written once, together with the
//     Shipped transition
//   - status only follows the graph described on Status
//   - shippingClaimedAt is only set on a Confirmed order without linkage
//
// version is the optimistic concurrency counter read from storage. Repositories
// compare it on write and advance it on success.
type Order struct {
	id              kernel.UUID
	userID          kernel.UUID
	productName     string
	quantity        int
	totalPrice      kernel.Money
	shippingAddress kernel.Address
	status          Status
	shipmentID      *kernel.UUID
	trackingNumber  string
	shippingClaimed *time.Time
	createdAt       time.Time
	updatedAt       time.Time
	version         int64

	isConstructed bool
}

// NewOrder creates a Pending order without shipment linkage. All parameter
// errors are joined so that callers can report every invalid field at once.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("2499.99")
//	address, _ := kernel.NewAddress("123 Main St")
//	o, err := order.NewOrder(kernel.NewUUID(), userID, "Laptop", 2, price, address, time.Now())
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	productName string,
	quantity int,
	totalPrice kernel.Money,
	shippingAddress kernel.Address,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setProductName(productName),
		o.setQuantity(quantity),
		o.setTotalPrice(totalPrice),
		o.setShippingAddress(shippingAddress),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. Besides the constructor
// checks it validates the status and its consistency with the shipment linkage.
// shippingClaimedAt is dropped unless the order is Confirmed and unlinked.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	productName string,
	quantity int,
	totalPrice kernel.Money,
	shippingAddress kernel.Address,
	status Status,
	shipmentID *kernel.UUID,
	trackingNumber string,
	shippingClaimedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
	version int64,
) (*Order, error) {
	o, err := NewOrder(id, userID, productName, quantity, totalPrice, shippingAddress, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	linked := shipmentID != nil
	if linked != (trackingNumber != "") {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"shipmentId",
			errors.New("shipment id and tracking number must be set together"),
		)
	}
	if err = status.ValidateCanHaveShipment(linked); err != nil {
		return nil, err
	}

	o.status = status
	o.shipmentID = shipmentID
	o.trackingNumber = trackingNumber
	if shippingClaimedAt != nil && status == Confirmed && !linked {
		claimed := shippingClaimedAt.UTC()
		o.shippingClaimed = &claimed
	}
	o.updatedAt = updatedAt.UTC()
	o.version = version
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) UserID() kernel.UUID {
	return o.userID
}

func (o *Order) ProductName() string {
	return o.productName
}

func (o *Order) Quantity() int {
	return o.quantity
}

func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

func (o *Order) ShippingAddress() kernel.Address {
	return o.shippingAddress
}

func (o *Order) Status() Status {
	return o.status
}

// ShipmentID returns nil until the order is shipped.
func (o *Order) ShipmentID() *kernel.UUID {
	if o.shipmentID == nil {
		return nil
	}
	id := *o.shipmentID
	return &id
}

// TrackingNumber returns the empty string until the order is shipped.
func (o *Order) TrackingNumber() string {
	return o.trackingNumber
}

// ShippingClaimedAt returns when the current shipping claim was taken, nil
// when nobody is creating a shipment for the order.
func (o *Order) ShippingClaimedAt() *time.Time {
	if o.shippingClaimed == nil {
		return nil
	}
	at := *o.shippingClaimed
	return &at
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the concurrency counter the order was loaded with.
func (o *Order) Version() int64 {
	return o.version
}

// AdvanceVersion is called by repositories after a successful conditional write.
func (o *Order) AdvanceVersion() {
	o.version++
}

// Confirm moves a Pending order to Confirmed.
func (o *Order) Confirm(now time.Time) error {
	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// ClaimShipping records that the caller is about to create the shipment of a
// Confirmed order. A claim younger than lease blocks other callers with
// ErrShippingInProgress; an older one is treated as abandoned and taken over.
func (o *Order) ClaimShipping(now time.Time, lease time.Duration) error {
	if o.status != Confirmed {
		return errs.NewInvalidTransitionError(entityName, o.status.String(), Shipped.String())
	}
	if o.shipmentID != nil {
		return ErrShipmentAlreadyLinked
	}
	if o.HasActiveShippingClaim(now, lease) {
		return ErrShippingInProgress
	}

	claimed := now.UTC()
	o.shippingClaimed = &claimed
	o.touch(now)
	return nil
}

// HasActiveShippingClaim reports whether a claim taken within lease exists.
func (o *Order) HasActiveShippingClaim(now time.Time, lease time.Duration) bool {
	return o.shippingClaimed != nil && now.Before(o.shippingClaimed.Add(lease))
}

// ReleaseShippingClaim drops the claim so the next attempt does not wait for
// the lease to run out.
func (o *Order) ReleaseShippingClaim(now time.Time) {
	if o.shippingClaimed == nil {
		return
	}
	o.shippingClaimed = nil
	o.touch(now)
}

// MarkShipped moves a Confirmed order to Shipped and records the shipment
// linkage in the same step. Linkage is written only once.
func (o *Order) MarkShipped(shipmentID kernel.UUID, trackingNumber string, now time.Time) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}

	if o.shipmentID != nil {
		return ErrShipmentAlreadyLinked
	}

	newStatus, err := o.status.Ship()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.shipmentID = &shipmentID
	o.trackingNumber = trackingNumber
	o.shippingClaimed = nil
	o.touch(now)
	return nil
}

// MarkDelivered moves a Shipped order to Delivered.
func (o *Order) MarkDelivered(now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// Cancel moves a Pending or Confirmed order to Cancelled. Shipped and later
// orders are rejected with an InvalidTransition error.
func (o *Order) Cancel(now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.shippingClaimed = nil
	o.touch(now)
	return nil
}

// ForceCancel cancels the order from any status other than Cancelled. It keeps
// the unconditional cancellation some consumers rely on and is only reachable
// when the service runs with the lenient cancellation policy.
func (o *Order) ForceCancel(now time.Time) error {
	if o.status == Cancelled {
		return errs.NewInvalidTransitionError(entityName, o.status.String(), Cancelled.String())
	}

	o.status = Cancelled
	o.shippingClaimed = nil
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	o.userID = userID
	return nil
}

func (o *Order) setProductName(productName string) error {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	if len(productName) > ProductNameMaxLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"productName",
			fmt.Errorf("longer than %d characters", ProductNameMaxLength),
		)
	}
	o.productName = productName
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setTotalPrice(totalPrice kernel.Money) error {
	if err := totalPrice.Validate(); err != nil {
		return err
	}
	if !totalPrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"totalPrice is invalid",
			fmt.Errorf("%s is not greater than 0", totalPrice),
		)
	}
	if totalPrice.Amount().GreaterThanOrEqual(MaxTotalPrice) {
		return errs.NewValueIsOutOfRangeError("totalPrice", totalPrice.String(), "0.01", "9999999999.99")
	}
	o.totalPrice = totalPrice
	return nil
}

func (o *Order) setShippingAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.shippingAddress = address
	return nil
}
