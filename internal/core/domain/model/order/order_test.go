package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func mustAddress(t *testing.T, s string) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(s)
	require.NoError(t, err)
	return a
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"Laptop",
		2,
		mustMoney(t, "2499.99"),
		mustAddress(t, "123 Main St"),
		fixedNow,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	id := kernel.NewUUID()
	userID := kernel.NewUUID()
	price := mustMoney(t, "2499.99")
	address := mustAddress(t, "123 Main St")

	t.Run("should create pending order without shipment linkage", func(t *testing.T) {
		o, err := order.NewOrder(id, userID, "Laptop", 2, price, address, fixedNow)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.UserID().IsEqual(userID))
		assert.Equal(t, "Laptop", o.ProductName())
		assert.Equal(t, 2, o.Quantity())
		assert.Equal(t, "2499.99", o.TotalPrice().String())
		assert.Equal(t, "123 Main St", o.ShippingAddress().String())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.ShipmentID())
		assert.Empty(t, o.TrackingNumber())
		assert.Equal(t, fixedNow, o.CreatedAt())
		assert.Equal(t, fixedNow, o.UpdatedAt())
		assert.Zero(t, o.Version())
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		for _, qty := range []int{0, -3} {
			o, err := order.NewOrder(id, userID, "Laptop", qty, price, address, fixedNow)

			assert.Nil(t, o)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "quantity is invalid")
		}
	})

	t.Run("should reject zero price", func(t *testing.T) {
		zero, err := kernel.NewMoney(decimal.Zero)
		require.NoError(t, err)

		o, err := order.NewOrder(id, userID, "Laptop", 1, zero, address, fixedNow)

		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "totalPrice is invalid")
	})

	t.Run("should join every validation error", func(t *testing.T) {
		var badID kernel.UUID
		var badAddress kernel.Address

		o, err := order.NewOrder(badID, badID, "  ", 0, kernel.Money{}, badAddress, fixedNow)

		assert.Nil(t, o)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "userId")
		assert.Contains(t, err.Error(), "productName")
		assert.Contains(t, err.Error(), "quantity is invalid")
		assert.Contains(t, err.Error(), "money must be created")
		assert.Contains(t, err.Error(), "address must be created")
	})
}

func TestOrder_Validate(t *testing.T) {
	var nilOrder *order.Order
	var zero order.Order

	assert.Equal(t, order.ErrOrderIsNotConstructed, nilOrder.Validate())
	assert.Equal(t, order.ErrOrderIsNotConstructed, zero.Validate())
	assert.NoError(t, newPendingOrder(t).Validate())
}

func TestOrder_ConfirmAndShip(t *testing.T) {
	later := fixedNow.Add(time.Minute)
	shipmentID := kernel.NewUUID()

	t.Run("should walk the happy path", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Confirm(later))
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Nil(t, o.ShipmentID())

		require.NoError(t, o.MarkShipped(shipmentID, "SHIP-1", later))
		assert.Equal(t, order.Shipped, o.Status())
		require.NotNil(t, o.ShipmentID())
		assert.True(t, o.ShipmentID().IsEqual(shipmentID))
		assert.Equal(t, "SHIP-1", o.TrackingNumber())
		assert.Equal(t, later, o.UpdatedAt())

		require.NoError(t, o.MarkDelivered(later))
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should not confirm twice", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(later))

		err := o.Confirm(later)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Confirmed, o.Status())
	})

	t.Run("should not ship a pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.MarkShipped(shipmentID, "SHIP-1", later)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.ShipmentID())
		assert.Empty(t, o.TrackingNumber())
	})

	t.Run("should require shipment linkage values", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(later))

		assert.ErrorIs(t, o.MarkShipped(kernel.UUID{}, "SHIP-1", later), kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, o.MarkShipped(shipmentID, " ", later), errs.ErrValueIsRequired)
		assert.Equal(t, order.Confirmed, o.Status())
	})

	t.Run("should not deliver an order that was not shipped", func(t *testing.T) {
		o := newPendingOrder(t)

		assert.ErrorIs(t, o.MarkDelivered(later), errs.ErrInvalidTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	later := fixedNow.Add(time.Hour)

	t.Run("should cancel pending and confirmed orders", func(t *testing.T) {
		pending := newPendingOrder(t)
		require.NoError(t, pending.Cancel(later))
		assert.Equal(t, order.Cancelled, pending.Status())

		confirmed := newPendingOrder(t)
		require.NoError(t, confirmed.Confirm(later))
		require.NoError(t, confirmed.Cancel(later))
		assert.Equal(t, order.Cancelled, confirmed.Status())
	})

	t.Run("should reject cancelling shipped orders", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(later))
		require.NoError(t, o.MarkShipped(kernel.NewUUID(), "SHIP-2", later))

		err := o.Cancel(later)

		var transition *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, "SHIPPED", transition.From)
		assert.Equal(t, "CANCELLED", transition.To)
		assert.Equal(t, order.Shipped, o.Status())
	})

	t.Run("force cancel ignores the precondition but not idempotence", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(later))
		require.NoError(t, o.MarkShipped(kernel.NewUUID(), "SHIP-3", later))

		require.NoError(t, o.ForceCancel(later))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "SHIP-3", o.TrackingNumber())

		assert.ErrorIs(t, o.ForceCancel(later), errs.ErrInvalidTransition)
	})
}

func TestRestoreOrder(t *testing.T) {
	id := kernel.NewUUID()
	userID := kernel.NewUUID()
	shipmentID := kernel.NewUUID()
	price := mustMoney(t, "10.00")
	address := mustAddress(t, "1 Elm St")
	updated := fixedNow.Add(time.Hour)

	t.Run("should restore shipped order with linkage and version", func(t *testing.T) {
		o, err := order.RestoreOrder(id, userID, "Book", 1, price, address,
			order.Shipped, &shipmentID, "SHIP-9", nil, fixedNow, updated, 4)

		require.NoError(t, err)
		assert.Equal(t, order.Shipped, o.Status())
		assert.Equal(t, "SHIP-9", o.TrackingNumber())
		assert.Equal(t, updated, o.UpdatedAt())
		assert.Equal(t, int64(4), o.Version())

		o.AdvanceVersion()
		assert.Equal(t, int64(5), o.Version())
	})

	t.Run("should reject inconsistent linkage", func(t *testing.T) {
		_, err := order.RestoreOrder(id, userID, "Book", 1, price, address,
			order.Pending, &shipmentID, "SHIP-9", nil, fixedNow, updated, 0)
		assert.Error(t, err)

		_, err = order.RestoreOrder(id, userID, "Book", 1, price, address,
			order.Shipped, nil, "", nil, fixedNow, updated, 0)
		assert.Error(t, err)

		_, err = order.RestoreOrder(id, userID, "Book", 1, price, address,
			order.Shipped, &shipmentID, "", nil, fixedNow, updated, 0)
		assert.Error(t, err)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(id, userID, "Book", 1, price, address,
			order.Unknown, nil, "", nil, fixedNow, updated, 0)

		assert.Error(t, err)
	})
}

func TestRestoreOrder_ShippingClaim(t *testing.T) {
	id := kernel.NewUUID()
	userID := kernel.NewUUID()
	price := mustMoney(t, "10.00")
	address := mustAddress(t, "1 Elm St")
	claimed := fixedNow.Add(-time.Minute)

	o, err := order.RestoreOrder(id, userID, "Book", 1, price, address,
		order.Confirmed, nil, "", &claimed, fixedNow, fixedNow, 1)
	require.NoError(t, err)
	require.NotNil(t, o.ShippingClaimedAt())
	assert.Equal(t, claimed, *o.ShippingClaimedAt())

	pending, err := order.RestoreOrder(id, userID, "Book", 1, price, address,
		order.Pending, nil, "", &claimed, fixedNow, fixedNow, 1)
	require.NoError(t, err)
	assert.Nil(t, pending.ShippingClaimedAt())
}

func TestOrder_ClaimShipping(t *testing.T) {
	lease := 2 * time.Minute

	t.Run("should claim a confirmed order once per lease", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(fixedNow))

		require.NoError(t, o.ClaimShipping(fixedNow, lease))
		require.NotNil(t, o.ShippingClaimedAt())
		assert.True(t, o.HasActiveShippingClaim(fixedNow.Add(time.Minute), lease))

		err := o.ClaimShipping(fixedNow.Add(time.Minute), lease)
		require.ErrorIs(t, err, order.ErrShippingInProgress)
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("should take over an expired claim", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(fixedNow))
		require.NoError(t, o.ClaimShipping(fixedNow, lease))

		later := fixedNow.Add(lease)
		require.NoError(t, o.ClaimShipping(later, lease))
		assert.Equal(t, later, *o.ShippingClaimedAt())
	})

	t.Run("should allow a new claim after release", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Confirm(fixedNow))
		require.NoError(t, o.ClaimShipping(fixedNow, lease))

		o.ReleaseShippingClaim(fixedNow)
		assert.Nil(t, o.ShippingClaimedAt())
		assert.NoError(t, o.ClaimShipping(fixedNow, lease))
	})

	t.Run("should reject pending and shipped orders", func(t *testing.T) {
		o := newPendingOrder(t)
		assert.ErrorIs(t, o.ClaimShipping(fixedNow, lease), errs.ErrInvalidTransition)

		require.NoError(t, o.Confirm(fixedNow))
		require.NoError(t, o.MarkShipped(kernel.NewUUID(), "SHIP-5", fixedNow))
		assert.ErrorIs(t, o.ClaimShipping(fixedNow, lease), errs.ErrInvalidTransition)
	})

	t.Run("should clear the claim when shipped or cancelled", func(t *testing.T) {
		shipped := newPendingOrder(t)
		require.NoError(t, shipped.Confirm(fixedNow))
		require.NoError(t, shipped.ClaimShipping(fixedNow, lease))
		require.NoError(t, shipped.MarkShipped(kernel.NewUUID(), "SHIP-6", fixedNow))
		assert.Nil(t, shipped.ShippingClaimedAt())

		cancelled := newPendingOrder(t)
		require.NoError(t, cancelled.Confirm(fixedNow))
		require.NoError(t, cancelled.ClaimShipping(fixedNow, lease))
		require.NoError(t, cancelled.Cancel(fixedNow))
		assert.Nil(t, cancelled.ShippingClaimedAt())
	})
}

func TestNewOrder_UpperBounds(t *testing.T) {
	address := mustAddress(t, "123 Main St")

	tests := []struct {
		name     string
		quantity int
		price    string
		wantErr  bool
	}{
		{"largest storable price", 1, "9999999999.99", false},
		{"price needing thirteen digits", 1, "10000000000.00", true},
		{"largest storable quantity", order.MaxQuantity, "1.00", false},
		{"quantity above int32", order.MaxQuantity + 1, "1.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "Laptop", tt.quantity,
				mustMoney(t, tt.price), address, fixedNow)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			assert.True(t, errs.IsValidation(err))
		})
	}
}

func TestOrder_ShipmentIDIsACopy(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Confirm(fixedNow))
	shipmentID := kernel.NewUUID()
	require.NoError(t, o.MarkShipped(shipmentID, "SHIP-4", fixedNow))

	got := o.ShipmentID()
	*got = kernel.NewUUID()

	assert.True(t, o.ShipmentID().IsEqual(shipmentID))
}
