// Package queries contains read-only operations. Handlers read straight from
// the database with GORM and return flat views instead of aggregates.
package queries

import (
	"database/sql"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderView is the read model of an order.
type OrderView struct {
	ID              kernel.UUID
	UserID          kernel.UUID
	ProductName     string
	Quantity        int
	TotalPrice      decimal.Decimal
	ShippingAddress string
	Status          order.Status
	ShipmentID      *kernel.UUID
	TrackingNumber  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const orderColumns = `
	id,
	user_id,
	product_name,
	quantity,
	total_price,
	shipping_address,
	status,
	shipment_id,
	tracking_number,
	created_at,
	updated_at`

func scanOrders(rows *sql.Rows) ([]OrderView, error) {
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		var (
			view           OrderView
			id, userID     uuid.UUID
			shipmentID     uuid.NullUUID
			status         string
			trackingNumber *string
		)

		if err := rows.Scan(
			&id,
			&userID,
			&view.ProductName,
			&view.Quantity,
			&view.TotalPrice,
			&view.ShippingAddress,
			&status,
			&shipmentID,
			&trackingNumber,
			&view.CreatedAt,
			&view.UpdatedAt,
		); err != nil {
			return nil, err
		}

		var err error
		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		if view.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if shipmentID.Valid {
			sID, idErr := kernel.UUIDFromBytes(shipmentID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			view.ShipmentID = &sID
		}
		if trackingNumber != nil {
			view.TrackingNumber = *trackingNumber
		}
		view.CreatedAt = view.CreatedAt.UTC()
		view.UpdatedAt = view.UpdatedAt.UTC()

		views = append(views, view)
	}

	return views, rows.Err()
}
