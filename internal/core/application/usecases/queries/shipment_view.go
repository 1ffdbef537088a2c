package queries

import (
	"database/sql"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentView is the read model of a shipment.
type ShipmentView struct {
	ID               kernel.UUID
	TrackingNumber   string
	OrderID          kernel.UUID
	RecipientName    string
	RecipientAddress string
	Status           shipment.Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
}

const shipmentColumns = `
	id,
	tracking_number,
	order_id,
	recipient_name,
	recipient_address,
	status,
	created_at,
	updated_at,
	shipped_at,
	delivered_at`

func scanShipments(rows *sql.Rows) ([]ShipmentView, error) {
	defer rows.Close()

	views := make([]ShipmentView, 0)
	for rows.Next() {
		var (
			view        ShipmentView
			id, orderID uuid.UUID
			status      string
		)

		if err := rows.Scan(
			&id,
			&view.TrackingNumber,
			&orderID,
			&view.RecipientName,
			&view.RecipientAddress,
			&status,
			&view.CreatedAt,
			&view.UpdatedAt,
			&view.ShippedAt,
			&view.DeliveredAt,
		); err != nil {
			return nil, err
		}

		var err error
		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if view.Status, err = shipment.ParseStatus(status); err != nil {
			return nil, err
		}
		view.CreatedAt = view.CreatedAt.UTC()
		view.UpdatedAt = view.UpdatedAt.UTC()

		views = append(views, view)
	}

	return views, rows.Err()
}
