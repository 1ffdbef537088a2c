package queries

import (
	"context"

	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// ShipmentQueryHandler serves the shipment read side.
type ShipmentQueryHandler struct {
	db *gorm.DB
}

// NewShipmentQueryHandler creates a handler bound to db.
//
// Example:
//
//	query, _ := queries.NewGetShipmentByTrackingQuery("SHIP-1718000000000-1A2B3C4D")
//	view, err := queries.NewShipmentQueryHandler(db).GetByTracking(ctx, query)
func NewShipmentQueryHandler(db *gorm.DB) ShipmentQueryHandler {
	return ShipmentQueryHandler{db: db}
}

// Get fails with errs.ObjectNotFoundError for unknown ids.
func (h ShipmentQueryHandler) Get(ctx context.Context, query GetShipmentQuery) (ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return ShipmentView{}, err
	}

	return h.single(ctx, "shipment", query.ShipmentID().String(),
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ?`, query.ShipmentID().Bytes())
}

// GetByTracking fails with errs.ObjectNotFoundError for unknown tracking numbers.
func (h ShipmentQueryHandler) GetByTracking(ctx context.Context, query GetShipmentByTrackingQuery) (ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return ShipmentView{}, err
	}

	return h.single(ctx, "trackingNumber", query.TrackingNumber(),
		`SELECT `+shipmentColumns+` FROM shipments WHERE tracking_number = ?`, query.TrackingNumber())
}

// ListByOrder returns an empty slice when the order has no shipment yet.
func (h ShipmentQueryHandler) ListByOrder(ctx context.Context, query GetShipmentsByOrderQuery) ([]ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).
		Raw(`SELECT `+shipmentColumns+` FROM shipments WHERE order_id = ? ORDER BY created_at, id`, query.OrderID().Bytes()).
		Rows()
	if err != nil {
		return nil, err
	}

	return scanShipments(rows)
}

func (h ShipmentQueryHandler) single(ctx context.Context, param, id, sql string, arg any) (ShipmentView, error) {
	rows, err := h.db.WithContext(ctx).Raw(sql, arg).Rows()
	if err != nil {
		return ShipmentView{}, err
	}

	views, err := scanShipments(rows)
	if err != nil {
		return ShipmentView{}, err
	}
	if len(views) == 0 {
		return ShipmentView{}, errs.NewObjectNotFoundError(param, id)
	}

	return views[0], nil
}
