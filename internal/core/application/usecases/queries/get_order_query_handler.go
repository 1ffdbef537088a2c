package queries

import (
	"context"

	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order view by id.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler bound to db.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle fails with errs.ObjectNotFoundError for unknown ids.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	rows, err := h.db.WithContext(ctx).
		Raw(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, query.OrderID().Bytes()).
		Rows()
	if err != nil {
		return OrderView{}, err
	}

	views, err := scanOrders(rows)
	if err != nil {
		return OrderView{}, err
	}
	if len(views) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return views[0], nil
}
