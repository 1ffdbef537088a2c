package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetOrdersByUserQueryHandler lists the orders placed by one user, newest first.
type GetOrdersByUserQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersByUserQueryHandler creates a handler bound to db.
func NewGetOrdersByUserQueryHandler(db *gorm.DB) GetOrdersByUserQueryHandler {
	return GetOrdersByUserQueryHandler{db: db}
}

// Handle returns an empty slice for users without orders.
func (h GetOrdersByUserQueryHandler) Handle(ctx context.Context, query GetOrdersByUserQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).
		Raw(`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id`, query.UserID().Bytes()).
		Rows()
	if err != nil {
		return nil, err
	}

	return scanOrders(rows)
}
