package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetAllOrdersQueryHandler pages through every order, newest first, reading
// the orders table directly without loading aggregates.
type GetAllOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllOrdersQueryHandler creates a handler bound to db.
//
// Example:
//
//	query, _ := queries.NewGetAllOrdersQuery(nil, 20, 0)
//	views, err := queries.NewGetAllOrdersQueryHandler(db).Handle(ctx, query)
func NewGetAllOrdersQueryHandler(db *gorm.DB) GetAllOrdersQueryHandler {
	return GetAllOrdersQueryHandler{db: db}
}

// Handle applies the optional status filter before paging.
func (h GetAllOrdersQueryHandler) Handle(ctx context.Context, query GetAllOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var raw *gorm.DB
	if status := query.Status(); status != nil {
		raw = h.db.WithContext(ctx).Raw(
			`SELECT `+orderColumns+` FROM orders WHERE status = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
			status.String(), query.Limit(), query.Offset(),
		)
	} else {
		raw = h.db.WithContext(ctx).Raw(
			`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
			query.Limit(), query.Offset(),
		)
	}

	rows, err := raw.Rows()
	if err != nil {
		return nil, err
	}

	return scanOrders(rows)
}
