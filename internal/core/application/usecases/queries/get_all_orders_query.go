package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// MaxPageSize caps the number of rows a listing returns.
const MaxPageSize = 500

var ErrGetAllOrdersQueryIsNotConstructed = errors.New(
	"GetAllOrdersQuery must be created via NewGetAllOrdersQuery constructor",
)

// GetAllOrdersQuery lists orders newest first, optionally filtered by status.
type GetAllOrdersQuery struct {
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewGetAllOrdersQuery builds a page request. A nil status lists every order;
// limit 0 means MaxPageSize.
func NewGetAllOrdersQuery(status *order.Status, limit, offset int) (GetAllOrdersQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetAllOrdersQuery{}, err
		}
	}
	if limit < 0 || limit > MaxPageSize {
		return GetAllOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize)
	}
	if offset < 0 {
		return GetAllOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	if limit == 0 {
		limit = MaxPageSize
	}

	return GetAllOrdersQuery{
		status: status,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetAllOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllOrdersQueryIsNotConstructed)
}

func (q GetAllOrdersQuery) Status() *order.Status {
	return q.status
}

func (q GetAllOrdersQuery) Limit() int {
	return q.limit
}

func (q GetAllOrdersQuery) Offset() int {
	return q.offset
}
