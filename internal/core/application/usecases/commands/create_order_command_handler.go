package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// CreateOrderCommandHandler validates the owning user with the identity
// service and persists a Pending order. It has no shipment or event side
// effects.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	users      ports.UserClient
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler that checks the owning user
// through users before persisting the order.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, users ports.UserClient) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		users:      users,
		now:        time.Now,
	}
}

// Handle returns the persisted order. A user unknown to the identity service
// fails with a validation error and nothing is written.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.users.FetchUser(ctx, cmd.UserID()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("user not found", err)
		}
		return nil, err
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.UserID(),
		cmd.ProductName(),
		cmd.Quantity(),
		cmd.TotalPrice(),
		cmd.ShippingAddress(),
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
