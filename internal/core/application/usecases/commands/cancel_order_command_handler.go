package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// CancelPolicy selects how strictly cancellation checks the order status.
type CancelPolicy int

const (
	// CancelStrict allows cancellation from Pending and Confirmed only.
	CancelStrict CancelPolicy = iota

	// CancelLenient cancels from any status except Cancelled, which some
	// downstream consumers still expect.
	CancelLenient
)

// ParseCancelPolicy accepts "strict" and "lenient" (case-insensitive).
func ParseCancelPolicy(s string) (CancelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CancelStrict, nil
	case "lenient":
		return CancelLenient, nil
	default:
		return CancelStrict, errs.NewValueIsInvalidErrorWithCause("cancelPolicy", fmt.Errorf("unknown policy %q", s))
	}
}

// CancelOrderCommandHandler cancels an order in one unit of work.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     CancelPolicy
	now        func() time.Time
}

// NewCancelOrderCommandHandler creates a handler applying policy. Use
// CancelStrict unless consumers depend on cancelling shipped orders.
//
// Example:
//
//	handler := commands.NewCancelOrderCommandHandler(uowFactory, commands.CancelStrict)
//	err := handler.Handle(ctx, cmd)
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, policy CancelPolicy) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        time.Now,
	}
}

// Handle cancels the order. Under CancelStrict a Shipped or Delivered order
// fails with errs.InvalidTransitionError.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.cancel(o); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h CancelOrderCommandHandler) cancel(o *order.Order) error {
	if h.policy == CancelLenient {
		return o.ForceCancel(h.now())
	}
	return o.Cancel(h.now())
}
