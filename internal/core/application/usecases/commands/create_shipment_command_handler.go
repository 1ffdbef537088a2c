package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/shipment"
	"orderflow/internal/core/ports"
)

// maxTrackingAttempts bounds how many fresh tracking numbers are tried when
// the unique index reports a collision.
const maxTrackingAttempts = 3

// CreateShipmentCommandHandler persists a Pending shipment with a newly
// generated tracking number.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	now        func() time.Time
}

// NewCreateShipmentCommandHandler creates a handler persisting shipments
// through uowFactory.
func NewCreateShipmentCommandHandler(uowFactory ShipmentUoWFactory) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle stores a Pending shipment under a freshly generated tracking number,
// generating another one when the number is already taken.
func (h CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		s, err := h.tryCreate(ctx, cmd)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ports.ErrTrackingNumberTaken) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("no free tracking number after %d attempts: %w", maxTrackingAttempts, lastErr)
}

func (h CreateShipmentCommandHandler) tryCreate(ctx context.Context, cmd CreateShipmentCommand) (*shipment.Shipment, error) {
	now := h.now()
	s, err := shipment.NewShipment(
		kernel.NewUUID(),
		cmd.OrderID(),
		cmd.RecipientName(),
		cmd.RecipientAddress(),
		shipment.NewTrackingNumber(now),
		now,
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

	if err = uow.ShipmentRepository().Add(ctx, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
