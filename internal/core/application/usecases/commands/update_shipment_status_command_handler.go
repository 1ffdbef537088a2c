package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/shipment"
)

// UpdateShipmentStatusCommandHandler applies one transition of the shipment
// table in a single unit of work.
type UpdateShipmentStatusCommandHandler struct {
	uowFactory ShipmentUoWFactory
	now        func() time.Time
}

// NewUpdateShipmentStatusCommandHandler creates a handler persisting status
// changes through uowFactory.
//
// Example:
//
//	cmd, _ := commands.NewUpdateShipmentStatusCommand(shipmentID, shipment.InTransit)
//	updated, err := commands.NewUpdateShipmentStatusCommandHandler(uowFactory).Handle(ctx, cmd)
func NewUpdateShipmentStatusCommandHandler(uowFactory ShipmentUoWFactory) UpdateShipmentStatusCommandHandler {
	return UpdateShipmentStatusCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle returns the updated shipment. Transitions outside the table fail
// with errs.InvalidTransitionError and nothing is written.
func (h UpdateShipmentStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateShipmentStatusCommand,
) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	s, err := repo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	if err = s.UpdateStatus(cmd.Target(), h.now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
