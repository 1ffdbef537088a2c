package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// SyncResult summarizes one delivery sync run.
type SyncResult struct {
	Checked   int
	Delivered int
	Failed    int
}

// SyncDeliveriesCommandHandler moves Shipped orders to Delivered once the
// shipment service reports their shipment delivered. Each order is handled on
// its own: a failure is logged and counted and the run continues.
type SyncDeliveriesCommandHandler struct {
	uowFactory OrderUoWFactory
	shipments  ports.ShipmentClient
	linker     services.ShipmentLinker
	logger     *slog.Logger
	now        func() time.Time
}

// NewSyncDeliveriesCommandHandler creates the handler behind the delivery
// sync job. A nil logger means slog.Default.
func NewSyncDeliveriesCommandHandler(
	uowFactory OrderUoWFactory,
	shipments ports.ShipmentClient,
	logger *slog.Logger,
) SyncDeliveriesCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return SyncDeliveriesCommandHandler{
		uowFactory: uowFactory,
		shipments:  shipments,
		linker:     services.NewShipmentLinker(),
		logger:     logger.With("component", "delivery-sync"),
		now:        time.Now,
	}
}

// Handle returns an error only when the shipped orders could not be listed.
func (h SyncDeliveriesCommandHandler) Handle(ctx context.Context, cmd SyncDeliveriesCommand) (SyncResult, error) {
	var result SyncResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	shipped, err := h.uowFactory.Create().OrderRepository().GetAllInStatus(ctx, order.Shipped, cmd.BatchSize())
	if err != nil {
		return result, err
	}

	for _, o := range shipped {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		result.Checked++
		delivered, syncErr := h.syncOne(ctx, o)
		if syncErr != nil {
			result.Failed++
			h.logger.WarnContext(ctx, "delivery sync failed",
				slog.String("order_id", o.ID().String()),
				slog.String("error", syncErr.Error()),
			)
			continue
		}
		if delivered {
			result.Delivered++
		}
	}

	return result, nil
}

func (h SyncDeliveriesCommandHandler) syncOne(ctx context.Context, o *order.Order) (bool, error) {
	shipmentID := o.ShipmentID()
	if shipmentID == nil {
		return false, nil
	}

	record, err := h.shipments.FetchShipment(ctx, *shipmentID)
	if err != nil {
		return false, err
	}

	ref := services.ShipmentRef{
		ID:             record.ID,
		OrderID:        record.OrderID,
		TrackingNumber: record.TrackingNumber,
		Status:         record.Status,
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	fresh, err := repo.Get(ctx, o.ID())
	if err != nil {
		return false, err
	}

	if fresh.Status() != order.Shipped {
		return false, nil
	}

	changed, err := h.linker.SyncDelivery(fresh, ref, h.now())
	if err != nil || !changed {
		return false, err
	}

	if err = repo.Update(ctx, fresh); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.logger.InfoContext(ctx, "order delivered", slog.String("order_id", fresh.ID().String()))
	return true, nil
}
