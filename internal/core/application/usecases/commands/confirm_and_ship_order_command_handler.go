package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// DefaultShippingLease bounds how long a crashed request can block shipment
// creation for its order. It must outlast the retried remote call.
const DefaultShippingLease = 2 * time.Minute

// ConfirmAndShipOrderCommandHandler runs the confirm and ship flow:
//
//  1. unit of work: load the order, Pending -> Confirmed, claim the shipping
//     step, conditional update
//  2. create the shipment remotely, outside any transaction
//  3. unit of work: reload, link the shipment, Confirmed -> Shipped, conditional update
//  4. publish the order event, never failing the command
//
// When step 2 fails the claim is released, the order stays Confirmed and the
// whole command can be retried: a Confirmed order without shipment linkage
// resumes at step 1 by claiming again. Only one request can hold the claim, so
// at most one remote shipment is created per order. Concurrent requests get
// errs.VersionIsInvalidError, or order.ErrShippingInProgress while the claim
// is younger than the lease.
type ConfirmAndShipOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	shipments  ports.ShipmentClient
	publisher  ports.OrderEventPublisher
	linker     services.ShipmentLinker
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
	lease      time.Duration
}

// NewConfirmAndShipOrderCommandHandler creates the coordinator with
// DefaultShippingLease. A nil logger or tracer falls back to slog.Default and
// a no-op tracer.
//
// Example:
//
//	handler := commands.NewConfirmAndShipOrderCommandHandler(uowFactory, shipmentClient, publisher, logger, tracer)
//	shipped, err := handler.Handle(ctx, cmd)
func NewConfirmAndShipOrderCommandHandler(
	uowFactory OrderUoWFactory,
	shipments ports.ShipmentClient,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
	tracer trace.Tracer,
) ConfirmAndShipOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("orderflow/commands")
	}

	return ConfirmAndShipOrderCommandHandler{
		uowFactory: uowFactory,
		shipments:  shipments,
		publisher:  publisher,
		linker:     services.NewShipmentLinker(),
		logger:     logger.With("component", "confirm-and-ship"),
		tracer:     tracer,
		now:        time.Now,
		lease:      DefaultShippingLease,
	}
}

// WithShippingLease returns a copy of the handler using lease. Non-positive
// values keep the current lease.
func (h ConfirmAndShipOrderCommandHandler) WithShippingLease(lease time.Duration) ConfirmAndShipOrderCommandHandler {
	if lease > 0 {
		h.lease = lease
	}
	return h
}

// Handle returns the shipped order.
func (h ConfirmAndShipOrderCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmAndShipOrderCommand,
) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := h.tracer.Start(ctx, "ConfirmAndShipOrder",
		trace.WithAttributes(attribute.String("order.id", cmd.OrderID().String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	confirmed, err := h.confirm(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	record, err := h.shipments.CreateShipment(ctx, ports.CreateShipmentRequest{
		OrderID:          confirmed.ID(),
		RecipientName:    cmd.RecipientName(),
		RecipientAddress: confirmed.ShippingAddress().String(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "shipment creation failed, order stays confirmed",
			slog.String("order_id", confirmed.ID().String()),
			slog.String("error", err.Error()),
		)
		h.release(ctx, cmd.OrderID())
		return nil, fmt.Errorf("create shipment for order %s: %w", confirmed.ID(), err)
	}

	shipped, err := h.ship(ctx, cmd.OrderID(), record)
	if err != nil {
		h.logger.ErrorContext(ctx, "linking shipment failed",
			slog.String("order_id", cmd.OrderID().String()),
			slog.String("shipment_id", record.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("shipment.tracking_number", shipped.TrackingNumber()))
	h.publisher.PublishOrderCreated(ctx, shipped)

	return shipped, nil
}

func (h ConfirmAndShipOrderCommandHandler) confirm(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	if o.Status() == order.Confirmed {
		h.logger.InfoContext(ctx, "resuming confirmed order", slog.String("order_id", orderID.String()))
	} else if err = o.Confirm(now); err != nil {
		return nil, err
	}

	if err = o.ClaimShipping(now, h.lease); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// release drops the shipping claim after a failed remote call. Failing to
// release only delays the next attempt until the lease runs out.
func (h ConfirmAndShipOrderCommandHandler) release(ctx context.Context, orderID kernel.UUID) {
	ctx = context.WithoutCancel(ctx)
	err := func() error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.OrderRepository()
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return err
		}

		o.ReleaseShippingClaim(h.now())
		if err = repo.Update(ctx, o); err != nil {
			return err
		}

		return uow.Commit(ctx)
	}()
	if err != nil {
		h.logger.WarnContext(ctx, "releasing shipping claim failed",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (h ConfirmAndShipOrderCommandHandler) ship(
	ctx context.Context,
	orderID kernel.UUID,
	record ports.ShipmentRecord,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ref := services.ShipmentRef{
		ID:             record.ID,
		OrderID:        record.OrderID,
		TrackingNumber: record.TrackingNumber,
		Status:         record.Status,
	}
	if err = h.linker.Link(o, ref, h.now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
