package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/shipment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewSyncDeliveriesCommand(t *testing.T) {
	cmd, err := commands.NewSyncDeliveriesCommand(0)
	require.NoError(t, err)
	assert.Equal(t, commands.DefaultSyncBatchSize, cmd.BatchSize())

	_, err = commands.NewSyncDeliveriesCommand(-1)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func shipmentRecordFor(o *order.Order, status shipment.Status) ports.ShipmentRecord {
	return ports.ShipmentRecord{
		ID:             *o.ShipmentID(),
		TrackingNumber: o.TrackingNumber(),
		OrderID:        o.ID(),
		Status:         status,
	}
}

func TestSyncDeliveriesCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	delivered := newTestOrder(t, order.Shipped)
	inTransit := newTestOrder(t, order.Shipped)
	unreachable := newTestOrder(t, order.Shipped)

	listRepo := new(MockOrderRepository)
	listRepo.On("GetAllInStatus", ctx, order.Shipped, 10).
		Return([]*order.Order{delivered, inTransit, unreachable}, nil).Once()
	listUoW := &MockOrderUoW{repo: listRepo}

	shipments := new(MockShipmentClient)
	shipments.On("FetchShipment", ctx, *delivered.ShipmentID()).
		Return(shipmentRecordFor(delivered, shipment.Delivered), nil).Once()
	shipments.On("FetchShipment", ctx, *inTransit.ShipmentID()).
		Return(shipmentRecordFor(inTransit, shipment.InTransit), nil).Once()
	shipments.On("FetchShipment", ctx, *unreachable.ShipmentID()).
		Return(ports.ShipmentRecord{}, errs.NewRemoteServiceUnavailableError("shipmentService", 3, errors.New("timeout"))).Once()

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, delivered.ID()).Return(delivered, nil).Once()
	repo.On("Update", ctx, delivered).Return(nil).Once()
	repo.On("Get", ctx, inTransit.ID()).Return(inTransit, nil).Once()

	deliverUoW := committingOrderUoW(repo, true)
	waitUoW := committingOrderUoW(repo, false)

	cmd, err := commands.NewSyncDeliveriesCommand(10)
	require.NoError(t, err)

	h := commands.NewSyncDeliveriesCommandHandler(orderFactory(listUoW, deliverUoW, waitUoW), shipments, nil)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.SyncResult{Checked: 3, Delivered: 1, Failed: 1}, result)
	assert.Equal(t, order.Delivered, delivered.Status())
	assert.Equal(t, order.Shipped, inTransit.Status())
	assert.Equal(t, order.Shipped, unreachable.Status())
	repo.AssertExpectations(t)
	shipments.AssertExpectations(t)
	deliverUoW.AssertExpectations(t)
}

func TestSyncDeliveriesCommandHandler_Handle_ListError(t *testing.T) {
	ctx := t.Context()
	listRepo := new(MockOrderRepository)
	listRepo.On("GetAllInStatus", ctx, order.Shipped, commands.DefaultSyncBatchSize).
		Return(nil, errors.New("db down")).Once()

	cmd, err := commands.NewSyncDeliveriesCommand(0)
	require.NoError(t, err)

	h := commands.NewSyncDeliveriesCommandHandler(orderFactory(&MockOrderUoW{repo: listRepo}), new(MockShipmentClient), nil)
	_, err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "db down")
}

func TestSyncDeliveriesCommandHandler_Handle_VersionConflictIsCounted(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t, order.Shipped)

	listRepo := new(MockOrderRepository)
	listRepo.On("GetAllInStatus", ctx, order.Shipped, 5).Return([]*order.Order{o}, nil).Once()

	shipments := new(MockShipmentClient)
	shipments.On("FetchShipment", ctx, *o.ShipmentID()).Return(shipmentRecordFor(o, shipment.Delivered), nil).Once()

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(errs.NewVersionIsInvalidError("order")).Once()

	cmd, err := commands.NewSyncDeliveriesCommand(5)
	require.NoError(t, err)

	h := commands.NewSyncDeliveriesCommandHandler(
		orderFactory(&MockOrderUoW{repo: listRepo}, committingOrderUoW(repo, false)), shipments, nil)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Delivered)
	repo.AssertNotCalled(t, "GetAllInStatus", mock.Anything, mock.Anything, mock.Anything)
}
