package commands_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/shipment"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByTrackingNumber(ctx context.Context, tn string) (*shipment.Shipment, error) {
	args := m.Called(ctx, tn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

type MockTx struct{ mock.Mock }

func (m *MockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderUoW struct {
	MockTx
	repo ports.OrderRepository
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.repo
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockShipmentUoW struct {
	MockTx
	repo ports.ShipmentRepository
}

func (m *MockShipmentUoW) ShipmentRepository() ports.ShipmentRepository {
	return m.repo
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockUserClient struct{ mock.Mock }

func (m *MockUserClient) FetchUser(ctx context.Context, id kernel.UUID) (ports.UserRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.UserRecord), args.Error(1)
}

type MockShipmentClient struct{ mock.Mock }

func (m *MockShipmentClient) CreateShipment(ctx context.Context, req ports.CreateShipmentRequest) (ports.ShipmentRecord, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.ShipmentRecord), args.Error(1)
}

func (m *MockShipmentClient) FetchShipment(ctx context.Context, id kernel.UUID) (ports.ShipmentRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.ShipmentRecord), args.Error(1)
}

func (m *MockShipmentClient) FetchShipmentByTracking(ctx context.Context, tn string) (ports.ShipmentRecord, error) {
	args := m.Called(ctx, tn)
	return args.Get(0).(ports.ShipmentRecord), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

// committingOrderUoW expects one Begin, an optional Commit and the deferred Rollback.
func committingOrderUoW(repo ports.OrderRepository, commit bool) *MockOrderUoW {
	uow := &MockOrderUoW{repo: repo}
	uow.On("Begin", mock.Anything).Return(nil).Once()
	if commit {
		uow.On("Commit", mock.Anything).Return(nil).Once()
	}
	uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return uow
}

func orderFactory(uows ...commands.OrderUoW) *MockOrderUoWFactory {
	factory := new(MockOrderUoWFactory)
	for _, uow := range uows {
		factory.On("Create").Return(uow).Once()
	}
	return factory
}

func newTestOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("2499.99")
	require.NoError(t, err)
	address, err := kernel.NewAddress("123 Main St")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "Laptop", 2, price, address, time.Now())
	require.NoError(t, err)

	switch status { //nolint:exhaustive // only the statuses used in tests
	case order.Confirmed:
		require.NoError(t, o.Confirm(time.Now()))
	case order.Shipped:
		require.NoError(t, o.Confirm(time.Now()))
		require.NoError(t, o.MarkShipped(kernel.NewUUID(), "SHIP-TEST", time.Now()))
	case order.Cancelled:
		require.NoError(t, o.Cancel(time.Now()))
	}
	return o
}
