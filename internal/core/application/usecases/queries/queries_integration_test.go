package queries_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/shipmentrepo"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/shipment"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orders    *orderrepo.GormOrderRepository
	shipments *shipmentrepo.GormShipmentRepository
	clock     time.Time
}

func TestQueriesIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(QueriesIntegrationTestSuite))
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgresadapter.Migrate(db))
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, shipments").Error)

	suite.orders = orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.shipments = shipmentrepo.NewGormShipmentRepository(suite.db, noopTracker{})
	suite.clock = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_ShippedOrder_ReturnsLinkage() {
	ctx := context.Background()
	o := suite.addOrder(kernel.NewUUID(), 0)
	s := suite.addShipment(o, "SHIP-100-AAAAAAAA")

	suite.Require().NoError(o.Confirm(suite.clock))
	suite.Require().NoError(o.MarkShipped(s.ID(), s.TrackingNumber(), suite.clock))
	suite.Require().NoError(suite.orders.Update(ctx, o))

	q, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)

	view, err := queries.NewGetOrderQueryHandler(suite.db).Handle(ctx, q)
	suite.Require().NoError(err)

	suite.True(view.ID.IsEqual(o.ID()))
	suite.True(view.UserID.IsEqual(o.UserID()))
	suite.Equal("Laptop", view.ProductName)
	suite.Equal(1, view.Quantity)
	suite.Equal("19.99", view.TotalPrice.StringFixed(2))
	suite.Equal("1 Elm St", view.ShippingAddress)
	suite.Equal(order.Shipped, view.Status)
	suite.Require().NotNil(view.ShipmentID)
	suite.True(view.ShipmentID.IsEqual(s.ID()))
	suite.Equal("SHIP-100-AAAAAAAA", view.TrackingNumber)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_Unknown_ReturnsNotFound() {
	q, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), q)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrdersByUser_NewestFirst() {
	ctx := context.Background()
	userID := kernel.NewUUID()
	older := suite.addOrder(userID, 0)
	newer := suite.addOrder(userID, time.Hour)
	suite.addOrder(kernel.NewUUID(), 0)

	q, err := queries.NewGetOrdersByUserQuery(userID)
	suite.Require().NoError(err)

	views, err := queries.NewGetOrdersByUserQueryHandler(suite.db).Handle(ctx, q)
	suite.Require().NoError(err)

	suite.Require().Len(views, 2)
	suite.True(views[0].ID.IsEqual(newer.ID()))
	suite.True(views[1].ID.IsEqual(older.ID()))
}

func (suite *QueriesIntegrationTestSuite) TestGetOrdersByUser_NoOrders_ReturnsEmpty() {
	q, err := queries.NewGetOrdersByUserQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	views, err := queries.NewGetOrdersByUserQueryHandler(suite.db).Handle(context.Background(), q)

	suite.Require().NoError(err)
	suite.NotNil(views)
	suite.Empty(views)
}

func (suite *QueriesIntegrationTestSuite) TestGetAllOrders_FilterAndPage() {
	ctx := context.Background()
	for i := range 3 {
		suite.addOrder(kernel.NewUUID(), time.Duration(i)*time.Minute)
	}
	confirmed := suite.addOrder(kernel.NewUUID(), time.Hour)
	suite.Require().NoError(confirmed.Confirm(suite.clock))
	suite.Require().NoError(suite.orders.Update(ctx, confirmed))

	handler := queries.NewGetAllOrdersQueryHandler(suite.db)

	all, err := queries.NewGetAllOrdersQuery(nil, 2, 1)
	suite.Require().NoError(err)
	views, err := handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Len(views, 2)

	status := order.Confirmed
	filtered, err := queries.NewGetAllOrdersQuery(&status, 0, 0)
	suite.Require().NoError(err)
	views, err = handler.Handle(ctx, filtered)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.True(views[0].ID.IsEqual(confirmed.ID()))
}

func (suite *QueriesIntegrationTestSuite) TestShipmentQueries() {
	ctx := context.Background()
	o := suite.addOrder(kernel.NewUUID(), 0)
	s := suite.addShipment(o, "SHIP-200-BBBBBBBB")
	suite.Require().NoError(s.UpdateStatus(shipment.Shipped, suite.clock.Add(time.Minute)))
	suite.Require().NoError(suite.shipments.Update(ctx, s))

	handler := queries.NewShipmentQueryHandler(suite.db)

	byID, err := queries.NewGetShipmentQuery(s.ID())
	suite.Require().NoError(err)
	view, err := handler.Get(ctx, byID)
	suite.Require().NoError(err)
	suite.Equal("SHIP-200-BBBBBBBB", view.TrackingNumber)
	suite.True(view.OrderID.IsEqual(o.ID()))
	suite.Equal("Jane Doe", view.RecipientName)
	suite.Equal("1 Elm St", view.RecipientAddress)
	suite.Equal(shipment.Shipped, view.Status)
	suite.Require().NotNil(view.ShippedAt)
	suite.Nil(view.DeliveredAt)

	byTracking, err := queries.NewGetShipmentByTrackingQuery("SHIP-200-BBBBBBBB")
	suite.Require().NoError(err)
	view, err = handler.GetByTracking(ctx, byTracking)
	suite.Require().NoError(err)
	suite.True(view.ID.IsEqual(s.ID()))

	byOrder, err := queries.NewGetShipmentsByOrderQuery(o.ID())
	suite.Require().NoError(err)
	views, err := handler.ListByOrder(ctx, byOrder)
	suite.Require().NoError(err)
	suite.Len(views, 1)

	missing, err := queries.NewGetShipmentByTrackingQuery("SHIP-404")
	suite.Require().NoError(err)
	_, err = handler.GetByTracking(ctx, missing)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) addOrder(userID kernel.UUID, offset time.Duration) *order.Order {
	price, err := kernel.MoneyFromString("19.99")
	suite.Require().NoError(err)
	address, err := kernel.NewAddress("1 Elm St")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), userID, "Laptop", 1, price, address, suite.clock.Add(offset))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(context.Background(), o))
	return o
}

func (suite *QueriesIntegrationTestSuite) addShipment(o *order.Order, tracking string) *shipment.Shipment {
	s, err := shipment.NewShipment(kernel.NewUUID(), o.ID(), "Jane Doe", o.ShippingAddress(), tracking, suite.clock)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.shipments.Add(context.Background(), s))
	return s
}
