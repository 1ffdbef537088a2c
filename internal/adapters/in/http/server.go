package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type ConfirmAndShipOrderHandler interface {
	Handle(ctx context.Context, cmd commands.ConfirmAndShipOrderCommand) (*order.Order, error)
}

type CancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
}

type CreateShipmentHandler interface {
	Handle(ctx context.Context, cmd commands.CreateShipmentCommand) (*shipment.Shipment, error)
}

type UpdateShipmentStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateShipmentStatusCommand) (*shipment.Shipment, error)
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
}

type GetOrdersByUserHandler interface {
	Handle(ctx context.Context, query queries.GetOrdersByUserQuery) ([]queries.OrderView, error)
}

type GetAllOrdersHandler interface {
	Handle(ctx context.Context, query queries.GetAllOrdersQuery) ([]queries.OrderView, error)
}

type ShipmentQueries interface {
	Get(ctx context.Context, query queries.GetShipmentQuery) (queries.ShipmentView, error)
	GetByTracking(ctx context.Context, query queries.GetShipmentByTrackingQuery) (queries.ShipmentView, error)
	ListByOrder(ctx context.Context, query queries.GetShipmentsByOrderQuery) ([]queries.ShipmentView, error)
}

// Handlers bundles the use cases the server exposes.
type Handlers struct {
	CreateOrder          CreateOrderHandler
	ConfirmAndShipOrder  ConfirmAndShipOrderHandler
	CancelOrder          CancelOrderHandler
	CreateShipment       CreateShipmentHandler
	UpdateShipmentStatus UpdateShipmentStatusHandler
	GetOrder             GetOrderHandler
	GetOrdersByUser      GetOrdersByUserHandler
	GetAllOrders         GetAllOrdersHandler
	Shipments            ShipmentQueries
}

// Server translates HTTP requests into commands and queries. Errors are
// returned to echo and rendered by Responder.
type Server struct {
	h Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// NewEcho builds the echo instance with routes, recovery and problem
// rendering installed.
func NewEcho(server *Server, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewResponder(logger).HandleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	server.Register(e)
	return e
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders", s.GetOrders)
	v1.GET("/orders/:id", s.GetOrder)
	v1.GET("/orders/user/:userId", s.GetOrdersByUser)
	v1.POST("/orders/:id/confirm", s.ConfirmAndShipOrder)
	v1.POST("/orders/:id/cancel", s.CancelOrder)

	v1.POST("/shipments", s.CreateShipment)
	v1.GET("/shipments/:id", s.GetShipment)
	v1.GET("/shipments/tracking/:trackingNumber", s.GetShipmentByTracking)
	v1.GET("/shipments/order/:orderId", s.GetShipmentsByOrder)
	v1.PATCH("/shipments/:id/status", s.UpdateShipmentStatus)
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return err
	}
	price, err := kernel.NewMoney(req.TotalPrice)
	if err != nil {
		return err
	}
	address, err := kernel.NewAddress(req.ShippingAddress)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(userID, req.ProductName, req.Quantity, price, address)
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, orderFromAggregate(o))
}

// GetOrders handles GET /api/v1/orders?status=&limit=&offset=.
func (s *Server) GetOrders(c echo.Context) error {
	var status *order.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = &parsed
	}

	limit, err := intQueryParam(c, "limit")
	if err != nil {
		return err
	}
	offset, err := intQueryParam(c, "offset")
	if err != nil {
		return err
	}

	query, err := queries.NewGetAllOrdersQuery(status, limit, offset)
	if err != nil {
		return err
	}

	views, err := s.h.GetAllOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ordersFromViews(views))
}

func (s *Server) GetOrder(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromView(view))
}

func (s *Server) GetOrdersByUser(c echo.Context) error {
	userID, err := kernel.UUIDFromString(c.Param("userId"))
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrdersByUserQuery(userID)
	if err != nil {
		return err
	}

	views, err := s.h.GetOrdersByUser.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ordersFromViews(views))
}

// ConfirmAndShipOrder handles POST /api/v1/orders/:id/confirm. A shipment
// service outage answers 503 and leaves the order CONFIRMED, so the same
// request can be repeated.
func (s *Server) ConfirmAndShipOrder(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}

	var req ConfirmOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	cmd, err := commands.NewConfirmAndShipOrderCommand(id, req.RecipientName)
	if err != nil {
		return err
	}

	o, err := s.h.ConfirmAndShipOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromAggregate(o))
}

func (s *Server) CancelOrder(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return err
	}

	if err = s.h.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) CreateShipment(c echo.Context) error {
	var req CreateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	address, err := kernel.NewAddress(req.RecipientAddress)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateShipmentCommand(orderID, req.RecipientName, address)
	if err != nil {
		return err
	}

	created, err := s.h.CreateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, shipmentFromAggregate(created))
}

func (s *Server) GetShipment(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}

	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return err
	}

	view, err := s.h.Shipments.Get(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shipmentFromView(view))
}

func (s *Server) GetShipmentByTracking(c echo.Context) error {
	query, err := queries.NewGetShipmentByTrackingQuery(c.Param("trackingNumber"))
	if err != nil {
		return err
	}

	view, err := s.h.Shipments.GetByTracking(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shipmentFromView(view))
}

func (s *Server) GetShipmentsByOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return err
	}

	query, err := queries.NewGetShipmentsByOrderQuery(orderID)
	if err != nil {
		return err
	}

	views, err := s.h.Shipments.ListByOrder(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]ShipmentResponse, len(views))
	for i, v := range views {
		out[i] = shipmentFromView(v)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) UpdateShipmentStatus(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateShipmentStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	target, err := shipment.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateShipmentStatusCommand(id, target)
	if err != nil {
		return err
	}

	updated, err := s.h.UpdateShipmentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shipmentFromAggregate(updated))
}

func intQueryParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return v, nil
}
