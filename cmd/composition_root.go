package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/messaging"
	"orderflow/internal/adapters/out/messaging/memory"
	"orderflow/internal/adapters/out/messaging/sqs"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/remote"
	"orderflow/internal/adapters/out/remote/auth"
	"orderflow/internal/adapters/out/remote/resilience"
	"orderflow/internal/adapters/out/remote/shipmentclient"
	"orderflow/internal/adapters/out/remote/userclient"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/platform/observability"

	"golang.org/x/oauth2/clientcredentials"
	"gorm.io/gorm"
)

const instrumentationName = "orderflow"

// CompositionRoot owns the long-lived adapters and builds the use case
// handlers on top of them.
type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	instruments *observability.Instruments
	logger      *slog.Logger

	users        *userclient.Client
	shipments    *shipmentclient.Client
	publisher    *messaging.OrderEventPublisher
	cancelPolicy commands.CancelPolicy
}

// NewCompositionRoot wires the remote clients and the event publisher. The
// SQS client is only created when the sqs driver is selected.
func NewCompositionRoot(
	ctx context.Context,
	cfg Config,
	gormDB *gorm.DB,
	instruments *observability.Instruments,
) (*CompositionRoot, error) {
	logger := slog.Default()
	if instruments != nil && instruments.Logger != nil {
		logger = instruments.Logger
	}

	cancelPolicy, err := commands.ParseCancelPolicy(cfg.Orders.CancelPolicy)
	if err != nil {
		return nil, err
	}

	httpClient := remote.NewHTTPClient(cfg.Remote.Timeout)
	tokens := auth.NewTokenCache(httpClient, logger,
		identity(cfg.Auth, userclient.ServiceName, cfg.Auth.UserServiceAnonymous),
		identity(cfg.Auth, shipmentclient.ServiceName, cfg.Auth.ShipmentServiceAnonymous),
	)

	users, err := userclient.New(cfg.Remote.UserServiceURL, httpClient, tokens,
		retryPolicy(cfg.Remote, "userService"), logger)
	if err != nil {
		return nil, fmt.Errorf("user client: %w", err)
	}
	shipments, err := shipmentclient.New(cfg.Remote.ShipmentServiceURL, httpClient, tokens,
		retryPolicy(cfg.Remote, shipmentclient.PolicyName), logger)
	if err != nil {
		return nil, fmt.Errorf("shipment client: %w", err)
	}

	sender, err := newSender(ctx, cfg.Events, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := messaging.NewOrderEventPublisher(sender, cfg.Events.Channel, logger,
		instruments.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		cfg:          cfg,
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB),
		instruments:  instruments,
		logger:       logger,
		users:        users,
		shipments:    shipments,
		publisher:    publisher,
		cancelPolicy: cancelPolicy,
	}, nil
}

func identity(cfg AuthConfig, service string, allowAnonymous bool) auth.Identity {
	return auth.Identity{
		Service: service,
		Credentials: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		},
		AllowAnonymous: allowAnonymous,
	}
}

func retryPolicy(cfg RemoteConfig, name string) resilience.Policy {
	return resilience.Policy{
		Name:            name,
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.InitialBackoff,
		MaxInterval:     cfg.MaxBackoff,
		Multiplier:      cfg.BackoffMultiplier,
	}
}

func newSender(ctx context.Context, cfg EventsConfig, logger *slog.Logger) (ports.MessageSender, error) {
	if cfg.Driver == EventsDriverSQS {
		client, err := sqs.NewClient(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("sqs client: %w", err)
		}
		return sqs.NewSender(client), nil
	}

	channel := memory.NewChannel()
	channel.Subscribe(cfg.Channel, func(ctx context.Context, body []byte) error {
		logger.DebugContext(ctx, "order event", slog.String("channel", cfg.Channel), slog.String("body", string(body)))
		return nil
	})
	return channel, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.users)
}

func (c *CompositionRoot) CreateConfirmAndShipOrderCommandHandler() commands.ConfirmAndShipOrderCommandHandler {
	return commands.NewConfirmAndShipOrderCommandHandler(
		c.orderUoWFactory(),
		c.shipments,
		c.publisher,
		c.logger,
		c.instruments.Tracer(instrumentationName),
	).WithShippingLease(c.cfg.Orders.ShippingLease)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.cancelPolicy)
}

func (c *CompositionRoot) CreateSyncDeliveriesCommandHandler() commands.SyncDeliveriesCommandHandler {
	return commands.NewSyncDeliveriesCommandHandler(c.orderUoWFactory(), c.shipments, c.logger)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateUpdateShipmentStatusCommandHandler() commands.UpdateShipmentStatusCommandHandler {
	return commands.NewUpdateShipmentStatusCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersByUserQueryHandler() queries.GetOrdersByUserQueryHandler {
	return queries.NewGetOrdersByUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateShipmentQueryHandler() queries.ShipmentQueryHandler {
	return queries.NewShipmentQueryHandler(c.gormDB)
}

// CreateHTTPHandler builds the echo instance serving the REST API.
func (c *CompositionRoot) CreateHTTPHandler() http.Handler {
	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		ConfirmAndShipOrder:  c.CreateConfirmAndShipOrderCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		CreateShipment:       c.CreateCreateShipmentCommandHandler(),
		UpdateShipmentStatus: c.CreateUpdateShipmentStatusCommandHandler(),
		GetOrder:             c.CreateGetOrderQueryHandler(),
		GetOrdersByUser:      c.CreateGetOrdersByUserQueryHandler(),
		GetAllOrders:         c.CreateGetAllOrdersQueryHandler(),
		Shipments:            c.CreateShipmentQueryHandler(),
	})
	return httpadapter.NewEcho(server, c.logger)
}

// CreateJobManager returns the scheduled jobs; it is empty when the delivery
// sync is disabled.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if !c.cfg.Sync.Enabled {
		return jobs.NewJobManager()
	}
	return jobs.NewJobManager(jobs.NewDeliverySyncJob(
		c.CreateSyncDeliveriesCommandHandler(),
		c.cfg.Sync.Schedule,
		c.cfg.Sync.BatchSize,
		c.cfg.Sync.Timeout,
		c.logger,
	))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}
