package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/platform/postgres"
	"orderflow/internal/pkg/errs"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
)

const (
	EventsDriverSQS    = "sqs"
	EventsDriverMemory = "memory"
)

// Config holds the complete application configuration, loadable from
// environment variables (ORDERFLOW_ prefix), flags, or YAML config files.
type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Remote    RemoteConfig
	Auth      AuthConfig
	Events    EventsConfig
	Sync      SyncConfig
	Orders    OrdersConfig
}

type HTTPConfig struct {
	Port            int           `default:"8080" usage:"HTTP listen port"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum graceful shutdown duration"`
}

type DBConfig struct {
	Host            string        `default:"localhost" usage:"PostgreSQL host"`
	Port            int           `default:"5432" usage:"PostgreSQL port"`
	User            string        `default:"postgres" usage:"PostgreSQL user"`
	Password        string        `default:"" usage:"PostgreSQL password"`
	Name            string        `default:"orders" usage:"PostgreSQL database name"`
	SSLMode         string        `default:"disable" usage:"PostgreSQL sslmode"`
	MaxOpenConns    int           `default:"20" usage:"Maximum open connections"`
	MaxIdleConns    int           `default:"5" usage:"Maximum idle connections"`
	ConnMaxLifetime time.Duration `default:"30m" usage:"Maximum connection lifetime"`
	AutoMigrate     bool          `default:"true" usage:"Create or update tables on startup"`
}

type LogConfig struct {
	Level string `default:"info" usage:"Log level: debug, info, warn or error"`
}

type TelemetryConfig struct {
	Environment    string        `default:"local" usage:"deployment.environment resource attribute"`
	OTLPEndpoint   string        `default:"" usage:"OTLP HTTP endpoint (host:port); empty exports spans to stdout"`
	OTLPInsecure   bool          `default:"true" usage:"Use plain HTTP for OTLP export"`
	MetricInterval time.Duration `default:"30s" usage:"How often metrics are pushed to the OTLP endpoint"`
}

// RemoteConfig covers the user and shipment services and the retry policy
// shared by their clients.
type RemoteConfig struct {
	UserServiceURL     string        `default:"http://localhost:8081" usage:"User service base URL"`
	ShipmentServiceURL string        `default:"http://localhost:8082" usage:"Shipment service base URL"`
	Timeout            time.Duration `default:"5s" usage:"Per-request timeout"`
	MaxAttempts        int           `default:"3" usage:"Attempts per remote call including the first"`
	InitialBackoff     time.Duration `default:"500ms" usage:"Delay before the first retry"`
	MaxBackoff         time.Duration `default:"5s" usage:"Upper bound for retry delays"`
	BackoffMultiplier  float64       `default:"2" usage:"Growth factor between retry delays"`
}

// AuthConfig is the client-credentials registration used for both remote
// services.
type AuthConfig struct {
	TokenURL                 string   `default:"" usage:"OAuth2 token endpoint"`
	ClientID                 string   `default:"" usage:"OAuth2 client id"`
	ClientSecret             string   `default:"" usage:"OAuth2 client secret"`
	Scopes                   []string `usage:"OAuth2 scopes"`
	UserServiceAnonymous     bool     `default:"true" usage:"Call the user service without a token when none can be obtained"`
	ShipmentServiceAnonymous bool     `default:"true" usage:"Call the shipment service without a token when none can be obtained"`
}

type EventsConfig struct {
	Driver   string `default:"memory" usage:"Message channel driver: sqs or memory"`
	Channel  string `default:"order-events" usage:"Queue name order events are sent to"`
	Region   string `default:"us-east-1" usage:"AWS region for SQS"`
	Endpoint string `default:"" usage:"SQS endpoint override, e.g. a local emulator"`
}

type SyncConfig struct {
	Enabled   bool          `default:"true" usage:"Run the delivery sync job"`
	Schedule  string        `default:"*/30 * * * * *" usage:"Delivery sync cron spec with seconds field"`
	BatchSize int           `default:"100" usage:"Shipped orders inspected per run"`
	Timeout   time.Duration `default:"20s" usage:"Upper bound for a single run"`
}

type OrdersConfig struct {
	CancelPolicy  string        `default:"strict" usage:"Cancellation policy: strict or lenient"`
	ShippingLease time.Duration `default:"2m" usage:"How long a confirm request may hold the shipment creation of an order"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files, then validates it.
func LoadConfig() (Config, error) {
	return loadConfig([]string{"config.yaml", "/etc/orderflow/config.yaml"}, false)
}

func loadConfig(files []string, skipFlags bool) (Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ORDERFLOW",
		SkipFlags: skipFlags,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with. All problems are
// reported together.
func (c Config) Validate() error {
	var problems []error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("http.port", c.HTTP.Port, 1, 65535))
	}
	if strings.TrimSpace(c.Remote.UserServiceURL) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("remote.userServiceURL"))
	}
	if strings.TrimSpace(c.Remote.ShipmentServiceURL) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("remote.shipmentServiceURL"))
	}
	if c.Remote.MaxAttempts < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("remote.maxAttempts", c.Remote.MaxAttempts, 1, "unbounded"))
	}
	switch c.Events.Driver {
	case EventsDriverSQS, EventsDriverMemory:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"events.driver", fmt.Errorf("%q is not one of %s, %s", c.Events.Driver, EventsDriverSQS, EventsDriverMemory)))
	}
	if strings.TrimSpace(c.Events.Channel) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("events.channel"))
	}
	if c.Sync.BatchSize < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("sync.batchSize", c.Sync.BatchSize, 0, "unbounded"))
	}
	if _, err := commands.ParseCancelPolicy(c.Orders.CancelPolicy); err != nil {
		problems = append(problems, err)
	}
	if c.Orders.ShippingLease <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("orders.shippingLease", c.Orders.ShippingLease, "1ns", "unbounded"))
	}

	return errors.Join(problems...)
}

// Postgres converts the DB section into connection settings.
func (c DBConfig) Postgres() postgres.Settings {
	return postgres.Settings{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		Name:            c.Name,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}
