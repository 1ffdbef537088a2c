package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/platform/observability"
	platformpostgres "orderflow/internal/platform/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

const serviceName = "orderflow"

type (
	telemetryInit func(context.Context, observability.Options) (*observability.Instruments, func(context.Context) error, error)
	appRunner     func(context.Context, cmd.Config, *observability.Instruments) error
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load(".env")

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runWithTelemetry(ctx, configs, observability.Init, run)
	stop()
	os.Exit(code)
}

// runWithTelemetry returns the process exit code. Telemetry is flushed before
// it returns, so spans and logs describing a failed run are exported.
func runWithTelemetry(ctx context.Context, configs cmd.Config, initTelemetry telemetryInit, runApp appRunner) int {
	instruments, shutdownTelemetry, err := initTelemetry(ctx, observability.Options{
		ServiceName:    serviceName,
		Environment:    configs.Telemetry.Environment,
		LogLevel:       configs.Log.Level,
		OTLPEndpoint:   configs.Telemetry.OTLPEndpoint,
		OTLPInsecure:   configs.Telemetry.OTLPInsecure,
		MetricInterval: configs.Telemetry.MetricInterval,
	})
	if err != nil {
		log.Errorf("Error initializing telemetry: %v", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Errorf("Error flushing telemetry: %v", err)
		}
	}()

	if err := runApp(ctx, configs, instruments); err != nil {
		instruments.Logger.Error("orderflow stopped with error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func run(ctx context.Context, configs cmd.Config, instruments *observability.Instruments) error {
	logger := instruments.Logger

	gormDB, closeDB, err := platformpostgres.Open(ctx, configs.DB.Postgres(), logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	if configs.DB.AutoMigrate {
		if err := postgres.Migrate(gormDB); err != nil {
			return err
		}
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, instruments)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs.HTTP, logger)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.HTTPConfig, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", configs.Port),
		Handler:           app.CreateHTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server", slog.Duration("timeout", configs.ShutdownTimeout))
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
