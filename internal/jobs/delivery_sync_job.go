package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultDeliverySyncSchedule runs the sync every thirty seconds.
const DefaultDeliverySyncSchedule = "*/30 * * * * *"

// SyncDeliveriesHandler is the use case the job drives.
type SyncDeliveriesHandler interface {
	Handle(ctx context.Context, cmd commands.SyncDeliveriesCommand) (commands.SyncResult, error)
}

// DeliverySyncJob periodically asks the shipment service which shipped
// orders were delivered. Runs never overlap: a tick that arrives while the
// previous run is still going is skipped.
type DeliverySyncJob struct {
	handler   SyncDeliveriesHandler
	schedule  string
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewDeliverySyncJob creates the job. An empty schedule falls back to
// DefaultDeliverySyncSchedule; timeout bounds a single run.
func NewDeliverySyncJob(
	handler SyncDeliveriesHandler,
	schedule string,
	batchSize int,
	timeout time.Duration,
	logger *slog.Logger,
) *DeliverySyncJob {
	if logger == nil {
		logger = slog.Default()
	}
	if schedule == "" {
		schedule = DefaultDeliverySyncSchedule
	}
	logger = logger.With("component", "delivery_sync_job")

	return &DeliverySyncJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
	}
}

// Start registers the schedule and starts the scheduler.
func (j *DeliverySyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery sync job started", slog.String("schedule", j.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running sync to finish.
func (j *DeliverySyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery sync job stopped")
}

// RunOnce performs a single sync run and logs its outcome.
func (j *DeliverySyncJob) RunOnce(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	cmd, err := commands.NewSyncDeliveriesCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery sync job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery sync job failed", "error", err)
		return
	}

	if result.Checked > 0 {
		j.logger.InfoContext(ctx, "Delivery sync finished",
			slog.Int("checked", result.Checked),
			slog.Int("delivered", result.Delivered),
			slog.Int("failed", result.Failed),
		)
	}
}

// cronLogger routes scheduler messages into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
