// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based and use github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// DeliverySyncJob lists shipped orders in batches, asks the shipment service
// for each shipment's status and marks the order delivered once the shipment
// is. Its schedule defaults to every thirty seconds.
//
// # Usage
//
//	syncJob := jobs.NewDeliverySyncJob(syncHandler, "*/30 * * * * *", 100, 20*time.Second, logger)
//	jobManager := jobs.NewJobManager(syncJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the next tick tries again. Per-order failures
// are counted by the sync itself and never abort the run.
package jobs
