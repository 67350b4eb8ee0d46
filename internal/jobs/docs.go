// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AutoAssignJob - Periodically runs a batch dispatch pass over the pending
// backlog while an active auto-assign rule exists.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(autoAssignJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The auto-assign cadence is configurable; the default spec "*/30 * * * * *"
// runs a pass every 30 seconds. Passes are skipped entirely while no
// auto-assign rule is active, so enabling a rule is the operational on/off
// switch for automatic dispatch.
//
// # Error Handling
//
// A failed pass is logged and the next scheduled pass runs normally; per-order
// failures inside a pass are part of the batch result, not errors.
package jobs
