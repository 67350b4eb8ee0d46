package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAutoAssignSpec runs a dispatch pass every 30 seconds.
const DefaultAutoAssignSpec = "*/30 * * * * *"

// AutoAssignJob periodically runs a batch dispatch pass over the whole
// pending backlog. A pass only runs while an auto-assign rule is active, so
// activating a rule is the operational switch for automatic dispatch.
type AutoAssignJob struct {
	handler commands.BatchAssignOrdersCommandHandler
	rules   commands.RuleReader
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAutoAssignJob creates the auto-assign job. An empty spec falls back to
// DefaultAutoAssignSpec.
func NewAutoAssignJob(
	handler commands.BatchAssignOrdersCommandHandler,
	rules commands.RuleReader,
	spec string,
	logger *slog.Logger,
) *AutoAssignJob {
	if spec == "" {
		spec = DefaultAutoAssignSpec
	}

	return &AutoAssignJob{
		handler: handler,
		rules:   rules,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "auto_assign_job"),
	}
}

// Start schedules the periodic dispatch pass.
func (j *AutoAssignJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, j.runPass)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto-assign job started", "spec", j.spec)
	return nil
}

// Stop stops the auto-assign job.
func (j *AutoAssignJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auto-assign job stopped")
}

// runPass executes one batch dispatch pass over the whole backlog.
func (j *AutoAssignJob) runPass() {
	ctx := context.Background()

	active, err := j.hasActiveRule(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto-assign rule check failed", "error", err)
		return
	}
	if !active {
		return
	}

	result, err := j.handler.Handle(ctx, commands.NewBatchAssignOrdersCommand(nil))
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto-assign pass failed", "error", err)
		return
	}

	if result.Summary.TotalProcessed > 0 {
		j.logger.InfoContext(ctx, "Auto-assign pass completed",
			"batch_id", result.BatchID,
			"assigned", result.Summary.Assigned,
			"failed", result.Summary.Failed,
		)
	}
}

func (j *AutoAssignJob) hasActiveRule(ctx context.Context) (bool, error) {
	rules, err := j.rules.GetAll(ctx)
	if err != nil {
		return false, err
	}

	for _, r := range rules {
		if r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}
