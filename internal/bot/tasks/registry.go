package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature shared by all scheduled tasks. Tasks
// must respect the provided context for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of available scheduled tasks. The map keys
// match the task names used in the scheduler section of the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"db_maintenance": newDBMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
