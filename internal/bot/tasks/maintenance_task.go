package tasks

import (
	"context"
	"fmt"
	"time"
)

// newDBMaintenanceTask creates the scheduled task that compacts the database
// and, when a retention cap is configured, prunes old conversation turns.
func newDBMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "db_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting database maintenance task")
		startTime := time.Now()

		if keep := deps.Config.Database.RetentionTurns; keep > 0 {
			pruned, err := deps.Store.PruneTurns(ctx, keep)
			if err != nil {
				log.ErrorContext(ctx, "Turn pruning failed", "error", err, "retention_turns", keep)
				return fmt.Errorf("turn pruning failed: %w", err)
			}
			log.InfoContext(ctx, "Pruned old conversation turns", "pruned", pruned, "retention_turns", keep)
		}

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Database maintenance failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Database maintenance task completed", "duration", time.Since(startTime))
		return nil
	}
}
