// Package tasks implements the background tasks run by the scheduler.
package tasks

import (
	"log/slog"

	"github.com/banterlabs/banterbot/internal/config"
	"github.com/banterlabs/banterbot/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
