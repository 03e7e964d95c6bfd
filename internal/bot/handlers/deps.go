package handlers

import (
	"log/slog"

	"github.com/banterlabs/banterbot/internal/config"
	"github.com/banterlabs/banterbot/internal/resolver"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Resolver *resolver.Resolver
}
