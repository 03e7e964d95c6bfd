// Package config manages application configuration from config.yaml,
// BOT_* environment variables, and default values.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration marks any configuration loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Replies   RepliesConfig   `mapstructure:"replies"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the transport credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// GeminiConfig holds the completion service settings. The model is fixed
// per deployment; every completion call uses it.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"     validate:"required"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"required,min=1s,max=10m"`
}

// DatabaseConfig holds persistence settings. ContextTurns bounds the
// history slice read for completion prompts; RetentionTurns, when positive,
// caps the turns kept per sender during maintenance (0 keeps everything).
type DatabaseConfig struct {
	Path           string `mapstructure:"path"            validate:"required"`
	ContextTurns   int    `mapstructure:"context_turns"   validate:"min=1,max=100"`
	RetentionTurns int    `mapstructure:"retention_turns" validate:"min=0"`
}

// ServerConfig holds the HTTP health/webhook listener settings.
type ServerConfig struct {
	Addr             string        `mapstructure:"addr"              validate:"required"`
	ThrottleLimit    int           `mapstructure:"throttle_limit"    validate:"min=1"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"  validate:"min=1s"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"min=1s"`
}

// RepliesConfig holds the fixed reply strings used by the rule matcher and
// the error/fallback paths.
type RepliesConfig struct {
	Greeting     string `mapstructure:"greeting"      validate:"required"`
	Identity     string `mapstructure:"identity"      validate:"required"`
	Creator      string `mapstructure:"creator"       validate:"required"`
	Fallback     string `mapstructure:"fallback"      validate:"required"`
	GeneralError string `mapstructure:"general_error" validate:"required"`
	Welcome      string `mapstructure:"welcome"       validate:"required"`
}

// SchedulerConfig controls background tasks keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig holds the schedule for a single background task. Schedule is a
// six-field cron expression with seconds.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
