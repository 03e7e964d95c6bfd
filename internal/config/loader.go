package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. BOT_* environment variables
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow missing config file; defaults plus environment are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	// Secrets default to empty so viper binds their BOT_* variables even
	// when no config file sets them.
	v.SetDefault("telegram.token", "")
	v.SetDefault("gemini.api_key", "")

	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.context_turns", DefaultContextTurns)
	v.SetDefault("database.retention_turns", DefaultRetentionTurns)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.throttle_limit", DefaultServerThrottleLimit)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.read_header_timeout", DefaultServerReadHeaderTimeout)

	v.SetDefault("replies.greeting", DefaultReplies.Greeting)
	v.SetDefault("replies.identity", DefaultReplies.Identity)
	v.SetDefault("replies.creator", DefaultReplies.Creator)
	v.SetDefault("replies.fallback", DefaultReplies.Fallback)
	v.SetDefault("replies.general_error", DefaultReplies.GeneralError)
	v.SetDefault("replies.welcome", DefaultReplies.Welcome)

	v.SetDefault("scheduler.tasks.db_maintenance.enabled", false)
	v.SetDefault("scheduler.tasks.db_maintenance.schedule", DefaultMaintenanceSchedule)
}
