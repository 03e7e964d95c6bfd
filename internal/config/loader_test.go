package config

import (
	"errors"
	"testing"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir()) // keep any real config.yaml out of the test
	t.Setenv("BOT_TELEGRAM_TOKEN", "test-token")
	t.Setenv("BOT_GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Telegram.Token != "test-token" {
		t.Errorf("telegram token = %q, want %q", cfg.Telegram.Token, "test-token")
	}
	if cfg.Gemini.Model != DefaultGeminiModel {
		t.Errorf("gemini model = %q, want default %q", cfg.Gemini.Model, DefaultGeminiModel)
	}
	if cfg.Database.ContextTurns != DefaultContextTurns {
		t.Errorf("context turns = %d, want %d", cfg.Database.ContextTurns, DefaultContextTurns)
	}
	if cfg.Database.RetentionTurns != 0 {
		t.Errorf("retention turns = %d, want 0 (unbounded storage)", cfg.Database.RetentionTurns)
	}
	if cfg.Replies.Fallback != DefaultReplies.Fallback {
		t.Errorf("fallback reply = %q, want default", cfg.Replies.Fallback)
	}
}

func TestLoadMissingRequiredValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TELEGRAM_TOKEN", "")
	t.Setenv("BOT_GEMINI_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for missing secrets, got nil")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TELEGRAM_TOKEN", "test-token")
	t.Setenv("BOT_GEMINI_API_KEY", "test-key")
	t.Setenv("BOT_DATABASE_CONTEXT_TURNS", "5")
	t.Setenv("BOT_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Database.ContextTurns != 5 {
		t.Errorf("context turns = %d, want 5", cfg.Database.ContextTurns)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}
