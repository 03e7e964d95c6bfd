// Package gemini wraps the call to Google's Gemini API that produces chat
// replies. It is the one component allowed to swallow errors: any failure
// of the external service becomes the fixed fallback reply, logged but
// never propagated to the resolver.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/banterlabs/banterbot/internal/config"
)

// Client generates a reply from the conversation context and the latest
// human message.
type Client interface {
	// Complete returns the reply text and whether it is the fallback reply
	// substituted for a completion-service failure. It never returns an
	// error: availability wins over correctness here.
	Complete(ctx context.Context, history []string, latest string) (reply string, fallback bool)
}

// generator is the raw completion call, split out so tests can substitute
// a fake for the SDK.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

type client struct {
	gen      generator
	log      *slog.Logger
	timeout  time.Duration
	fallback string
}

type sdkGenerator struct {
	genaiClient *genai.Client
	model       string
	config      *genai.GenerateContentConfig
}

func (g *sdkGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.genaiClient.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return text, nil
}

// NewClient creates a Gemini-backed completion client. The model is fixed
// for the client's lifetime; every Complete call uses it.
func NewClient(ctx context.Context, cfg config.GeminiConfig, fallbackReply string, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.Model)

	return &client{
		gen: &sdkGenerator{
			genaiClient: gi,
			model:       cfg.Model,
			config:      &genai.GenerateContentConfig{Temperature: &temperature},
		},
		log:      logger,
		timeout:  cfg.Timeout,
		fallback: fallbackReply,
	}, nil
}

func (c *client) Complete(ctx context.Context, history []string, latest string) (string, bool) {
	prompt := buildPrompt(history, latest)

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.gen.generate(callCtx, prompt)
	if err != nil {
		c.log.ErrorContext(ctx, "Completion failed, substituting fallback reply",
			"error", err, "duration", time.Since(start))
		return c.fallback, true
	}

	c.log.DebugContext(ctx, "Completion succeeded",
		"context_lines", len(history), "duration", time.Since(start))
	return strings.TrimSpace(text), false
}
