package gemini

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestClient(gen generator) *client {
	return &client{
		gen:      gen,
		log:      slog.Default(),
		timeout:  time.Second,
		fallback: "fallback-reply",
	}
}

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "  a witty reply \n"}
	c := newTestClient(gen)

	reply, fallback := c.Complete(context.Background(), []string{"Human: hello"}, "hello")
	if fallback {
		t.Error("fallback = true, want false on success")
	}
	if reply != "a witty reply" {
		t.Errorf("reply = %q, want trimmed generator output", reply)
	}
}

func TestCompleteFailureSubstitutesFallback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
	}{
		{name: "service error", err: errors.New("rate limited")},
		{name: "timeout", err: context.DeadlineExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(&fakeGenerator{err: tc.err})
			reply, fallback := c.Complete(context.Background(), nil, "hello")
			if !fallback {
				t.Error("fallback = false, want true on failure")
			}
			if reply != "fallback-reply" {
				t.Errorf("reply = %q, want configured fallback", reply)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	history := []string{"Human: hi there", "Bot: hey", "Human: how are you?"}
	prompt := buildPrompt(history, "how are you?")

	if !strings.Contains(prompt, "Human: hi there\nBot: hey\nHuman: how are you?\n") {
		t.Errorf("prompt missing joined oldest-first history:\n%s", prompt)
	}
	if strings.Count(prompt, "Human: how are you?") != 1 {
		t.Errorf("latest message duplicated in prompt:\n%s", prompt)
	}
	if !strings.HasPrefix(prompt, completionInstruction) {
		t.Error("prompt does not start with the completion instruction")
	}
}

func TestBuildPromptAppendsLatestWhenMissing(t *testing.T) {
	t.Parallel()

	// Simulates the history read racing past the just-appended human turn.
	prompt := buildPrompt([]string{"Human: earlier message"}, "latest message")
	if !strings.Contains(prompt, "Human: latest message") {
		t.Errorf("latest message missing from prompt:\n%s", prompt)
	}

	empty := buildPrompt(nil, "first ever message")
	if !strings.Contains(empty, "Human: first ever message") {
		t.Errorf("latest message missing from empty-history prompt:\n%s", empty)
	}
}
