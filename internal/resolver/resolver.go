// Package resolver implements the response-resolution pipeline: the
// ordered decision process that turns an incoming message plus conversation
// history into an outgoing reply.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/banterlabs/banterbot/internal/database"
)

// Inbound is a transport-agnostic inbound message event.
type Inbound struct {
	Sender string
	Body   string
}

// Matcher is the short-circuit rule table checked before the completion
// service is consulted.
type Matcher interface {
	Match(message string) (reply string, ok bool)
}

// Gateway produces a reply from the conversation context. It never fails;
// service failures surface as a fallback reply with fallback=true.
type Gateway interface {
	Complete(ctx context.Context, history []string, latest string) (reply string, fallback bool)
}

// Resolver orchestrates one message's pipeline: load/create profile, record
// the human turn, try the rules, fall through to the completion gateway,
// record the bot turn. It holds no state between messages beyond what the
// store persists, so concurrent messages need no coordination here.
type Resolver struct {
	store        database.Store
	rules        Matcher
	gateway      Gateway
	log          *slog.Logger
	contextTurns int
	now          func() time.Time
}

// New creates a Resolver with its collaborators injected. contextTurns
// bounds the history slice passed to the gateway; values <= 0 fall back to
// the store default.
func New(store database.Store, rules Matcher, gateway Gateway, contextTurns int, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if contextTurns <= 0 {
		contextTurns = database.DefaultContextTurns
	}
	return &Resolver{
		store:        store,
		rules:        rules,
		gateway:      gateway,
		log:          log.With("component", "resolver"),
		contextTurns: contextTurns,
		now:          time.Now,
	}
}

// Resolve runs the pipeline for one inbound message and returns the reply
// to hand back to the transport. A storage failure aborts the turn and is
// returned wrapped in database.ErrStorage; no operation is retried here.
func (r *Resolver) Resolve(ctx context.Context, in Inbound) (string, error) {
	body := strings.TrimSpace(in.Body)
	if in.Sender == "" {
		return "", fmt.Errorf("inbound message has no sender")
	}
	if body == "" {
		return "", fmt.Errorf("inbound message from %q has no content", in.Sender)
	}

	// Profile is fetched for future personalization; the rule and gateway
	// paths don't read it yet.
	if _, err := r.store.GetOrCreateProfile(ctx, in.Sender); err != nil {
		return "", fmt.Errorf("loading profile: %w", err)
	}

	// The human turn is durable before any reply is computed, so a failure
	// further down never loses the incoming message.
	humanTurn := &database.Turn{
		Sender:    in.Sender,
		Content:   body,
		Role:      database.RoleHuman,
		Timestamp: r.now().UTC(),
	}
	if err := r.store.AppendTurn(ctx, humanTurn); err != nil {
		return "", fmt.Errorf("recording human turn: %w", err)
	}

	reply, matched := r.rules.Match(body)
	if matched {
		r.log.InfoContext(ctx, "Rule matched, skipping completion gateway", "sender", in.Sender)
	} else {
		lines, err := r.fetchContext(ctx, in.Sender)
		if err != nil {
			return "", err
		}

		var fallback bool
		reply, fallback = r.gateway.Complete(ctx, lines, body)
		if fallback {
			r.log.WarnContext(ctx, "Reply is the gateway fallback", "sender", in.Sender)
		}
	}

	botTurn := &database.Turn{
		Sender:    in.Sender,
		Content:   reply,
		Role:      database.RoleBot,
		Timestamp: r.now().UTC(),
	}
	if err := r.store.AppendTurn(ctx, botTurn); err != nil {
		return "", fmt.Errorf("recording bot turn: %w", err)
	}

	return reply, nil
}

// fetchContext reads the bounded recent history as "Role: message" lines,
// oldest-first. The just-received human message is not appended here; the
// gateway's prompt builder adds it when the read raced past the append.
func (r *Resolver) fetchContext(ctx context.Context, sender string) ([]string, error) {
	turns, err := r.store.RecentTurns(ctx, sender, r.contextTurns)
	if err != nil {
		return nil, fmt.Errorf("fetching context: %w", err)
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.Line())
	}
	return lines, nil
}
