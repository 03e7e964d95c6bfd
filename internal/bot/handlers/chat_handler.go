// Package handlers contains Telegram bot message handlers and their
// registration logic.
package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/banterlabs/banterbot/internal/database"
	"github.com/banterlabs/banterbot/internal/resolver"
)

const (
	resolveTimeout     = 3 * time.Minute
	sendMessageTimeout = 10 * time.Second
)

type chatHandler struct {
	deps HandlerDeps
}

// NewChatHandler creates the default handler: every plain text message is
// one inbound event for the response pipeline. The bot library runs each
// update in its own goroutine, so messages from different senders resolve
// concurrently without any coordination here.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		log.DebugContext(ctx, "Ignoring update with nil message, empty text, or nil sender", "update_id", update.ID)
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		// Commands are registered separately; don't relay them.
		log.DebugContext(ctx, "Ignoring unrecognized command", "chat_id", msg.Chat.ID)
		return
	}

	chatID := msg.Chat.ID
	sender := strconv.FormatInt(msg.From.ID, 10)

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	reply, err := deps.Resolver.Resolve(resolveCtx, resolver.Inbound{Sender: sender, Body: msg.Text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to resolve reply", "error", err, "sender", sender, "chat_id", chatID)
		// Storage failures abort the turn; the sender still gets a generic
		// failure reply instead of silence.
		if errors.Is(err, database.ErrStorage) {
			h.send(ctx, b, chatID, msg.ID, deps.Config.Replies.GeneralError)
		}
		return
	}

	h.send(ctx, b, chatID, msg.ID, reply)
}

func (h chatHandler) send(ctx context.Context, b *bot.Bot, chatID int64, replyTo int, text string) {
	log := h.deps.Logger.With("handler", "chat")

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	sent, err := b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: replyTo},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply message", "error", err, "chat_id", chatID)
		return
	}
	log.InfoContext(ctx, "Sent reply", "chat_id", chatID, "message_id", sent.ID)
}
