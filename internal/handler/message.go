package handler

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tb "gopkg.in/telebot.v3"

	"github.com/PouyaEvan/topic-limiter/internal/metrics"
	"github.com/PouyaEvan/topic-limiter/internal/pipeline"
)

// inboundMessage carries the parts of an incoming group message the
// moderation flow acts on, decoupled from the transport types.
type inboundMessage struct {
	chatID       int64
	userID       int64
	senderChatID int64
	username     string
	messageID    int
	threadID     int
	fromSelf     bool
}

func (h *Handler) onMessage(c tb.Context) error {
	msg := c.Message()
	if msg == nil || c.Chat() == nil {
		return nil
	}
	if !isGroup(c.Chat().Type) {
		return nil
	}
	// Unregistered commands fall through to OnText; they are not
	// moderated, like the registered ones.
	if strings.HasPrefix(msg.Text, "/") {
		return nil
	}

	in := inboundMessage{
		chatID:    c.Chat().ID,
		messageID: msg.ID,
		threadID:  msg.ThreadID,
	}
	if msg.Sender != nil {
		in.userID = msg.Sender.ID
		in.username = msg.Sender.Username
		if in.username == "" {
			in.username = msg.Sender.FirstName
		}
		in.fromSelf = h.bot.Me != nil && msg.Sender.ID == h.bot.Me.ID
	}
	if msg.SenderChat != nil {
		in.senderChatID = msg.SenderChat.ID
	}

	h.processMessage(context.Background(), in)
	return nil
}

func (h *Handler) processMessage(ctx context.Context, in inboundMessage) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpdateProcessing("message", time.Since(start).Seconds(), nil)
	}()

	var span trace.Span
	if h.config.EnableTelemetry {
		ctx, span = h.tracer.Start(ctx, "ProcessMessage")
		defer span.End()
		span.SetAttributes(
			attribute.Int64("chat_id", in.chatID),
			attribute.Int64("user_id", in.userID),
		)
	}

	if in.fromSelf {
		return
	}
	if !h.config.ChatAllowed(in.chatID) {
		h.logger.Debug("Ignoring message from disallowed chat", "chat_id", in.chatID)
		return
	}
	if in.threadID != h.config.TopicID {
		return
	}

	h.logger.Info("Received topic message",
		"chat_id", in.chatID,
		"user_id", in.userID,
		"message_id", in.messageID,
	)

	payload := pipeline.Payload{
		ChatID:       in.chatID,
		UserID:       in.userID,
		SenderChatID: in.senderChatID,
		Username:     in.username,
		MessageID:    in.messageID,
		ThreadID:     in.threadID,
	}
	res, err := h.svc.ModerateMessage(ctx, payload)
	if err != nil {
		h.logger.Error("Failed to moderate message", "error", err)
		return
	}
	if res.Exempt {
		h.logger.Debug("Sender is exempt", "chat_id", in.chatID, "user_id", in.userID)
		return
	}
	if res.IsAllowed {
		if err := h.svc.RecordMessage(ctx, in.chatID, in.userID, time.Now()); err != nil {
			h.logger.Error("Failed to record message", "error", err)
		}
		h.logger.Debug("Message allowed", "chat_id", in.chatID, "user_id", in.userID)
		return
	}

	h.logger.Info("Message blocked",
		"reason", res.Reason,
		"filter", res.FilterName,
		"chat_id", in.chatID,
		"user_id", in.userID,
	)

	if res.ShouldDelete {
		_ = h.deleteMessage(ctx, in.chatID, in.messageID, res.FilterName)
	}

	if h.svc.ShouldWarn(in.chatID, in.userID) {
		h.svc.MarkWarned(in.chatID, in.userID)
		h.sendWarning(ctx, in, res.Remaining)
	}
}
