package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/PouyaEvan/topic-limiter/internal/messages"
	"github.com/PouyaEvan/topic-limiter/internal/metrics"
	"github.com/PouyaEvan/topic-limiter/internal/utils"
)

// sendWarning posts the cooldown notice into the monitored topic and
// schedules its own removal so the thread stays clean.
func (h *Handler) sendWarning(ctx context.Context, in inboundMessage, remaining time.Duration) {
	window := h.svc.EffectiveWindow(ctx, in.chatID, in.userID)
	text := fmt.Sprintf(messages.MsgWarning,
		in.username, int(window.Hours()), utils.FormatHoursMinutes(remaining))

	warningID, err := h.gateway.SendMessage(ctx, in.chatID, h.config.TopicID, text)
	if err != nil {
		h.logger.Warn("Failed to send warning message",
			"chat_id", in.chatID, "user_id", in.userID, "error", err)
		return
	}
	h.logger.Info("Sent warning", "chat_id", in.chatID, "user_id", in.userID)
	metrics.IncBotAction("warning")

	h.svc.ScheduleDeletion(ctx, in.chatID, warningID, h.config.WarningTTL())
}

func (h *Handler) deleteMessage(ctx context.Context, chatID int64, messageID int, reason string) error {
	if err := h.gateway.DeleteMessage(ctx, chatID, messageID); err != nil {
		h.logger.Warn("Failed to delete message",
			"chat_id", chatID, "message_id", messageID, "error", err)
		return err
	}
	h.logger.Info("Deleted message", "chat_id", chatID, "message_id", messageID, "reason", reason)
	metrics.IncDeletedMessages(reason)
	return nil
}

func (h *Handler) sendReply(ctx context.Context, chatID int64, threadID int, text string) {
	if _, err := h.gateway.SendMessage(ctx, chatID, threadID, text); err != nil {
		h.logger.Warn("Failed to send reply", "chat_id", chatID, "error", err)
	}
}
