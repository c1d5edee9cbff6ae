package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	tb "gopkg.in/telebot.v3"

	"github.com/PouyaEvan/topic-limiter/internal/config"
	"github.com/PouyaEvan/topic-limiter/internal/platform"
	"github.com/PouyaEvan/topic-limiter/internal/service"
)

type Handler struct {
	logger  *slog.Logger
	svc     service.Service
	bot     *tb.Bot
	gateway platform.Gateway
	config  *config.Config
	tracer  trace.Tracer
	started time.Time
}

func NewHandler(logger *slog.Logger, svc service.Service, bot *tb.Bot, gateway platform.Gateway, cfg *config.Config) *Handler {
	return &Handler{
		logger:  logger,
		svc:     svc,
		bot:     bot,
		gateway: gateway,
		config:  cfg,
		tracer:  otel.Tracer("handler"),
		started: time.Now(),
	}
}

// Register binds every update the bot reacts to. Messages matching a
// command endpoint are routed to that command and never reach the
// moderation flow.
func (h *Handler) Register() {
	h.bot.Handle(tb.OnText, h.onMessage)
	h.bot.Handle(tb.OnMedia, h.onMessage)
	h.bot.Handle(tb.OnSticker, h.onMessage)

	h.bind("/help", h.handleHelp)
	h.bind("/ping", h.handlePing)
	h.bind("/status", h.handleStatus)
	h.bind("/check_duplicates", h.handleCheckDuplicates)
	h.bind("/reset", h.handleReset)
	h.bind("/addadmin", h.handleAddAdmin)
	h.bind("/removeadmin", h.handleRemoveAdmin)
	h.bind("/listadmins", h.handleListAdmins)
	h.bind("/setcooldown", h.handleSetCooldown)
	h.bind("/resetcooldown", h.handleResetCooldown)
	h.bind("/listcooldowns", h.handleListCooldowns)
}

// commandRequest carries the parts of an incoming command the
// handlers act on, decoupled from the transport types.
type commandRequest struct {
	chatID       int64
	userID       int64
	senderChatID int64
	threadID     int
	args         []string
}

// bind wraps a command handler with the shared guards: commands are
// only honored in allowed group chats, and a non-empty return value
// is sent back into the thread the command came from.
func (h *Handler) bind(endpoint string, fn func(ctx context.Context, req commandRequest) string) {
	h.bot.Handle(endpoint, func(c tb.Context) error {
		msg := c.Message()
		if msg == nil || c.Chat() == nil {
			return nil
		}
		if !isGroup(c.Chat().Type) || !h.config.ChatAllowed(c.Chat().ID) {
			return nil
		}

		ctx := context.Background()
		var span trace.Span
		if h.config.EnableTelemetry {
			ctx, span = h.tracer.Start(ctx, "HandleCommand")
			defer span.End()
		}

		req := commandRequest{
			chatID:   c.Chat().ID,
			threadID: msg.ThreadID,
		}
		if msg.Sender != nil {
			req.userID = msg.Sender.ID
		}
		if msg.SenderChat != nil {
			req.senderChatID = msg.SenderChat.ID
		}
		if fields := strings.Fields(msg.Text); len(fields) > 0 {
			req.args = fields[1:]
		}

		h.logger.Info("Command received", "command", endpoint, "chat_id", req.chatID, "user_id", req.userID)

		if reply := fn(ctx, req); reply != "" {
			h.sendReply(ctx, req.chatID, req.threadID, reply)
		}
		return nil
	})
}

func isGroup(t tb.ChatType) bool {
	return t == tb.ChatGroup || t == tb.ChatSuperGroup
}
