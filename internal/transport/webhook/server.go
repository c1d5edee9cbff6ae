package webhook

import (
	"context"
	"fmt"
	"log/slog"

	tb "gopkg.in/telebot.v3"
)

type Server struct {
	logger *slog.Logger
	bot    *tb.Bot
	host   string
	port   string
}

func NewServer(logger *slog.Logger, bot *tb.Bot, host, port string) *Server {
	return &Server{
		logger: logger,
		bot:    bot,
		host:   host,
		port:   port,
	}
}

// Start blocks until ctx is cancelled. Registering the webhook
// replaces any long-polling session for this token.
func (s *Server) Start(ctx context.Context) {
	webhookURL := fmt.Sprintf("%s/webhook", s.host)

	s.bot.Poller = &tb.Webhook{
		Listen:   ":" + s.port,
		Endpoint: &tb.WebhookEndpoint{PublicURL: webhookURL},
	}
	s.logger.Info("Webhook server listening", "port", s.port, "url", webhookURL)

	go func() {
		<-ctx.Done()
		s.logger.Info("Stopping webhook server")
		s.bot.Stop()
	}()

	s.bot.Start()
}
