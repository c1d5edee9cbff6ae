package polling

import (
	"context"
	"log/slog"

	tb "gopkg.in/telebot.v3"
)

type Poller struct {
	logger *slog.Logger
	bot    *tb.Bot
}

func NewPoller(logger *slog.Logger, bot *tb.Bot) *Poller {
	return &Poller{
		logger: logger,
		bot:    bot,
	}
}

// Start blocks until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Long Polling")

	go func() {
		<-ctx.Done()
		p.logger.Info("Stopping Long Polling")
		p.bot.Stop()
	}()

	p.bot.Start()
}
