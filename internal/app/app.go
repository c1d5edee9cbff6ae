package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	tb "gopkg.in/telebot.v3"

	"github.com/PouyaEvan/topic-limiter/internal/admin"
	"github.com/PouyaEvan/topic-limiter/internal/config"
	"github.com/PouyaEvan/topic-limiter/internal/cooldown"
	"github.com/PouyaEvan/topic-limiter/internal/handler"
	"github.com/PouyaEvan/topic-limiter/internal/metrics"
	"github.com/PouyaEvan/topic-limiter/internal/platform/telegram"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
	"github.com/PouyaEvan/topic-limiter/internal/service"
	"github.com/PouyaEvan/topic-limiter/internal/throttle"
	"github.com/PouyaEvan/topic-limiter/internal/transport/polling"
	"github.com/PouyaEvan/topic-limiter/internal/transport/webhook"
)

type App struct {
	cfg    *config.Config
	logger *slog.Logger
	bot    *tb.Bot
	tracer trace.Tracer
}

func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  cfg.BotToken,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot client: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		bot:    bot,
		tracer: otel.Tracer("topic-limiter"),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("Starting Topic Limiter Bot")
	a.logger.Info("Bot connected", "username", a.bot.Me.Username, "id", a.bot.Me.ID)

	records := repository.NewRecordRepository(a.cfg.DataDir, a.logger)
	admins := repository.NewCustomAdminRepository(a.cfg.DataDir, a.logger)
	cooldowns := repository.NewCooldownRepository(a.cfg.DataDir, a.logger)

	gateway := telegram.NewGateway(a.bot, a.cfg.SendRatePerSecond)
	resolver := admin.NewResolver(a.logger, gateway, admins, a.cfg.AdminCacheTTL())
	eval := cooldown.NewEvaluator(cooldowns, a.cfg.DefaultCooldown())
	thr := throttle.New(a.cfg.WarningTTL())

	svc := service.NewModerationService(a.logger, records, admins, cooldowns, resolver, eval, thr, gateway)
	svc.StartCleanupTask(ctx, a.cfg.CleanupInterval())

	h := handler.NewHandler(a.logger, svc, a.bot, gateway, a.cfg)
	h.Register()

	metricsSrv := metrics.NewServer(a.logger, a.cfg.MetricsAddr)
	go func() {
		if err := metricsSrv.Listen(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	if a.cfg.WebhookHost != "" {
		a.logger.Info("Starting in Webhook mode", "host", a.cfg.WebhookHost)
		srv := webhook.NewServer(a.logger, a.bot, a.cfg.WebhookHost, a.cfg.Port)
		srv.Start(ctx)
	} else {
		a.logger.Info("Starting in Long Polling mode")
		poller := polling.NewPoller(a.logger, a.bot)
		poller.Start(ctx)
	}

	a.logger.Info("Shutting down...")
	return nil
}
