package handler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/PouyaEvan/topic-limiter/internal/admin"
	"github.com/PouyaEvan/topic-limiter/internal/config"
	"github.com/PouyaEvan/topic-limiter/internal/cooldown"
	"github.com/PouyaEvan/topic-limiter/internal/platform"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
	"github.com/PouyaEvan/topic-limiter/internal/service"
	"github.com/PouyaEvan/topic-limiter/internal/throttle"
)

var errTransport = errors.New("transport unavailable")

type sentMessage struct {
	chatID   int64
	threadID int
	text     string
}

type deletedMessage struct {
	chatID    int64
	messageID int
}

// fakeGateway records outbound traffic instead of talking to the
// platform. Scheduled deletions land asynchronously, so access is
// guarded.
type fakeGateway struct {
	mu       sync.Mutex
	sent     []sentMessage
	deleted  []deletedMessage
	admins   map[int64][]int64
	adminErr error
	roles    map[int64]platform.Role
	roleErr  error
	sendErr  error
	nextID   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		admins: map[int64][]int64{},
		roles:  map[int64]platform.Role{},
		nextID: 1000,
	}
}

func (f *fakeGateway) SendMessage(ctx context.Context, chatID int64, threadID int, text string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, threadID: threadID, text: text})
	return f.nextID, nil
}

func (f *fakeGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, deletedMessage{chatID: chatID, messageID: messageID})
	return nil
}

func (f *fakeGateway) ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.admins[chatID], nil
}

func (f *fakeGateway) MemberRole(ctx context.Context, chatID, userID int64) (platform.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roleErr != nil {
		return platform.RoleMember, f.roleErr
	}
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return platform.RoleMember, nil
}

func (f *fakeGateway) sentMessages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeGateway) deletedMessages() []deletedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]deletedMessage, len(f.deleted))
	copy(out, f.deleted)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		TopicID:              42,
		DefaultCooldownHours: 24,
		WarningTTLSeconds:    3600,
		AdminCacheTTLSeconds: 300,
		CleanupIntervalSecs:  3600,
		SendRatePerSecond:    5,
	}
}

type handlerEnv struct {
	h         *Handler
	gateway   *fakeGateway
	svc       service.Service
	records   repository.RecordRepository
	cooldowns repository.CooldownRepository
}

func newHandlerEnv(t *testing.T, cfg *config.Config) *handlerEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dir := t.TempDir()

	records := repository.NewRecordRepository(dir, logger)
	admins := repository.NewCustomAdminRepository(dir, logger)
	cooldowns := repository.NewCooldownRepository(dir, logger)

	gateway := newFakeGateway()
	resolver := admin.NewResolver(logger, gateway, admins, cfg.AdminCacheTTL())
	eval := cooldown.NewEvaluator(cooldowns, cfg.DefaultCooldown())
	thr := throttle.New(cfg.WarningTTL())

	svc := service.NewModerationService(logger, records, admins, cooldowns, resolver, eval, thr, gateway)

	return &handlerEnv{
		h:         NewHandler(logger, svc, nil, gateway, cfg),
		gateway:   gateway,
		svc:       svc,
		records:   records,
		cooldowns: cooldowns,
	}
}

func topicMessage(userID int64, messageID int) inboundMessage {
	return inboundMessage{
		chatID:    -100,
		userID:    userID,
		username:  "someone",
		messageID: messageID,
		threadID:  42,
	}
}

func adminRequest(userID int64, args ...string) commandRequest {
	return commandRequest{
		chatID:   -100,
		userID:   userID,
		threadID: 42,
		args:     args,
	}
}
