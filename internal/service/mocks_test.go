package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/PouyaEvan/topic-limiter/internal/admin"
	"github.com/PouyaEvan/topic-limiter/internal/cooldown"
	"github.com/PouyaEvan/topic-limiter/internal/platform"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
	"github.com/PouyaEvan/topic-limiter/internal/throttle"
)

type MockGateway struct {
	SendMessageFunc        func(ctx context.Context, chatID int64, threadID int, text string) (int, error)
	DeleteMessageFunc      func(ctx context.Context, chatID int64, messageID int) error
	ChatAdministratorsFunc func(ctx context.Context, chatID int64) ([]int64, error)
	MemberRoleFunc         func(ctx context.Context, chatID, userID int64) (platform.Role, error)
}

func (m *MockGateway) SendMessage(ctx context.Context, chatID int64, threadID int, text string) (int, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, threadID, text)
	}
	return 1, nil
}

func (m *MockGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, chatID, messageID)
	}
	return nil
}

func (m *MockGateway) ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error) {
	if m.ChatAdministratorsFunc != nil {
		return m.ChatAdministratorsFunc(ctx, chatID)
	}
	return nil, nil
}

func (m *MockGateway) MemberRole(ctx context.Context, chatID, userID int64) (platform.Role, error) {
	if m.MemberRoleFunc != nil {
		return m.MemberRoleFunc(ctx, chatID, userID)
	}
	return platform.RoleMember, nil
}

type testEnv struct {
	svc       Service
	records   repository.RecordRepository
	cooldowns repository.CooldownRepository
	gateway   *MockGateway
}

func newTestEnv(t *testing.T, gateway *MockGateway) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dir := t.TempDir()

	records := repository.NewRecordRepository(dir, logger)
	admins := repository.NewCustomAdminRepository(dir, logger)
	cooldowns := repository.NewCooldownRepository(dir, logger)

	resolver := admin.NewResolver(logger, gateway, admins, 5*time.Minute)
	eval := cooldown.NewEvaluator(cooldowns, 24*time.Hour)
	thr := throttle.New(10 * time.Second)

	svc := NewModerationService(logger, records, admins, cooldowns, resolver, eval, thr, gateway)

	return &testEnv{
		svc:       svc,
		records:   records,
		cooldowns: cooldowns,
		gateway:   gateway,
	}
}
