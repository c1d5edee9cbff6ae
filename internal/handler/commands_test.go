package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PouyaEvan/topic-limiter/internal/messages"
	"github.com/PouyaEvan/topic-limiter/internal/platform"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
)

const (
	adminUser  int64 = 99
	memberUser int64 = 50
)

// withChatAdmin marks adminUser as a real chat admin on both the
// admin list and the live role lookup.
func withChatAdmin(env *handlerEnv) {
	env.gateway.admins[-100] = []int64{adminUser}
	env.gateway.roles[adminUser] = platform.RoleAdministrator
}

func TestCommandsRejectNonAdmins(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)
	ctx := context.Background()

	commands := map[string]func(context.Context, commandRequest) string{
		"help":          env.h.handleHelp,
		"ping":          env.h.handlePing,
		"status":        env.h.handleStatus,
		"duplicates":    env.h.handleCheckDuplicates,
		"reset":         env.h.handleReset,
		"listadmins":    env.h.handleListAdmins,
		"setcooldown":   env.h.handleSetCooldown,
		"resetcooldown": env.h.handleResetCooldown,
		"listcooldowns": env.h.handleListCooldowns,
	}

	for name, fn := range commands {
		t.Run(name, func(t *testing.T) {
			if got := fn(ctx, adminRequest(memberUser, "1", "2")); got != messages.MsgAdminsOnly {
				t.Errorf("reply = %q, want admins-only notice", got)
			}
		})
	}
}

func TestHandleHelp(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)

	got := env.h.handleHelp(context.Background(), adminRequest(adminUser))
	if !strings.Contains(got, "Topic Message Limiter") {
		t.Errorf("help reply %q misses the bot description", got)
	}
	if !strings.Contains(got, "/setcooldown") {
		t.Errorf("help reply %q misses the command list", got)
	}
}

func TestHandlePing(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)

	got := env.h.handlePing(context.Background(), adminRequest(adminUser))
	if !strings.HasPrefix(got, "🏓") {
		t.Errorf("ping reply %q should report liveness", got)
	}
	if !strings.Contains(got, "RAM") {
		t.Errorf("ping reply %q misses resource usage", got)
	}
}

func TestHandleStatus(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)
	ctx := context.Background()

	if got := env.h.handleStatus(ctx, adminRequest(adminUser)); got != messages.MsgStatusEmpty {
		t.Errorf("empty status reply = %q", got)
	}

	backdateRecord(t, env.records, -100, 1, 2*time.Hour)
	backdateRecord(t, env.records, -100, 2, time.Minute)

	got := env.h.handleStatus(ctx, adminRequest(adminUser))
	if !strings.Contains(got, "User ID `1`") || !strings.Contains(got, "User ID `2`") {
		t.Errorf("status reply %q misses user lines", got)
	}
	if !strings.Contains(got, "Total: 2 users") {
		t.Errorf("status reply %q misses the total", got)
	}
}

func TestHandleStatusSkipsExpiredRecords(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)

	backdateRecord(t, env.records, -100, 1, 30*time.Hour)

	got := env.h.handleStatus(context.Background(), adminRequest(adminUser))
	if got != messages.MsgStatusEmpty {
		t.Errorf("status reply = %q, want empty after expiry", got)
	}
}

func TestHandleCheckDuplicates(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)
	ctx := context.Background()

	if got := env.h.handleCheckDuplicates(ctx, adminRequest(adminUser)); got != messages.MsgDuplicatesEmpty {
		t.Errorf("empty duplicates reply = %q", got)
	}

	now := time.Now()
	if err := env.svc.RecordMessage(ctx, -100, 1, now); err != nil {
		t.Fatalf("RecordMessage() error = %v", err)
	}
	if err := env.svc.RecordMessage(ctx, -200, 1, now); err != nil {
		t.Fatalf("RecordMessage() error = %v", err)
	}

	got := env.h.handleCheckDuplicates(ctx, adminRequest(adminUser))
	if !strings.Contains(got, "`1`") {
		t.Errorf("duplicates reply %q misses the user", got)
	}
	if !strings.Contains(got, "-200, -100") {
		t.Errorf("duplicates reply %q misses the sorted chat list", got)
	}
}

func TestHandleReset(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)
	ctx := context.Background()

	if got := env.h.handleReset(ctx, adminRequest(adminUser)); got != messages.MsgUsageReset {
		t.Errorf("missing arg reply = %q, want usage", got)
	}
	if got := env.h.handleReset(ctx, adminRequest(adminUser, "abc")); got != messages.MsgUsageReset {
		t.Errorf("bad arg reply = %q, want usage", got)
	}

	backdateRecord(t, env.records, -100, 1, time.Minute)

	got := env.h.handleReset(ctx, adminRequest(adminUser, "1"))
	if !strings.Contains(got, "Reset cooldown") {
		t.Errorf("reset reply = %q", got)
	}

	got = env.h.handleReset(ctx, adminRequest(adminUser, "1"))
	if !strings.Contains(got, "not found") {
		t.Errorf("second reset reply = %q, want not-found notice", got)
	}

	env.h.processMessage(ctx, topicMessage(1, 10))
	if deleted := env.gateway.deletedMessages(); len(deleted) != 0 {
		t.Errorf("message after reset was deleted: %v", deleted)
	}
}

func TestHandleAddAdminRequiresRealAdmin(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	ctx := context.Background()

	// Custom admin status is not enough to appoint further admins.
	if _, err := env.svc.AddCustomAdmin(ctx, -100, memberUser); err != nil {
		t.Fatalf("AddCustomAdmin() error = %v", err)
	}

	got := env.h.handleAddAdmin(ctx, adminRequest(memberUser, "123"))
	if got != messages.MsgOwnerGateFail {
		t.Errorf("reply = %q, want real-admin gate", got)
	}
}

func TestHandleAddAdminFailsClosedOnLookupError(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	env.gateway.roleErr = errTransport
	ctx := context.Background()

	got := env.h.handleAddAdmin(ctx, adminRequest(adminUser, "123"))
	if got != messages.MsgOwnerGateFail {
		t.Errorf("reply = %q, want real-admin gate on lookup failure", got)
	}
}

func TestCustomAdminLifecycle(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)
	ctx := context.Background()

	if got := env.h.handleListAdmins(ctx, adminRequest(adminUser)); got != messages.MsgAdminsEmpty {
		t.Errorf("empty list reply = %q", got)
	}

	if got := env.h.handleAddAdmin(ctx, adminRequest(adminUser)); got != messages.MsgUsageAddAdmin {
		t.Errorf("missing arg reply = %q, want usage", got)
	}

	got := env.h.handleAddAdmin(ctx, adminRequest(adminUser, "123"))
	if !strings.Contains(got, "added") {
		t.Errorf("add reply = %q", got)
	}
	got = env.h.handleAddAdmin(ctx, adminRequest(adminUser, "123"))
	if !strings.Contains(got, "already") {
		t.Errorf("duplicate add reply = %q", got)
	}

	got = env.h.handleListAdmins(ctx, adminRequest(adminUser))
	if !strings.Contains(got, "`123`") {
		t.Errorf("list reply %q misses the new admin", got)
	}

	// The appointed user may now post without limits.
	env.h.processMessage(ctx, topicMessage(123, 10))
	env.h.processMessage(ctx, topicMessage(123, 11))
	if deleted := env.gateway.deletedMessages(); len(deleted) != 0 {
		t.Errorf("custom admin messages were deleted: %v", deleted)
	}

	got = env.h.handleRemoveAdmin(ctx, adminRequest(adminUser, "123"))
	if !strings.Contains(got, "removed") {
		t.Errorf("remove reply = %q", got)
	}
	got = env.h.handleRemoveAdmin(ctx, adminRequest(adminUser, "123"))
	if !strings.Contains(got, "not a custom admin") {
		t.Errorf("second remove reply = %q", got)
	}
}

func TestCooldownOverrideLifecycle(t *testing.T) {
	env := newHandlerEnv(t, testConfig())
	withChatAdmin(env)
	ctx := context.Background()

	if got := env.h.handleSetCooldown(ctx, adminRequest(adminUser, "1")); got != messages.MsgUsageSetCooldown {
		t.Errorf("missing hours reply = %q, want usage", got)
	}
	if got := env.h.handleSetCooldown(ctx, adminRequest(adminUser, "1", "abc")); got != messages.MsgUsageSetCooldown {
		t.Errorf("bad hours reply = %q, want usage", got)
	}
	if got := env.h.handleSetCooldown(ctx, adminRequest(adminUser, "1", "-5")); got != messages.MsgUsageNegativeHours {
		t.Errorf("negative hours reply = %q", got)
	}

	got := env.h.handleSetCooldown(ctx, adminRequest(adminUser, "1", "6"))
	if !strings.Contains(got, "6 hours") {
		t.Errorf("set reply = %q", got)
	}

	got = env.h.handleSetCooldown(ctx, adminRequest(adminUser, "2", "0"))
	if !strings.Contains(got, "without limit") {
		t.Errorf("unlimited reply = %q", got)
	}

	got = env.h.handleListCooldowns(ctx, adminRequest(adminUser))
	if !strings.Contains(got, "User `1`: 6 hours") || !strings.Contains(got, "User `2`: 0 hours") {
		t.Errorf("list reply %q misses overrides", got)
	}

	got = env.h.handleResetCooldown(ctx, adminRequest(adminUser, "1"))
	if !strings.Contains(got, "override removed") {
		t.Errorf("remove reply = %q", got)
	}
	got = env.h.handleResetCooldown(ctx, adminRequest(adminUser, "1"))
	if !strings.Contains(got, "No cooldown override") {
		t.Errorf("second remove reply = %q", got)
	}

	if got := env.h.handleListCooldowns(ctx, adminRequest(adminUser)); !strings.Contains(got, "User `2`") {
		t.Errorf("list reply %q should keep the remaining override", got)
	}
}

func backdateRecord(t *testing.T, records repository.RecordRepository, chatID, userID int64, ago time.Duration) {
	t.Helper()

	err := records.Update(func(m repository.RecordMap) repository.RecordMap {
		chatKey := repository.Key(chatID)
		if m[chatKey] == nil {
			m[chatKey] = map[string]time.Time{}
		}
		m[chatKey][repository.Key(userID)] = time.Now().Add(-ago)
		return m
	})
	if err != nil {
		t.Fatalf("backdate record: %v", err)
	}
}
