package admin

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/PouyaEvan/topic-limiter/internal/platform"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
)

// AnonymousAdminID is the service account Telegram substitutes as the
// sender when a group admin posts anonymously (GroupAnonymousBot).
const AnonymousAdminID int64 = 1087968824

// Resolver decides whether a sender is exempt from moderation. Rules
// run in priority order and the first decisive one wins: posted as
// the chat itself, the anonymous admin account, custom admin, then
// the chat's admin list (cached, refetched after the TTL).
type Resolver struct {
	logger  *slog.Logger
	gateway platform.Gateway
	admins  repository.CustomAdminRepository
	cache   *otter.Cache[int64, []int64]
}

func NewResolver(logger *slog.Logger, gateway platform.Gateway, admins repository.CustomAdminRepository, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		logger:  logger,
		gateway: gateway,
		admins:  admins,
		cache: otter.Must(&otter.Options[int64, []int64]{
			ExpiryCalculator: otter.ExpiryWriting[int64, []int64](cacheTTL),
		}),
	}
}

// IsExempt fails closed: a transport error counts as not exempt.
func (r *Resolver) IsExempt(ctx context.Context, chatID, userID, senderChatID int64) bool {
	if senderChatID == chatID {
		return true
	}
	if userID == AnonymousAdminID {
		return true
	}

	custom, err := r.admins.IsCustomAdmin(chatID, userID)
	if err != nil {
		r.logger.Warn("Custom admin lookup degraded", "chat_id", chatID, "user_id", userID, "error", err)
	}
	if custom {
		return true
	}

	ids, err := r.adminIDs(ctx, chatID)
	if err != nil {
		r.logger.Warn("Failed to fetch chat admins, treating user as non-exempt",
			"chat_id", chatID, "user_id", userID, "error", err)
		return false
	}
	return slices.Contains(ids, userID)
}

// IsRealAdminOrOwner asks the platform for the member's current role,
// bypassing both the custom admin set and the cache.
func (r *Resolver) IsRealAdminOrOwner(ctx context.Context, chatID, userID int64) (bool, error) {
	role, err := r.gateway.MemberRole(ctx, chatID, userID)
	if err != nil {
		return false, err
	}
	return role == platform.RoleAdministrator || role == platform.RoleCreator, nil
}

func (r *Resolver) adminIDs(ctx context.Context, chatID int64) ([]int64, error) {
	if ids, ok := r.cache.GetIfPresent(chatID); ok {
		return ids, nil
	}
	ids, err := r.gateway.ChatAdministrators(ctx, chatID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(chatID, ids)
	return ids, nil
}
