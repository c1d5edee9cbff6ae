package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/PouyaEvan/topic-limiter/internal/admin"
	"github.com/PouyaEvan/topic-limiter/internal/cooldown"
	"github.com/PouyaEvan/topic-limiter/internal/pipeline"
	"github.com/PouyaEvan/topic-limiter/internal/pipeline/filters"
	"github.com/PouyaEvan/topic-limiter/internal/platform"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
	"github.com/PouyaEvan/topic-limiter/internal/throttle"
)

type Service interface {
	ModerateMessage(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error)
	RecordMessage(ctx context.Context, chatID, userID int64, at time.Time) error
	ShouldWarn(chatID, userID int64) bool
	MarkWarned(chatID, userID int64)
	ScheduleDeletion(ctx context.Context, chatID int64, messageID int, after time.Duration)
	ActiveRecords(ctx context.Context, chatID int64) (map[int64]time.Time, error)
	DuplicateSendersToday(ctx context.Context) (map[int64][]int64, error)
	ResetUser(ctx context.Context, chatID, userID int64) (bool, error)
	AddCustomAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	RemoveCustomAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	ListCustomAdmins(ctx context.Context, chatID int64) ([]int64, error)
	SetCooldown(ctx context.Context, chatID, userID int64, hours int) error
	RemoveCooldown(ctx context.Context, chatID, userID int64) (bool, error)
	ListCooldowns(ctx context.Context, chatID int64) (map[int64]int, error)
	EffectiveWindow(ctx context.Context, chatID, userID int64) time.Duration
	IsExempt(ctx context.Context, chatID, userID, senderChatID int64) bool
	IsRealAdminOrOwner(ctx context.Context, chatID, userID int64) (bool, error)
	StartCleanupTask(ctx context.Context, interval time.Duration)
}

type ModerationService struct {
	logger    *slog.Logger
	records   repository.RecordRepository
	admins    repository.CustomAdminRepository
	cooldowns repository.CooldownRepository
	resolver  *admin.Resolver
	eval      *cooldown.Evaluator
	throttle  *throttle.Throttle
	gateway   platform.Gateway
	pipeline  *pipeline.Manager
	tracer    trace.Tracer
}

func NewModerationService(
	logger *slog.Logger,
	records repository.RecordRepository,
	admins repository.CustomAdminRepository,
	cooldowns repository.CooldownRepository,
	resolver *admin.Resolver,
	eval *cooldown.Evaluator,
	thr *throttle.Throttle,
	gateway platform.Gateway,
) Service {

	exemptFilter := filters.NewExemptFilter(resolver)
	cooldownFilter := filters.NewCooldownFilter(records, eval)

	pm := pipeline.NewManager(exemptFilter, cooldownFilter)

	return &ModerationService{
		logger:    logger,
		records:   records,
		admins:    admins,
		cooldowns: cooldowns,
		resolver:  resolver,
		eval:      eval,
		throttle:  thr,
		gateway:   gateway,
		pipeline:  pm,
		tracer:    otel.Tracer("service"),
	}
}

func (s *ModerationService) ModerateMessage(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	ctx, span := s.tracer.Start(ctx, "ModerateMessage")
	defer span.End()

	s.logger.Debug("Moderating message", "chat_id", payload.ChatID, "user_id", payload.UserID)
	return s.pipeline.Process(ctx, payload)
}

// RecordMessage prunes expired records and stores the accepted
// message time in one read-modify-write cycle.
func (s *ModerationService) RecordMessage(ctx context.Context, chatID, userID int64, at time.Time) error {
	_, span := s.tracer.Start(ctx, "RecordMessage")
	defer span.End()

	return s.records.Update(func(records repository.RecordMap) repository.RecordMap {
		records = s.eval.PruneExpired(records)
		chatKey := repository.Key(chatID)
		if records[chatKey] == nil {
			records[chatKey] = map[string]time.Time{}
		}
		records[chatKey][repository.Key(userID)] = at
		return records
	})
}

func (s *ModerationService) ShouldWarn(chatID, userID int64) bool {
	return s.throttle.ShouldWarn(chatID, userID)
}

func (s *ModerationService) MarkWarned(chatID, userID int64) {
	s.throttle.MarkWarned(chatID, userID)
}

// ActiveRecords returns the chat's unexpired records without
// persisting the pruned view; the cleanup task does that on its own
// schedule.
func (s *ModerationService) ActiveRecords(ctx context.Context, chatID int64) (map[int64]time.Time, error) {
	_, span := s.tracer.Start(ctx, "ActiveRecords")
	defer span.End()

	records, _ := s.records.All()
	records = s.eval.PruneExpired(records)

	out := make(map[int64]time.Time, len(records[repository.Key(chatID)]))
	for key, at := range records[repository.Key(chatID)] {
		if id, ok := repository.ParseKey(key); ok {
			out[id] = at
		}
	}
	return out, nil
}

func (s *ModerationService) DuplicateSendersToday(ctx context.Context) (map[int64][]int64, error) {
	_, span := s.tracer.Start(ctx, "DuplicateSendersToday")
	defer span.End()

	records, _ := s.records.All()
	return s.eval.DuplicateSendersToday(records), nil
}

// ResetUser reports whether a record existed for the user.
func (s *ModerationService) ResetUser(ctx context.Context, chatID, userID int64) (bool, error) {
	_, span := s.tracer.Start(ctx, "ResetUser")
	defer span.End()

	removed := false
	err := s.records.Update(func(records repository.RecordMap) repository.RecordMap {
		chatKey := repository.Key(chatID)
		userKey := repository.Key(userID)
		if _, ok := records[chatKey][userKey]; !ok {
			return records
		}
		delete(records[chatKey], userKey)
		if len(records[chatKey]) == 0 {
			delete(records, chatKey)
		}
		removed = true
		return records
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *ModerationService) AddCustomAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	_, span := s.tracer.Start(ctx, "AddCustomAdmin")
	defer span.End()
	return s.admins.Add(chatID, userID)
}

func (s *ModerationService) RemoveCustomAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	_, span := s.tracer.Start(ctx, "RemoveCustomAdmin")
	defer span.End()
	return s.admins.Remove(chatID, userID)
}

func (s *ModerationService) ListCustomAdmins(ctx context.Context, chatID int64) ([]int64, error) {
	_, span := s.tracer.Start(ctx, "ListCustomAdmins")
	defer span.End()
	return s.admins.List(chatID)
}

func (s *ModerationService) SetCooldown(ctx context.Context, chatID, userID int64, hours int) error {
	_, span := s.tracer.Start(ctx, "SetCooldown")
	defer span.End()
	return s.cooldowns.Set(chatID, userID, hours)
}

func (s *ModerationService) RemoveCooldown(ctx context.Context, chatID, userID int64) (bool, error) {
	_, span := s.tracer.Start(ctx, "RemoveCooldown")
	defer span.End()
	return s.cooldowns.Remove(chatID, userID)
}

func (s *ModerationService) ListCooldowns(ctx context.Context, chatID int64) (map[int64]int, error) {
	_, span := s.tracer.Start(ctx, "ListCooldowns")
	defer span.End()
	return s.cooldowns.List(chatID)
}

func (s *ModerationService) EffectiveWindow(ctx context.Context, chatID, userID int64) time.Duration {
	_, span := s.tracer.Start(ctx, "EffectiveWindow")
	defer span.End()
	return s.eval.EffectiveWindow(chatID, userID)
}

func (s *ModerationService) IsExempt(ctx context.Context, chatID, userID, senderChatID int64) bool {
	ctx, span := s.tracer.Start(ctx, "IsExempt")
	defer span.End()
	return s.resolver.IsExempt(ctx, chatID, userID, senderChatID)
}

func (s *ModerationService) IsRealAdminOrOwner(ctx context.Context, chatID, userID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "IsRealAdminOrOwner")
	defer span.End()
	return s.resolver.IsRealAdminOrOwner(ctx, chatID, userID)
}
