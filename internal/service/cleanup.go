package service

import (
	"context"
	"time"

	"github.com/PouyaEvan/topic-limiter/internal/metrics"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
)

// StartCleanupTask periodically drops expired records from the
// message table and refreshes the active records gauge. Runs one
// pass immediately, then on every tick until ctx is cancelled.
func (s *ModerationService) StartCleanupTask(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	cleanup := func() {
		var active int
		err := s.records.Update(func(records repository.RecordMap) repository.RecordMap {
			records = s.eval.PruneExpired(records)
			active = 0
			for _, users := range records {
				active += len(users)
			}
			return records
		})
		if err != nil {
			s.logger.Error("Failed to prune expired records", "error", err)
			return
		}
		metrics.SetActiveRecords(float64(active))
		s.logger.Debug("Pruned expired records", "active", active)
	}

	go func() {
		defer ticker.Stop()

		cleanup()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()
}

// ScheduleDeletion removes a message after the delay. The timer is
// detached from the update that armed it; failure is logged at debug
// since the target may already be gone.
func (s *ModerationService) ScheduleDeletion(_ context.Context, chatID int64, messageID int, after time.Duration) {
	time.AfterFunc(after, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.gateway.DeleteMessage(ctx, chatID, messageID); err != nil {
			s.logger.Debug("Scheduled deletion failed",
				"chat_id", chatID, "message_id", messageID, "error", err)
			return
		}
		metrics.IncDeletedMessages("warning_expired")
	})
}
