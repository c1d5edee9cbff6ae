package cooldown

import (
	"slices"
	"time"

	"github.com/PouyaEvan/topic-limiter/internal/repository"
)

// Evaluator applies per-user cooldown windows over the message
// records. A window of zero means the user is never rate limited.
type Evaluator struct {
	overrides repository.CooldownRepository
	fallback  time.Duration
	now       func() time.Time
}

func NewEvaluator(overrides repository.CooldownRepository, defaultWindow time.Duration) *Evaluator {
	return &Evaluator{
		overrides: overrides,
		fallback:  defaultWindow,
		now:       time.Now,
	}
}

// EffectiveWindow is the override when present, the default otherwise.
func (e *Evaluator) EffectiveWindow(chatID, userID int64) time.Duration {
	hours, ok, _ := e.overrides.Hours(chatID, userID)
	if !ok {
		return e.fallback
	}
	return time.Duration(hours) * time.Hour
}

// CanSend reports whether the user is outside their window, and if
// not, how long until it elapses.
func (e *Evaluator) CanSend(chatID, userID int64, records repository.RecordMap) (bool, time.Duration) {
	window := e.EffectiveWindow(chatID, userID)
	if window == 0 {
		return true, 0
	}
	last, ok := records[repository.Key(chatID)][repository.Key(userID)]
	if !ok {
		return true, 0
	}
	elapsed := e.now().Sub(last)
	if elapsed >= window {
		return true, 0
	}
	return false, window - elapsed
}

// PruneExpired drops every record older than its own user's effective
// window and returns the mapping with empty chats removed.
func (e *Evaluator) PruneExpired(records repository.RecordMap) repository.RecordMap {
	overrides, _ := e.overrides.All()
	now := e.now()
	for chatKey, users := range records {
		for userKey, last := range users {
			window := windowFrom(overrides, chatKey, userKey, e.fallback)
			if window == 0 || now.Sub(last) >= window {
				delete(users, userKey)
			}
		}
		if len(users) == 0 {
			delete(records, chatKey)
		}
	}
	return records
}

// DuplicateSendersToday returns users holding records in more than one
// chat on the current calendar day, with the chats they posted in.
func (e *Evaluator) DuplicateSendersToday(records repository.RecordMap) map[int64][]int64 {
	now := e.now()
	byUser := make(map[int64][]int64)
	for chatKey, users := range records {
		chatID, ok := repository.ParseKey(chatKey)
		if !ok {
			continue
		}
		for userKey, last := range users {
			userID, ok := repository.ParseKey(userKey)
			if !ok {
				continue
			}
			if sameDay(last, now) {
				byUser[userID] = append(byUser[userID], chatID)
			}
		}
	}
	for userID, chats := range byUser {
		if len(chats) < 2 {
			delete(byUser, userID)
			continue
		}
		slices.Sort(chats)
	}
	return byUser
}

func windowFrom(overrides repository.OverrideMap, chatKey, userKey string, fallback time.Duration) time.Duration {
	hours, ok := overrides[chatKey][userKey]
	if !ok || hours < 0 {
		return fallback
	}
	return time.Duration(hours) * time.Hour
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
