package repository

import (
	"log/slog"
)

const cooldownsFile = "cooldowns.json"

// CooldownRepository stores per-user cooldown overrides in whole
// hours. Zero hours marks a user who may post without limit; an
// absent entry means the configured default applies.
type CooldownRepository interface {
	All() (OverrideMap, error)
	Hours(chatID, userID int64) (int, bool, error)
	Set(chatID, userID int64, hours int) error
	Remove(chatID, userID int64) (bool, error)
	List(chatID int64) (map[int64]int, error)
}

type JSONCooldownRepository struct {
	doc *document[OverrideMap]
}

func NewCooldownRepository(dir string, logger *slog.Logger) CooldownRepository {
	return &JSONCooldownRepository{
		doc: newDocument(dir, cooldownsFile, logger, func() OverrideMap { return OverrideMap{} }),
	}
}

func (r *JSONCooldownRepository) All() (OverrideMap, error) {
	return r.doc.Get()
}

// Hours returns the override for the user. A negative value on disk
// can only come from hand editing and counts as no override.
func (r *JSONCooldownRepository) Hours(chatID, userID int64) (int, bool, error) {
	overrides, err := r.doc.Get()
	hours, ok := overrides[Key(chatID)][Key(userID)]
	if ok && hours < 0 {
		return 0, false, err
	}
	return hours, ok, err
}

func (r *JSONCooldownRepository) Set(chatID, userID int64, hours int) error {
	return r.doc.Update(func(overrides OverrideMap) OverrideMap {
		key := Key(chatID)
		if overrides[key] == nil {
			overrides[key] = map[string]int{}
		}
		overrides[key][Key(userID)] = hours
		return overrides
	})
}

// Remove reports whether an override was present.
func (r *JSONCooldownRepository) Remove(chatID, userID int64) (bool, error) {
	removed := false
	err := r.doc.Update(func(overrides OverrideMap) OverrideMap {
		key := Key(chatID)
		if _, ok := overrides[key][Key(userID)]; !ok {
			return overrides
		}
		delete(overrides[key], Key(userID))
		if len(overrides[key]) == 0 {
			delete(overrides, key)
		}
		removed = true
		return overrides
	})
	return removed, err
}

func (r *JSONCooldownRepository) List(chatID int64) (map[int64]int, error) {
	overrides, err := r.doc.Get()
	out := make(map[int64]int, len(overrides[Key(chatID)]))
	for key, hours := range overrides[Key(chatID)] {
		id, ok := ParseKey(key)
		if !ok || hours < 0 {
			continue
		}
		out[id] = hours
	}
	return out, err
}
