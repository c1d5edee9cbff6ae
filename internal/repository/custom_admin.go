package repository

import (
	"log/slog"
	"slices"
)

const adminsFile = "custom_admins.json"

// CustomAdminRepository stores per chat the users granted moderation
// exemption by command, independent of their real chat role.
type CustomAdminRepository interface {
	IsCustomAdmin(chatID, userID int64) (bool, error)
	Add(chatID, userID int64) (bool, error)
	Remove(chatID, userID int64) (bool, error)
	List(chatID int64) ([]int64, error)
}

type JSONCustomAdminRepository struct {
	doc *document[AdminMap]
}

func NewCustomAdminRepository(dir string, logger *slog.Logger) CustomAdminRepository {
	return &JSONCustomAdminRepository{
		doc: newDocument(dir, adminsFile, logger, func() AdminMap { return AdminMap{} }),
	}
}

func (r *JSONCustomAdminRepository) IsCustomAdmin(chatID, userID int64) (bool, error) {
	admins, err := r.doc.Get()
	return slices.Contains(admins[Key(chatID)], userID), err
}

// Add reports whether the user was newly added.
func (r *JSONCustomAdminRepository) Add(chatID, userID int64) (bool, error) {
	added := false
	err := r.doc.Update(func(admins AdminMap) AdminMap {
		key := Key(chatID)
		ids := admins[key]
		if slices.Contains(ids, userID) {
			return admins
		}
		ids = append(ids, userID)
		slices.Sort(ids)
		admins[key] = ids
		added = true
		return admins
	})
	return added, err
}

// Remove reports whether the user was present.
func (r *JSONCustomAdminRepository) Remove(chatID, userID int64) (bool, error) {
	removed := false
	err := r.doc.Update(func(admins AdminMap) AdminMap {
		key := Key(chatID)
		idx := slices.Index(admins[key], userID)
		if idx < 0 {
			return admins
		}
		ids := slices.Delete(admins[key], idx, idx+1)
		if len(ids) == 0 {
			delete(admins, key)
		} else {
			admins[key] = ids
		}
		removed = true
		return admins
	})
	return removed, err
}

func (r *JSONCustomAdminRepository) List(chatID int64) ([]int64, error) {
	admins, err := r.doc.Get()
	return slices.Clone(admins[Key(chatID)]), err
}
