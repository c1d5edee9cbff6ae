package repository

import (
	"strconv"
	"time"
)

// RecordMap holds the last accepted message time per chat and user.
// Keys are decimal string IDs so the JSON tables stay readable and
// hand-editable.
type RecordMap map[string]map[string]time.Time

// AdminMap holds per chat the user IDs granted exemption by command.
type AdminMap map[string][]int64

// OverrideMap holds per chat and user the cooldown override in whole
// hours. Zero hours means the user may post without limit.
type OverrideMap map[string]map[string]int

func Key(id int64) string {
	return strconv.FormatInt(id, 10)
}

func ParseKey(key string) (int64, bool) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
