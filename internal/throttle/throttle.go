package throttle

import (
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"
)

// margin keeps the suppression window open slightly past the warning
// lifetime, so a burst of rejected messages cannot re-warn while the
// previous warning is still on screen.
const margin = 2 * time.Second

// Throttle remembers which users were warned recently. Entries expire
// on their own; marking a user again re-arms the window.
type Throttle struct {
	warned *otter.Cache[string, time.Time]
}

func New(warningTTL time.Duration) *Throttle {
	return newWithWindow(warningTTL + margin)
}

func newWithWindow(window time.Duration) *Throttle {
	return &Throttle{
		warned: otter.Must(&otter.Options[string, time.Time]{
			ExpiryCalculator: otter.ExpiryWriting[string, time.Time](window),
		}),
	}
}

func (t *Throttle) ShouldWarn(chatID, userID int64) bool {
	_, ok := t.warned.GetIfPresent(key(chatID, userID))
	return !ok
}

func (t *Throttle) MarkWarned(chatID, userID int64) {
	t.warned.Set(key(chatID, userID), time.Now())
}

func key(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}
