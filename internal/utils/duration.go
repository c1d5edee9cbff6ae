package utils

import (
	"fmt"
	"time"
)

// FormatHoursMinutes renders a duration as "2h 30m", rounding the
// minute component up so a wait never reads as shorter than it is.
func FormatHoursMinutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	minutes := int64((d + time.Minute - 1) / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
