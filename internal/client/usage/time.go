package usage

import (
	"fmt"
	"time"
)

// FormatRelativeTime renders a dashboard-friendly age for t. The zero
// time means "never recorded". Divisions floor; there is no upper
// bound on the days bucket.
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	secs := int(time.Since(t).Seconds())
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%d minutes ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	default:
		return fmt.Sprintf("%d days ago", secs/86400)
	}
}
