package progress

import "fmt"

// FormatDuration renders minutes the way the stats views show time invested:
// "1 minute", "45 minutes", "2h 5m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
