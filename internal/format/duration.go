// Package format renders durations for display.
package format

import "fmt"

// MinutesToDuration renders whole minutes as "MM:00".
func MinutesToDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:00", minutes)
}

// SecondsToDuration renders seconds as "MM:SS". Minutes are not wrapped into
// hours, so 3600 renders as "60:00".
func SecondsToDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
