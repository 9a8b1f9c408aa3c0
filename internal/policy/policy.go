// Package policy holds the focus rules: which executables count as on-task
// and how often the foreground is sampled.
package policy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultIntervalSeconds is used whenever the interval input is not a positive integer.
const DefaultIntervalSeconds = 20

// DefaultIntervalText is DefaultIntervalSeconds as shown in the interval field.
const DefaultIntervalText = "20"

// DefaultInterval is DefaultIntervalSeconds as a duration.
const DefaultInterval = DefaultIntervalSeconds * time.Second

// maxIntervalSeconds keeps the duration inside int64 nanoseconds.
const maxIntervalSeconds = int64(1<<63-1) / int64(time.Second)

// ParseInterval turns user-entered interval text into a timer period.
// Anything that is not a positive whole number of seconds falls back to the default.
// The returned text is what the input field should show afterwards.
func ParseInterval(text string) (interval time.Duration, display string, fellBack bool) {
	secs, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || secs <= 0 || secs > maxIntervalSeconds {
		return DefaultInterval, DefaultIntervalText, true
	}
	return time.Duration(secs) * time.Second, strconv.FormatInt(secs, 10), false
}

// DistractionTitle is the notification title shown on every distraction.
const DistractionTitle = "Distracted again"

// DistractionMessage formats the notification body for the n-th distraction.
func DistractionMessage(n int) string {
	return fmt.Sprintf("That is distraction #%d. Back to work!", n)
}
