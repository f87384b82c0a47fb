// Package raceclock handles the racing-specific clock convention used
// by UK and Irish racecard feeds: off-times are published as bare local
// clock strings where the hours 1 through 8 mean afternoon. "01:15" is
// 13:15, "08:40" is 20:40, while "11:30" is a genuine morning race.
package raceclock

import (
	"fmt"
	"strconv"
	"strings"
)

// afternoonCutoff is the highest hour treated as a PM time under the
// racecard convention. Racing rarely starts before 10:00 or after 21:00.
const afternoonCutoff = 8

// Normalize converts a raw off-time string into minutes since midnight,
// applying the afternoon convention. Accepts "HH:MM" and "HH:MM:SS".
func Normalize(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed off-time %q", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed off-time hour %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed off-time minute %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("off-time %q out of range", raw)
	}

	if hour >= 1 && hour <= afternoonCutoff {
		hour += 12
	}

	return hour*60 + minute, nil
}

// MustNormalize is Normalize for callers that already validated the
// input; malformed times sort first rather than panicking.
func MustNormalize(raw string) int {
	minutes, err := Normalize(raw)
	if err != nil {
		return 0
	}
	return minutes
}
