package timecode

import (
	"fmt"
	"strconv"
	"strings"

	"framescan/internal/services"
)

// Clock is a wall-clock offset into a video parsed from HH:MM:SS.
type Clock struct {
	Hours   int
	Minutes int
	Seconds int
}

// ParseClock parses an HH:MM:SS string. Components must be non-negative
// integers forming a valid time of day; anything else is a ConfigError.
func ParseClock(value string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return Clock{}, services.NewConfigError(services.ReasonMalformedTime, "", value,
			fmt.Errorf("expected HH:MM:SS, got %d components", len(parts)))
	}
	var fields [3]int
	for i, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || strings.HasPrefix(part, "+") {
			return Clock{}, services.NewConfigError(services.ReasonMalformedTime, "", value,
				fmt.Errorf("component %q is not a non-negative integer", part))
		}
		fields[i] = n
	}
	c := Clock{Hours: fields[0], Minutes: fields[1], Seconds: fields[2]}
	if c.Hours > 23 || c.Minutes > 59 || c.Seconds > 59 {
		return Clock{}, services.NewConfigError(services.ReasonMalformedTime, "", value,
			fmt.Errorf("out of range"))
	}
	return c, nil
}

// TotalSeconds returns the clock offset in whole seconds.
func (c Clock) TotalSeconds() int64 {
	return int64(c.Hours)*3600 + int64(c.Minutes)*60 + int64(c.Seconds)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}
