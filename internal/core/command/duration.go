package command

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// InvalidDuration is returned by ParseDuration when the text cannot be parsed.
const InvalidDuration int64 = -1

const minuteMs int64 = 60000

var (
	minutesPattern  = regexp.MustCompile(`^\d+$`)
	durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?`)
)

// ParseDuration converts "90", "1h", "20m" or "1h20m" into milliseconds.
// A bare number counts minutes.
func ParseDuration(input string) int64 {
	if minutesPattern.MatchString(input) {
		minutes, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return InvalidDuration
		}
		return scale(0, minutes)
	}

	match := durationPattern.FindStringSubmatch(strings.ToLower(input))
	if match == nil || match[0] == "" {
		return InvalidDuration
	}

	hours, ok := component(match[1])
	if !ok {
		return InvalidDuration
	}
	minutes, ok := component(match[2])
	if !ok {
		return InvalidDuration
	}
	return scale(hours, minutes)
}

func component(digits string) (int64, bool) {
	if digits == "" {
		return 0, true
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// scale returns the total in milliseconds, or InvalidDuration on overflow.
func scale(hours, minutes int64) int64 {
	const hourMs = 60 * minuteMs
	if hours > math.MaxInt64/hourMs || minutes > math.MaxInt64/minuteMs {
		return InvalidDuration
	}
	hoursMs := hours * hourMs
	minutesMs := minutes * minuteMs
	if hoursMs > math.MaxInt64-minutesMs {
		return InvalidDuration
	}
	return hoursMs + minutesMs
}
