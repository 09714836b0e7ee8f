package tzdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Offsets outside the real-world UTC offset range are rejected
const (
	MinOffsetMinutes = -12 * 60
	MaxOffsetMinutes = 14 * 60
)

// ParseOffset normalizes a feature's UTC offset property to minutes east of
// UTC. Accepts numeric hours (5.5, -9) and string labels ("+05:30",
// "UTC-09", "UTC+05:45", "5.5").
func ParseOffset(v interface{}) (int, error) {
	switch value := v.(type) {
	case float64:
		return minutesFromHours(value)
	case int:
		return minutesFromHours(float64(value))
	case string:
		return parseOffsetLabel(value)
	default:
		return 0, fmt.Errorf("unsupported offset type %T", v)
	}
}

// CanonicalLabel formats an offset in minutes as "UTC±HH:MM"
func CanonicalLabel(offsetMinutes int) string {
	sign := "+"
	minutes := offsetMinutes
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}

func parseOffsetLabel(s string) (int, error) {
	label := strings.TrimSpace(s)
	label = strings.TrimPrefix(label, "UTC")
	label = strings.TrimPrefix(label, "GMT")
	if label == "" {
		// Plain "UTC" or "GMT"
		return 0, nil
	}

	sign := 1
	switch label[0] {
	case '+':
		label = label[1:]
	case '-':
		sign = -1
		label = label[1:]
	}
	if label == "" {
		return 0, fmt.Errorf("offset label %q has a sign but no value", s)
	}

	if strings.Contains(label, ":") {
		parts := strings.SplitN(label, ":", 2)
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid offset hours in %q: %w", s, err)
		}
		mins, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid offset minutes in %q: %w", s, err)
		}
		if mins < 0 || mins > 59 {
			return 0, fmt.Errorf("offset minutes out of range in %q", s)
		}
		return checkRange(sign * (hours*60 + mins))
	}

	hours, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return minutesFromHours(float64(sign) * hours)
}

func minutesFromHours(hours float64) (int, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("offset hours is not finite")
	}
	return checkRange(int(math.Round(hours * 60)))
}

func checkRange(minutes int) (int, error) {
	if minutes < MinOffsetMinutes || minutes > MaxOffsetMinutes {
		return 0, fmt.Errorf("offset %d minutes outside [UTC-12:00, UTC+14:00]", minutes)
	}
	return minutes, nil
}
