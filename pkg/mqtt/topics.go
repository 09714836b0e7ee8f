package mqtt

import (
	"fmt"
	"strings"
)

// Topic constants for the atlas topic tree
const (
	// Published state topics (output, retained)
	TopicZones      = "atlas/zones"
	TopicTerminator = "atlas/terminator"
	TopicClockBase  = "atlas/clock"

	// UI command topics (input)
	TopicPinCommands  = "atlas/ui/pin/+"
	TopicHighlight    = "atlas/ui/highlight"
	TopicSchemeSelect = "atlas/ui/scheme"
)

// ClockTopic constructs the clock topic for a specific offset band
// Pattern: atlas/clock/{band_segment}
func ClockTopic(bandLabel string) string {
	return fmt.Sprintf("atlas/clock/%s", BandSegment(bandLabel))
}

// PinTopic constructs the pin command topic for a specific offset band
// Pattern: atlas/ui/pin/{band_segment}
func PinTopic(bandLabel string) string {
	return fmt.Sprintf("atlas/ui/pin/%s", BandSegment(bandLabel))
}

// BandSegment converts a canonical band label into an MQTT-safe topic segment.
// "+" is a subscription wildcard, so "UTC+05:30" becomes "p0530" and
// "UTC-09:30" becomes "m0930".
func BandSegment(bandLabel string) string {
	s := strings.TrimPrefix(bandLabel, "UTC")
	s = strings.ReplaceAll(s, ":", "")
	switch {
	case strings.HasPrefix(s, "+"):
		return "p" + s[1:]
	case strings.HasPrefix(s, "-"):
		return "m" + s[1:]
	default:
		return s
	}
}

// SegmentFromTopic extracts the band segment from a pin command topic
// atlas/ui/pin/{band_segment} -> {band_segment}
func SegmentFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 {
		return "", fmt.Errorf("invalid pin topic format: %s (expected 4 parts)", topic)
	}
	return parts[3], nil
}
