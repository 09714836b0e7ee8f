package redis

import "fmt"

// Key construction helpers for the atlas state cache

// ClockKey returns the key for a band's latest clock snapshot (hash field per band)
// Pattern: atlas:clock:{band_segment}
func ClockKey(bandSegment string) string {
	return fmt.Sprintf("atlas:clock:%s", bandSegment)
}

// TerminatorKey returns the key for the cached terminator GeoJSON (string)
func TerminatorKey() string {
	return "atlas:terminator"
}

// ZonesKey returns the key for the cached zone band state (string)
func ZonesKey() string {
	return "atlas:zones"
}

// PinsKey returns the key for the pinned band set
func PinsKey() string {
	return "atlas:pins"
}

// HighlightKey returns the key for the currently highlighted band (string)
func HighlightKey() string {
	return "atlas:highlight"
}

// SchemeKey returns the key for the active color scheme name (string)
func SchemeKey() string {
	return "atlas:scheme"
}
