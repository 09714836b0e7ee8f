package colorspace

import (
	"math"
	"sort"
	"time"
)

// BandInfo carries the facts a scheme needs to color one offset band
type BandInfo struct {
	// Index is the band's position in the west-to-east ordering
	Index int
	// Count is the total number of bands on the map
	Count int
	// OffsetMinutes is the band's UTC offset in minutes east
	OffsetMinutes int
}

// SchemeFunc is a pure function from a band and a timestamp to a fill color
type SchemeFunc func(band BandInfo, t time.Time) RGB

// DefaultScheme is used when an unknown scheme name is requested
const DefaultScheme = "rainbow"

var schemes = map[string]SchemeFunc{
	"rainbow":  rainbowScheme,
	"daynight": dayNightScheme,
	"meridian": meridianScheme,
}

// Scheme returns the registered scheme function for name, falling back to
// the default scheme when the name is unknown.
func Scheme(name string) SchemeFunc {
	if fn, ok := schemes[name]; ok {
		return fn
	}
	return schemes[DefaultScheme]
}

// Known reports whether a scheme name is registered
func Known(name string) bool {
	_, ok := schemes[name]
	return ok
}

// Names returns the registered scheme names, sorted
func Names() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rainbowScheme spreads hue across the full circle by band position
func rainbowScheme(band BandInfo, _ time.Time) RGB {
	count := band.Count
	if count < 1 {
		count = 1
	}
	hue := 360 * float64(band.Index) / float64(count)
	return OklchToSrgb(0.72, 0.12, hue)
}

// dayNightScheme keys lightness to the band's current local hour: dark at
// local midnight, lightest at local noon. Low chroma so the terminator line
// stays readable on top.
func dayNightScheme(band BandInfo, t time.Time) RGB {
	hour := localHour(band.OffsetMinutes, t)
	// Cosine ramp: 0.32 at midnight, 0.78 at noon
	lightness := 0.32 + 0.46*(0.5-0.5*math.Cos(2*math.Pi*hour/24))
	return OklchToSrgb(lightness, 0.04, 250)
}

// meridianScheme alternates chroma by even/odd offset hour so adjacent
// whole-hour bands stay distinguishable
func meridianScheme(band BandInfo, _ time.Time) RGB {
	count := band.Count
	if count < 1 {
		count = 1
	}
	hue := 360 * float64(band.Index) / float64(count)
	chroma := 0.06
	if offsetHour := band.OffsetMinutes / 60; offsetHour%2 != 0 {
		chroma = 0.14
	}
	return OklchToSrgb(0.68, chroma, hue)
}

// localHour returns the fractional local hour in [0,24) for an offset band
func localHour(offsetMinutes int, t time.Time) float64 {
	utc := t.UTC()
	minutes := float64(utc.Hour()*60+utc.Minute()) + float64(offsetMinutes)
	hour := math.Mod(minutes/60, 24)
	if hour < 0 {
		hour += 24
	}
	return hour
}
