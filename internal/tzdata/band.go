package tzdata

import (
	"log/slog"
	"sort"
)

// Band is a group of timezone boundary features sharing a UTC offset
type Band struct {
	// Label is the canonical "UTC±HH:MM" band key
	Label string `json:"label"`
	// OffsetMinutes is the offset in minutes east of UTC
	OffsetMinutes int `json:"offset_minutes"`
	// RefLon/RefLat is a representative surface point for the band, the
	// mean of its features' bounding-box centers. Used for daylight
	// context, not for rendering.
	RefLon float64 `json:"ref_lon"`
	RefLat float64 `json:"ref_lat"`

	Features []Feature `json:"-"`
}

// offsetProperties lists the property names probed for a UTC offset, in
// order of preference. Different boundary datasets name the field
// differently.
var offsetProperties = []string{"offset", "utc_offset", "zone", "utc"}

// GroupByOffset groups the collection's features into offset bands sorted
// west to east. Features without a recognizable offset property are
// skipped with a warning.
func GroupByOffset(fc *FeatureCollection, logger *slog.Logger) []Band {
	byOffset := make(map[int][]Feature)

	for i, feature := range fc.Features {
		minutes, ok := featureOffset(feature)
		if !ok {
			logger.Warn("Skipping feature without recognizable UTC offset",
				"feature_index", i,
				"properties", len(feature.Properties))
			continue
		}
		byOffset[minutes] = append(byOffset[minutes], feature)
	}

	bands := make([]Band, 0, len(byOffset))
	for minutes, features := range byOffset {
		band := Band{
			Label:         CanonicalLabel(minutes),
			OffsetMinutes: minutes,
			Features:      features,
		}
		band.RefLon, band.RefLat = referencePoint(features, logger)
		bands = append(bands, band)
	}

	sort.Slice(bands, func(i, j int) bool {
		return bands[i].OffsetMinutes < bands[j].OffsetMinutes
	})

	return bands
}

// featureOffset probes a feature's properties for a parseable UTC offset
func featureOffset(feature Feature) (int, bool) {
	for _, key := range offsetProperties {
		value, ok := feature.Properties[key]
		if !ok {
			continue
		}
		if minutes, err := ParseOffset(value); err == nil {
			return minutes, true
		}
	}
	return 0, false
}

// referencePoint averages the bounding-box centers of a band's features
func referencePoint(features []Feature, logger *slog.Logger) (lon, lat float64) {
	count := 0
	for _, feature := range features {
		bounds, err := feature.Geometry.BoundingBox()
		if err != nil {
			logger.Warn("Failed to compute feature bounds", "error", err)
			continue
		}
		cLon, cLat := bounds.Center()
		lon += cLon
		lat += cLat
		count++
	}
	if count > 0 {
		lon /= float64(count)
		lat /= float64(count)
	}
	return lon, lat
}
