package atlas

import (
	"time"

	"github.com/sundialhq/sundial-platform/internal/colorspace"
	"github.com/sundialhq/sundial-platform/internal/tzdata"
)

// Zone is the published render state for one offset band
type Zone struct {
	Band          string         `json:"band"`
	OffsetMinutes int            `json:"offset_minutes"`
	Color         colorspace.RGB `json:"color"`
	Hex           string         `json:"hex"`
	FeatureCount  int            `json:"feature_count"`
	Pinned        bool           `json:"pinned"`
	Highlighted   bool           `json:"highlighted"`
}

// ZoneState is the full zone layer published to renderers
type ZoneState struct {
	Scheme   string `json:"scheme"`
	Palette  string `json:"palette,omitempty"`
	Zones    []Zone `json:"zones"`
	Computed string `json:"computed"`
}

// buildZoneState evaluates the active scheme (or palette override) for every
// band at time t and merges in the pin/highlight state
func buildZoneState(bands []tzdata.Band, state *State, palette *colorspace.Palette, t time.Time) ZoneState {
	schemeName := state.Scheme()
	scheme := colorspace.Scheme(schemeName)
	highlight := state.Highlight()

	zones := make([]Zone, len(bands))
	for i, band := range bands {
		info := colorspace.BandInfo{
			Index:         i,
			Count:         len(bands),
			OffsetMinutes: band.OffsetMinutes,
		}

		color, overridden := colorspace.RGB{}, false
		if palette != nil {
			color, overridden = palette.Lookup(band.Label)
		}
		if !overridden {
			color = scheme(info, t)
		}

		zones[i] = Zone{
			Band:          band.Label,
			OffsetMinutes: band.OffsetMinutes,
			Color:         color,
			Hex:           color.Hex(),
			FeatureCount:  len(band.Features),
			Pinned:        state.IsPinned(band.Label),
			Highlighted:   band.Label == highlight,
		}
	}

	zoneState := ZoneState{
		Scheme:   schemeName,
		Zones:    zones,
		Computed: t.UTC().Format(time.RFC3339),
	}
	if palette != nil {
		zoneState.Palette = palette.Name
	}
	return zoneState
}
