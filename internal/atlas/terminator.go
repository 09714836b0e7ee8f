package atlas

import (
	"time"

	"github.com/sundialhq/sundial-platform/internal/solar"
	"github.com/sundialhq/sundial-platform/internal/tzdata"
)

// LineGeometry is a GeoJSON LineString geometry
type LineGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// LineFeature is a GeoJSON Feature wrapping a LineString
type LineFeature struct {
	Type       string            `json:"type"`
	Geometry   LineGeometry      `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// TerminatorState is the published day/night layer: the boundary polyline
// plus the daylight context at each band's reference point
type TerminatorState struct {
	Feature     LineFeature               `json:"feature"`
	Declination float64                   `json:"declination"`
	SubsolarLon float64                   `json:"subsolar_lon"`
	Daylight    map[string]solar.Daylight `json:"daylight"`
	Computed    string                    `json:"computed"`
}

// buildTerminatorState computes the terminator polyline and per-band
// daylight for time t
func buildTerminatorState(bands []tzdata.Band, t time.Time) TerminatorState {
	utc := t.UTC()
	points := solar.Terminator(utc)

	daylight := make(map[string]solar.Daylight, len(bands))
	for _, band := range bands {
		daylight[band.Label] = solar.DaylightAt(utc, band.RefLat, band.RefLon)
	}

	return TerminatorState{
		Feature: LineFeature{
			Type: "Feature",
			Geometry: LineGeometry{
				Type:        "LineString",
				Coordinates: solar.LineCoordinates(points),
			},
			Properties: map[string]string{"layer": "terminator"},
		},
		Declination: solar.Declination(utc.YearDay()),
		SubsolarLon: solar.SubsolarLongitude(utc),
		Daylight:    daylight,
		Computed:    utc.Format(time.RFC3339),
	}
}
