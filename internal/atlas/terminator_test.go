package atlas

import (
	"math"
	"testing"
	"time"
)

func TestBuildTerminatorState(t *testing.T) {
	bands := testBands()
	// Near the March equinox at 12:00 UTC
	now := time.Date(2025, 3, 22, 12, 0, 0, 0, time.UTC)

	state := buildTerminatorState(bands, now)

	if state.Feature.Type != "Feature" {
		t.Errorf("feature type = %q", state.Feature.Type)
	}
	if state.Feature.Geometry.Type != "LineString" {
		t.Errorf("geometry type = %q", state.Feature.Geometry.Type)
	}
	if len(state.Feature.Geometry.Coordinates) == 0 {
		t.Fatal("terminator polyline is empty")
	}
	for _, coord := range state.Feature.Geometry.Coordinates {
		if len(coord) != 2 {
			t.Fatalf("coordinate pair has %d elements", len(coord))
		}
		lon, lat := coord[0], coord[1]
		if lon < -180 || lon > 180 {
			t.Errorf("longitude %v out of range", lon)
		}
		if lat < -90 || lat > 90 {
			t.Errorf("latitude %v out of range", lat)
		}
	}

	if math.Abs(state.Declination) > 0.5 {
		t.Errorf("equinox declination = %v, want near 0", state.Declination)
	}
	if math.Abs(state.SubsolarLon) > 0.001 {
		t.Errorf("12:00 UTC subsolar longitude = %v, want 0", state.SubsolarLon)
	}

	if len(state.Daylight) != len(bands) {
		t.Fatalf("daylight entries = %d, want %d", len(state.Daylight), len(bands))
	}
	for _, band := range bands {
		if _, ok := state.Daylight[band.Label]; !ok {
			t.Errorf("missing daylight entry for %s", band.Label)
		}
	}

	if state.Computed != now.Format(time.RFC3339) {
		t.Errorf("computed = %q", state.Computed)
	}
}

func TestBuildTerminatorStateNormalizesToUTC(t *testing.T) {
	bands := testBands()
	loc := time.FixedZone("UTC+09:00", 9*3600)
	local := time.Date(2025, 3, 22, 21, 0, 0, 0, loc)
	utc := local.UTC()

	fromLocal := buildTerminatorState(bands, local)
	fromUTC := buildTerminatorState(bands, utc)

	if fromLocal.SubsolarLon != fromUTC.SubsolarLon {
		t.Error("subsolar longitude must not depend on input zone")
	}
	if fromLocal.Computed != fromUTC.Computed {
		t.Error("computed timestamp must be UTC")
	}
}
