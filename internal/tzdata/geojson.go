package tzdata

import (
	"encoding/json"
	"fmt"
)

// FeatureCollection is an RFC 7946 GeoJSON feature collection
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single timezone boundary feature
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry holds the geometry type and its raw coordinate array. The
// coordinate nesting depth depends on the type, so decoding is deferred
// until the shape is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Bounds is a lon/lat bounding box
type Bounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Center returns the midpoint of the box
func (b Bounds) Center() (lon, lat float64) {
	return (b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2
}

// BoundingBox computes the bounding box of a Polygon or MultiPolygon
// geometry
func (g Geometry) BoundingBox() (Bounds, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return Bounds{}, fmt.Errorf("failed to decode polygon coordinates: %w", err)
		}
		return boundsOfRings(rings)
	case "MultiPolygon":
		var polygons [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polygons); err != nil {
			return Bounds{}, fmt.Errorf("failed to decode multipolygon coordinates: %w", err)
		}
		bounds := emptyBounds()
		found := false
		for _, rings := range polygons {
			b, err := boundsOfRings(rings)
			if err != nil {
				return Bounds{}, err
			}
			bounds = mergeBounds(bounds, b)
			found = true
		}
		if !found {
			return Bounds{}, fmt.Errorf("multipolygon has no polygons")
		}
		return bounds, nil
	default:
		return Bounds{}, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func boundsOfRings(rings [][][]float64) (Bounds, error) {
	bounds := emptyBounds()
	found := false
	for _, ring := range rings {
		for _, position := range ring {
			if len(position) < 2 {
				return Bounds{}, fmt.Errorf("position has %d coordinates (expected at least 2)", len(position))
			}
			lon, lat := position[0], position[1]
			if lon < bounds.MinLon {
				bounds.MinLon = lon
			}
			if lon > bounds.MaxLon {
				bounds.MaxLon = lon
			}
			if lat < bounds.MinLat {
				bounds.MinLat = lat
			}
			if lat > bounds.MaxLat {
				bounds.MaxLat = lat
			}
			found = true
		}
	}
	if !found {
		return Bounds{}, fmt.Errorf("geometry has no positions")
	}
	return bounds, nil
}

func emptyBounds() Bounds {
	return Bounds{MinLon: 180, MinLat: 90, MaxLon: -180, MaxLat: -90}
}

func mergeBounds(a, b Bounds) Bounds {
	if b.MinLon < a.MinLon {
		a.MinLon = b.MinLon
	}
	if b.MinLat < a.MinLat {
		a.MinLat = b.MinLat
	}
	if b.MaxLon > a.MaxLon {
		a.MaxLon = b.MaxLon
	}
	if b.MaxLat > a.MaxLat {
		a.MaxLat = b.MaxLat
	}
	return a
}
