package solar

import (
	"math"
	"sort"
	"time"
)

// Point is a position on the terminator polyline, in degrees.
// Longitude is normalized to [-180, 180].
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

const (
	axialTilt  = 23.44
	degPerHour = 15.0
)

// Declination returns the solar declination in degrees for a 1-based UTC
// day of year
func Declination(dayOfYear int) float64 {
	return -axialTilt * math.Cos(360.0/365.0*(float64(dayOfYear)+10)*math.Pi/180)
}

// SubsolarLongitude returns the longitude in degrees where the sun is
// directly overhead at time t
func SubsolarLongitude(t time.Time) float64 {
	utc := t.UTC()
	hours := float64(utc.Hour()) + float64(utc.Minute())/60
	return (hours - 12) * degPerHour
}

// Terminator computes the instantaneous day/night boundary for time t as a
// polyline sorted by latitude ascending. For each integer latitude the hour
// angle of sunrise/sunset yields two points, one on each side of the
// subsolar longitude. Latitudes in polar day or polar night at the current
// declination contribute no points, so the line has a gap near the poles
// around the solstices.
func Terminator(t time.Time) []Point {
	utc := t.UTC()
	decl := Declination(utc.YearDay())
	sunLon := SubsolarLongitude(utc)

	tanDecl := math.Tan(decl * math.Pi / 180)

	points := make([]Point, 0, 362)
	for lat := -90; lat <= 90; lat++ {
		cosH := -math.Tan(float64(lat)*math.Pi/180) * tanDecl
		if math.Abs(cosH) > 1 {
			continue
		}

		hourAngle := math.Acos(cosH) * 180 / math.Pi
		points = append(points,
			Point{Lon: normalizeLon(sunLon + hourAngle), Lat: float64(lat)},
			Point{Lon: normalizeLon(sunLon - hourAngle), Lat: float64(lat)},
		)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Lat < points[j].Lat
	})

	return points
}

// LineCoordinates returns the polyline as GeoJSON position pairs [lon, lat]
func LineCoordinates(points []Point) [][]float64 {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lon, p.Lat}
	}
	return coords
}

// normalizeLon wraps a longitude into [-180, 180]
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
