package solar

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Daylight describes the sun's position relative to a surface point
type Daylight struct {
	// SunAltitude is the sun's elevation above the horizon in degrees
	SunAltitude float64 `json:"sun_altitude"`
	// IsDaytime is true when the sun is above the horizon
	IsDaytime bool `json:"is_daytime"`
	// IsGoldenHour is true when the sun sits between 0 and 6 degrees
	IsGoldenHour bool `json:"is_golden_hour"`
}

// DaylightAt computes the daylight context for a surface point at time t.
// Used to tint clock cards and to place an offset band's reference point on
// the day or night side of the terminator.
func DaylightAt(t time.Time, lat, lon float64) Daylight {
	position := suncalc.GetPosition(t, lat, lon)

	// Altitude comes back in radians
	altitudeDegrees := position.Altitude * (180.0 / math.Pi)

	return Daylight{
		SunAltitude:  altitudeDegrees,
		IsDaytime:    altitudeDegrees > 0,
		IsGoldenHour: altitudeDegrees > 0 && altitudeDegrees < 6,
	}
}
