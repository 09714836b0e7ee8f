package clock

import (
	"time"

	"github.com/sundialhq/sundial-platform/internal/tzdata"
)

// Card is the live clock state for one offset band
type Card struct {
	Band string `json:"band"`
	// Time is the band's local wall-clock time, 24h
	Time string `json:"time"`
	// Date is the band's local calendar date
	Date string `json:"date"`
	// Hour is the band's local hour [0,23]
	Hour int `json:"hour"`
	// Unix is the instant the card was computed, for staleness checks
	Unix int64 `json:"unix"`
}

// BandClock renders the clock card for a band at time t
func BandClock(band tzdata.Band, t time.Time) Card {
	zone := time.FixedZone(band.Label, band.OffsetMinutes*60)
	local := t.In(zone)

	return Card{
		Band: band.Label,
		Time: local.Format("15:04:05"),
		Date: local.Format("Mon, 02 Jan"),
		Hour: local.Hour(),
		Unix: t.Unix(),
	}
}

// Snapshot computes clock cards for all bands at time t
func Snapshot(bands []tzdata.Band, t time.Time) []Card {
	cards := make([]Card, len(bands))
	for i, band := range bands {
		cards[i] = BandClock(band, t)
	}
	return cards
}
