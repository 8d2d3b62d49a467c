package domain

import "time"

// Quake is a single earthquake event as reported by ComCat.
type Quake struct {
	ID        string
	Time      int64    // milliseconds since the Unix epoch
	Magnitude *float64 // nil when the feed reports "mag": null
	MagType   string
	Place     string
	Lon       float64
	Lat       float64
	Depth     float64 // kilometres
}

// Year returns the UTC calendar year the event occurred in.
func (q Quake) Year() int {
	return YearOf(q.Time)
}

// HasMagnitude reports whether the feed assigned a magnitude to the event.
func (q Quake) HasMagnitude() bool {
	return q.Magnitude != nil
}

// YearOf converts a millisecond epoch timestamp to its UTC calendar year.
func YearOf(ms int64) int {
	return time.UnixMilli(ms).UTC().Year()
}
