package domain

import "time"

// Query holds the FDSN event search parameters.
type Query struct {
	Start        time.Time
	End          time.Time
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
	MinMagnitude float64
	OrderBy      string
}

// DefaultQuery returns the fixed search used by every command: magnitude 1+
// events inside a box around Great Britain and Ireland from the start of 2000
// to 2018-10-11, oldest first.
func DefaultQuery() Query {
	return Query{
		Start:        time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2018, time.October, 11, 0, 0, 0, 0, time.UTC),
		MinLatitude:  50.008,
		MaxLatitude:  58.723,
		MinLongitude: -9.756,
		MaxLongitude: 1.67,
		MinMagnitude: 1,
		OrderBy:      "time-asc",
	}
}
