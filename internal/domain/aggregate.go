package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// ErrNoEvents is returned when a summary is requested for an empty event set.
var ErrNoEvents = errors.New("no earthquake events to aggregate")

// CountsByYear maps a calendar year to the number of events in it.
type CountsByYear map[int]int

// MagnitudesByYear maps a calendar year to the magnitudes reported in it, in
// input order.
type MagnitudesByYear map[int][]float64

// AveragesByYear maps a calendar year to its mean magnitude.
type AveragesByYear map[int]float64

// YearStats is the per-year row of a Summary. MeanMagnitude and
// MaxMagnitude are meaningful only when Measured > 0; a magnitude of 0 or
// below is a real value.
type YearStats struct {
	Year          int     `json:"year"`
	Count         int     `json:"count"`
	Measured      int     `json:"measured"` // events with a magnitude
	MeanMagnitude float64 `json:"mean_magnitude"`
	MaxMagnitude  float64 `json:"max_magnitude"`
}

// Summary describes an event set year by year, oldest year first.
type Summary struct {
	Years       []YearStats `json:"years"`
	Total       int         `json:"total"`
	Missing     int         `json:"missing_magnitude"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Report bundles the two chart inputs with the tabular summary.
type Report struct {
	Counts   CountsByYear
	Averages AveragesByYear
	Summary  Summary
}

// CountByYear counts every event per year, with or without a magnitude.
func CountByYear(quakes []Quake) CountsByYear {
	counts := make(CountsByYear)
	for _, q := range quakes {
		counts[q.Year()]++
	}
	return counts
}

// GroupMagnitudesByYear collects the magnitudes of each year. Events without a
// magnitude are skipped, so a year made up only of such events is absent.
func GroupMagnitudesByYear(quakes []Quake) MagnitudesByYear {
	byYear := make(MagnitudesByYear)
	for _, q := range quakes {
		if !q.HasMagnitude() {
			continue
		}
		year := q.Year()
		byYear[year] = append(byYear[year], *q.Magnitude)
	}
	return byYear
}

// AverageMagnitudeByYear returns the arithmetic mean magnitude of every year
// that has at least one magnitude.
func AverageMagnitudeByYear(magnitudes MagnitudesByYear) (AveragesByYear, error) {
	avgs := make(AveragesByYear, len(magnitudes))
	for year, mags := range magnitudes {
		if len(mags) == 0 {
			continue
		}
		mean, err := stats.Mean(mags)
		if err != nil {
			return nil, fmt.Errorf("mean magnitude for %d: %w", year, err)
		}
		avgs[year] = mean
	}
	return avgs, nil
}

// Summarize builds the per-year summary of an event set.
func Summarize(quakes []Quake) (Summary, error) {
	if len(quakes) == 0 {
		return Summary{}, ErrNoEvents
	}

	counts := CountByYear(quakes)
	magnitudes := GroupMagnitudesByYear(quakes)

	summary := Summary{
		Years:       make([]YearStats, 0, len(counts)),
		Total:       len(quakes),
		GeneratedAt: clock.Now().UTC(),
	}

	for _, year := range SortedYears(counts) {
		row := YearStats{Year: year, Count: counts[year]}
		if mags := magnitudes[year]; len(mags) > 0 {
			mean, err := stats.Mean(mags)
			if err != nil {
				return Summary{}, fmt.Errorf("mean magnitude for %d: %w", year, err)
			}
			peak, err := stats.Max(mags)
			if err != nil {
				return Summary{}, fmt.Errorf("max magnitude for %d: %w", year, err)
			}
			row.Measured = len(mags)
			row.MeanMagnitude = mean
			row.MaxMagnitude = peak
		}
		summary.Missing += row.Count - row.Measured
		summary.Years = append(summary.Years, row)
	}

	return summary, nil
}

// BuildReport aggregates an event set into everything the renderers need.
func BuildReport(quakes []Quake) (Report, error) {
	summary, err := Summarize(quakes)
	if err != nil {
		return Report{}, err
	}

	avgs, err := AverageMagnitudeByYear(GroupMagnitudesByYear(quakes))
	if err != nil {
		return Report{}, err
	}

	return Report{
		Counts:   CountByYear(quakes),
		Averages: avgs,
		Summary:  summary,
	}, nil
}

// SortedYears returns the keys of a year-keyed map in ascending order.
func SortedYears[V any](byYear map[int]V) []int {
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
