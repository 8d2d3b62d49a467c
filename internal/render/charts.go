// Package render draws the per-year earthquake charts.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/quake-trends/internal/domain"
)

// ErrNoData is returned when a chart is requested for an empty mapping.
var ErrNoData = errors.New("no data to plot")

// Chart names, used for file names and metric labels.
const (
	CountsChart           = "counts_per_year"
	AverageMagnitudeChart = "average_magnitude_per_year"
)

// Names returns the chart names in the order WriteFiles writes them.
func Names() []string {
	return []string{CountsChart, AverageMagnitudeChart}
}

// yearTickStep is the spacing of labelled years on the x axis.
const yearTickStep = 2

var (
	skyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	orange  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// Options controls the size and encoding of rendered charts.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Format string // "png" or "svg"
}

// DefaultOptions returns a 20x12cm PNG.
func DefaultOptions() Options {
	return Options{
		Width:  20 * vg.Centimeter,
		Height: 12 * vg.Centimeter,
		Format: "png",
	}
}

// NewCountChart builds a bar chart of events per year. Years between the
// first and last year with no events get an empty bar so every bar sits
// on its own year.
func NewCountChart(counts domain.CountsByYear) (*plot.Plot, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	first, values := countValues(counts)
	last := first + len(values) - 1

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = skyBlue
	bars.LineStyle.Width = 0
	bars.XMin = float64(first)

	p := newYearPlot("Number of Earthquakes Per Year", "Number of Earthquakes", first, last)
	p.Add(bars)
	p.X.Min = float64(first) - 1
	p.X.Max = float64(last) + 1
	p.Y.Min = 0
	return p, nil
}

// countValues returns the first year and one value per year through the
// last year, zero for years missing from counts.
func countValues(counts domain.CountsByYear) (int, plotter.Values) {
	years := domain.SortedYears(counts)
	first, last := years[0], years[len(years)-1]

	values := make(plotter.Values, 0, last-first+1)
	for year := first; year <= last; year++ {
		values = append(values, float64(counts[year]))
	}
	return first, values
}

// NewAverageMagnitudeChart builds a line chart of mean magnitude per year
// with a marker on every year that has data.
func NewAverageMagnitudeChart(avgs domain.AveragesByYear) (*plot.Plot, error) {
	years := domain.SortedYears(avgs)
	if len(years) == 0 {
		return nil, ErrNoData
	}

	xys := make(plotter.XYs, len(years))
	for i, year := range years {
		xys[i].X = float64(year)
		xys[i].Y = avgs[year]
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("line chart: %w", err)
	}
	line.Color = orange
	line.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = orange
	points.Radius = vg.Points(3)

	p := newYearPlot("Average Earthquake Magnitude Per Year", "Average Magnitude", years[0], years[len(years)-1])
	p.Add(line, points)
	return p, nil
}

func newYearPlot(title, yLabel string, first, last int) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = yearTicks(first, last)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())
	return p
}

// yearTicks labels every yearTickStep-th year from first to last inclusive.
func yearTicks(first, last int) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 0, (last-first)/yearTickStep+1)
	for year := first; year <= last; year += yearTickStep {
		ticks = append(ticks, plot.Tick{Value: float64(year), Label: strconv.Itoa(year)})
	}
	return ticks
}

// Encode draws p into w using the size and format in opts.
func Encode(w io.Writer, p *plot.Plot, opts Options) error {
	if opts.Format != "png" && opts.Format != "svg" {
		return fmt.Errorf("unsupported chart format %q", opts.Format)
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("draw chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// File is a chart written by WriteFiles.
type File struct {
	Chart string
	Path  string
}

// Charts builds every chart the report has data for, keyed by chart name.
// A report with events but no magnitudes still gets its counts chart. It
// returns ErrNoData only when no chart can be drawn.
func Charts(report domain.Report) (map[string]*plot.Plot, error) {
	builders := map[string]func() (*plot.Plot, error){
		CountsChart:           func() (*plot.Plot, error) { return NewCountChart(report.Counts) },
		AverageMagnitudeChart: func() (*plot.Plot, error) { return NewAverageMagnitudeChart(report.Averages) },
	}

	charts := make(map[string]*plot.Plot, len(builders))
	for _, name := range Names() {
		p, err := builders[name]()
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		charts[name] = p
	}
	if len(charts) == 0 {
		return nil, ErrNoData
	}
	return charts, nil
}

// WriteFiles renders the charts of a report into dir as <name>.<format>
// and returns what it wrote, counts chart first. Charts without data are
// left out.
func WriteFiles(dir string, report domain.Report, opts Options) ([]File, error) {
	charts, err := Charts(report)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	files := make([]File, 0, len(charts))
	for _, name := range Names() {
		p, ok := charts[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+"."+opts.Format)
		if err := writeFile(path, p, opts); err != nil {
			return files, err
		}
		files = append(files, File{Chart: name, Path: path})
	}
	return files, nil
}

func writeFile(path string, p *plot.Plot, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Encode(f, p, opts)
}
