// Package plot renders the per-variant depth and VAF QC scatter charts.
package plot

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/inodb/vibe-qc/internal/calls"
	"github.com/inodb/vibe-qc/internal/wide"
)

// ErrNoPoints is returned when there is nothing to plot.
var ErrNoPoints = errors.New("no points to plot")

// DepthBreaks are the reference lines drawn on the log depth axis.
var DepthBreaks = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000}

// UnmatchedSeries names the series for points whose variant has no colour.
const UnmatchedSeries = "unassigned"

// genotypeSymbols are assigned to genotypes in first-seen order.
var genotypeSymbols = []string{"circle", "triangle", "rect", "diamond", "roundRect", "pin", "arrow"}

// Point is one long-table row joined to its concordance colour.
type Point struct {
	VarKey   string
	Sample   string
	Genotype string
	Depth    float64
	VAF      float64
	Colour   string // empty when the variant is missing from the wide table
}

// Join left-joins the wide table's (var_key, concordance_col) projection
// onto the long records. Every record yields exactly one point, in input order.
func Join(t *wide.Table, records []*calls.Record) []Point {
	colours := map[string]string{}
	if t != nil {
		colours = t.Projection()
	}

	points := make([]Point, len(records))
	for i, r := range records {
		points[i] = Point{
			VarKey:   r.VarKey,
			Sample:   r.Sample,
			Genotype: r.Genotype,
			Depth:    r.HQDepth,
			VAF:      r.VAFNumeric,
			Colour:   colours[r.VarKey],
		}
	}
	return points
}

// config holds chart presentation settings.
type config struct {
	width  string
	height string
	theme  string
}

// Option customises chart presentation.
type Option func(*config)

// WithSize sets the chart canvas size, e.g. ("900px", "600px").
// An empty height scales with the number of variants.
func WithSize(width, height string) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithTheme sets the go-echarts theme name.
func WithTheme(theme string) Option {
	return func(c *config) {
		c.theme = theme
	}
}

// valueAxis describes the numeric (horizontal) axis of a chart.
type valueAxis struct {
	name  string
	kind  string // "log" or "value"
	min   interface{}
	value func(Point) float64
	marks []float64
}

// DepthFloor is the lowest value on the log depth axis. Depths below it,
// including zero, are drawn at the floor so every row keeps its point.
const DepthFloor = 1.0

// DepthChart plots hq_depth per variant on a log axis.
func DepthChart(t *wide.Table, records []*calls.Record, sample string, options ...Option) (*charts.Scatter, error) {
	return scatter(Join(t, records), sample+": read depth by variant", valueAxis{
		name:  "High-quality read depth",
		kind:  "log",
		min:   DepthFloor,
		value: func(p Point) float64 { return max(p.Depth, DepthFloor) },
		marks: DepthBreaks,
	}, options)
}

// VAFChart plots vaf_numeric per variant on a linear axis.
func VAFChart(t *wide.Table, records []*calls.Record, sample string, options ...Option) (*charts.Scatter, error) {
	return scatter(Join(t, records), sample+": VAF by variant", valueAxis{
		name:  "Variant allele fraction (%)",
		kind:  "value",
		min:   0,
		value: func(p Point) float64 { return p.VAF },
	}, options)
}

func scatter(points []Point, title string, axis valueAxis, options []Option) (*charts.Scatter, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	cfg := config{width: "900px"}
	for _, o := range options {
		o(&cfg)
	}

	variants, variantIndex := categories(points)
	if cfg.height == "" {
		cfg.height = strconv.Itoa(max(400, 120+24*len(variants))) + "px"
	}

	symbols := make(map[string]string)
	for _, p := range points {
		if _, ok := symbols[p.Genotype]; !ok {
			symbols[p.Genotype] = genotypeSymbols[len(symbols)%len(genotypeSymbols)]
		}
	}

	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     cfg.width,
			Height:    cfg.height,
			Theme:     cfg.theme,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		// Flipped: variants run down the vertical axis.
		charts.WithXAxisOpts(opts.XAxis{Name: axis.name, Type: axis.kind, Min: axis.min}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Variant", Type: "category", Data: variants}),
	)

	// One series per colour so the colour is applied verbatim.
	var order []string
	byColour := make(map[string][]opts.ScatterData)
	for _, p := range points {
		if _, ok := byColour[p.Colour]; !ok {
			order = append(order, p.Colour)
		}
		byColour[p.Colour] = append(byColour[p.Colour], opts.ScatterData{
			Name:       fmt.Sprintf("%s %s (%s)", p.VarKey, p.Sample, p.Genotype),
			Value:      []interface{}{axis.value(p), variantIndex[p.VarKey]},
			Symbol:     symbols[p.Genotype],
			SymbolSize: 10,
		})
	}

	for i, colour := range order {
		var seriesOpts []charts.SeriesOpts
		name := colour
		if colour == "" {
			name = UnmatchedSeries
		} else {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: colour}))
		}
		if i == 0 && len(axis.marks) > 0 {
			seriesOpts = append(seriesOpts, charts.WithMarkLineNameXAxisItemOpts(breakLines(axis.marks)...))
		}
		chart.AddSeries(name, byColour[colour], seriesOpts...)
	}

	return chart, nil
}

// categories returns the distinct variant keys in first-seen order.
func categories(points []Point) ([]string, map[string]int) {
	var keys []string
	index := make(map[string]int)
	for _, p := range points {
		if _, ok := index[p.VarKey]; !ok {
			index[p.VarKey] = len(keys)
			keys = append(keys, p.VarKey)
		}
	}
	return keys, index
}

func breakLines(marks []float64) []opts.MarkLineNameXAxisItem {
	items := make([]opts.MarkLineNameXAxisItem, len(marks))
	for i, m := range marks {
		items[i] = opts.MarkLineNameXAxisItem{
			Name:  strconv.FormatFloat(m, 'f', -1, 64),
			XAxis: m,
		}
	}
	return items
}

// Render writes the charts to w as a single HTML page.
func Render(w io.Writer, chs ...*charts.Scatter) error {
	page := components.NewPage()
	for _, c := range chs {
		page.AddCharts(c)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}
