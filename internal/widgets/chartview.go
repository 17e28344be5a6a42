package widgets

import (
	"slices"
	"sync"

	"github.com/tphakala/skydash/internal/forecast"
	"github.com/tphakala/skydash/internal/weather"
)

// Chart styling.
const (
	ChartLabel       = "Temp"
	ChartBorderColor = "#e4603a"
	ChartFillColor   = "rgba(218,30,78,0.1)"
	ChartPointColor  = "#da1e4e"
	ChartTension     = 0.4
)

// Series is a temperature-over-time series.
type Series struct {
	Labels []string
	Values []float64
}

// SeriesFrom converts hourly points into a chart series.
func SeriesFrom(points []forecast.HourlyPoint) Series {
	s := Series{
		Labels: make([]string, len(points)),
		Values: make([]float64, len(points)),
	}
	for i, p := range points {
		s.Labels[i] = p.Label
		s.Values[i] = p.Temperature
	}
	return s
}

// Chart is one chart instance.
type Chart struct {
	ID          uint64    `json:"id"`
	Label       string    `json:"label"`
	Labels      []string  `json:"labels"`
	Data        []float64 `json:"data"`
	TickSuffix  string    `json:"tickSuffix"`
	BorderColor string    `json:"borderColor"`
	FillColor   string    `json:"fillColor"`
	PointColor  string    `json:"pointColor"`
	Tension     float64   `json:"tension"`
}

// ChartState is what the page should draw. Chart is nil when the drawing
// surface is cleared.
type ChartState struct {
	Chart     *Chart `json:"chart,omitempty"`
	Destroyed uint64 `json:"destroyed"`
}

// ChartView owns the chart instance. Safe for concurrent use.
type ChartView struct {
	mu        sync.Mutex
	nextID    uint64
	chart     *Chart
	destroyed uint64
}

// NewChartView creates an empty chart view.
func NewChartView() *ChartView {
	return &ChartView{}
}

// Render destroys the current chart and draws series. An empty series
// leaves the surface cleared.
func (c *ChartView) Render(series Series, units weather.Units) ChartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.destroy()
	n := min(len(series.Labels), len(series.Values))
	if n == 0 {
		return c.snapshot()
	}

	c.nextID++
	c.chart = &Chart{
		ID:          c.nextID,
		Label:       ChartLabel,
		Labels:      slices.Clone(series.Labels[:n]),
		Data:        slices.Clone(series.Values[:n]),
		TickSuffix:  "°" + units.TemperatureSymbol(),
		BorderColor: ChartBorderColor,
		FillColor:   ChartFillColor,
		PointColor:  ChartPointColor,
		Tension:     ChartTension,
	}
	return c.snapshot()
}

// Clear destroys the chart.
func (c *ChartView) Clear() ChartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroy()
	return c.snapshot()
}

// State returns the current chart state.
func (c *ChartView) State() ChartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *ChartView) destroy() {
	if c.chart != nil {
		c.chart = nil
		c.destroyed++
	}
}

func (c *ChartView) snapshot() ChartState {
	s := ChartState{Destroyed: c.destroyed}
	if c.chart != nil {
		ch := *c.chart
		ch.Labels = slices.Clone(c.chart.Labels)
		ch.Data = slices.Clone(c.chart.Data)
		s.Chart = &ch
	}
	return s
}
