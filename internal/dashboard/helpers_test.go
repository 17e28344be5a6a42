package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/forecast"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/observability/metrics"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/report"
	"github.com/tphakala/skydash/internal/scene"
	"github.com/tphakala/skydash/internal/weather"
)

var errProvider = errors.NewStd("provider unavailable")

type sourceCall struct {
	endpoint string
	query    string
	units    weather.Units
}

type gate struct {
	entered chan struct{}
	release chan struct{}
}

// fakeSource serves canned responses keyed by query string.
type fakeSource struct {
	mu          sync.Mutex
	current     map[string]*weather.Conditions
	currentErr  map[string]error
	gates       map[string]gate
	forecast    []weather.ForecastSample
	forecastErr error
	alerts      []weather.Alert
	alertsErr   error
	calls       []sourceCall
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		current:    map[string]*weather.Conditions{},
		currentErr: map[string]error{},
		gates:      map[string]gate{},
	}
}

func (f *fakeSource) record(endpoint, query string, units weather.Units) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sourceCall{endpoint: endpoint, query: query, units: units})
}

// block makes Current for key wait until the returned release is closed.
func (f *fakeSource) block(key string) gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gates[key] = g
	return g
}

func (f *fakeSource) Current(ctx context.Context, q weather.Query, units weather.Units) (*weather.Conditions, error) {
	key := q.String()
	f.record("current", key, units)

	f.mu.Lock()
	g, blocked := f.gates[key]
	delete(f.gates, key)
	cond, err := f.current[key], f.currentErr[key]
	f.mu.Unlock()

	if blocked {
		close(g.entered)
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, weather.ErrLocationNotFound
	}
	c := *cond
	return &c, nil
}

func (f *fakeSource) Forecast(_ context.Context, q weather.Query, units weather.Units) ([]weather.ForecastSample, error) {
	f.record("forecast", q.String(), units)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forecast, f.forecastErr
}

func (f *fakeSource) Alerts(_ context.Context, coords weather.Coordinates, units weather.Units) ([]weather.Alert, error) {
	f.record("alerts", coords.String(), units)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alerts, f.alertsErr
}

func (f *fakeSource) callsTo(endpoint string) []sourceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sourceCall
	for _, c := range f.calls {
		if c.endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingSink struct {
	mu         sync.Mutex
	conditions []string
	alerts     int
	err        error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) PublishConditions(_ context.Context, c *weather.Conditions, _ weather.Units) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditions = append(s.conditions, c.City)
	return s.err
}

func (s *recordingSink) PublishAlerts(_ context.Context, alerts []weather.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts += len(alerts)
	return s.err
}

func londonConditions() *weather.Conditions {
	return &weather.Conditions{
		City:        "London",
		Country:     "GB",
		Temperature: 15.2,
		FeelsLike:   14.1,
		TempMin:     13.7,
		TempMax:     16.4,
		Humidity:    72,
		Pressure:    1014,
		WindSpeed:   4.12,
		WindDeg:     230,
		Visibility:  10000,
		Condition:   weather.ConditionRain,
		Description: "light rain",
		Coordinates: &weather.Coordinates{Latitude: 51.51, Longitude: -0.13},
	}
}

func helsinkiConditions() *weather.Conditions {
	return &weather.Conditions{
		City:        "Helsinki",
		Country:     "FI",
		Temperature: -3.4,
		Condition:   weather.ConditionSnow,
		Description: "snow",
		Coordinates: &weather.Coordinates{Latitude: 60.17, Longitude: 24.94},
	}
}

// fiveDays returns three-hourly samples from 2025-03-03 00:00 UTC.
func fiveDays() []weather.ForecastSample {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	samples := make([]weather.ForecastSample, 0, 40)
	for i := range 40 {
		samples = append(samples, weather.ForecastSample{
			Time:        start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 10 + float64(i%8),
			Condition:   weather.ConditionClouds,
			Description: "overcast clouds",
		})
	}
	return samples
}

type harness struct {
	source  *fakeSource
	store   *preferences.MemoryStore
	view    *SessionView
	notices *notice.Center
	metrics *metrics.DashboardMetrics
	reg     *prometheus.Registry
	sink    *recordingSink
	orch    *Orchestrator
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	reg := prometheus.NewRegistry()
	m, err := metrics.NewDashboardMetrics(reg)
	require.NoError(t, err)

	h := &harness{
		source:  newFakeSource(),
		store:   preferences.NewMemoryStore(preferences.Defaults("metric", "light")),
		notices: notice.NewCenter(time.Minute),
		metrics: m,
		reg:     reg,
		sink:    &recordingSink{},
	}
	h.source.current["London"] = londonConditions()
	h.source.current["Helsinki"] = helsinkiConditions()
	h.source.forecast = fiveDays()
	h.view = NewSessionView(h.notices)

	fixed := time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
	base := []Option{
		WithReports(report.NewRenderer(scene.NewRenderer(scene.NewRand(42)),
			report.WithClock(func() time.Time { return fixed }),
			report.WithLocation(time.UTC))),
		WithShaper(forecast.NewShaper(forecast.WithLocation(time.UTC))),
		WithMetrics(m),
		WithSinks(h.sink),
	}
	h.orch = NewOrchestrator(h.source, h.store, h.view, append(base, opts...)...)
	return h
}
