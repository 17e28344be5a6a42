// Package dashboard coordinates user triggers, weather fetches and the
// presenter. Every trigger takes a sequence token; only the newest token
// may touch the presenter.
package dashboard

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/forecast"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/observability/metrics"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/report"
	"github.com/tphakala/skydash/internal/scene"
	"github.com/tphakala/skydash/internal/weather"
	"github.com/tphakala/skydash/internal/widgets"
)

// WeatherSource is the provider surface the orchestrator needs.
type WeatherSource interface {
	Current(ctx context.Context, q weather.Query, units weather.Units) (*weather.Conditions, error)
	Forecast(ctx context.Context, q weather.Query, units weather.Units) ([]weather.ForecastSample, error)
	Alerts(ctx context.Context, coords weather.Coordinates, units weather.Units) ([]weather.Alert, error)
}

const (
	triggerCity        = "city"
	triggerGeolocation = "geolocation"
	triggerRefresh     = "refresh"
	triggerStart       = "start"

	stageCurrent  = "current"
	stageForecast = "forecast"
	stageAlerts   = "alerts"
	stageMap      = "map"
)

// Orchestrator owns the application state and drives a Presenter.
type Orchestrator struct {
	source    WeatherSource
	store     preferences.Store
	presenter Presenter

	state   *State
	reports *report.Renderer
	shaper  *forecast.Shaper
	mapView *widgets.MapView
	chart   *widgets.ChartView
	sinks   []Sink

	defaultCity    string
	defaultLocator Locator

	metrics *metrics.DashboardMetrics
	log     logger.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReports sets the report renderer. It also owns the scene.
func WithReports(r *report.Renderer) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reports = r
		}
	}
}

func WithShaper(s *forecast.Shaper) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.shaper = s
		}
	}
}

func WithMapView(m *widgets.MapView) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.mapView = m
		}
	}
}

func WithChartView(c *widgets.ChartView) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.chart = c
		}
	}
}

// WithSinks adds delivery sinks for conditions and alerts.
func WithSinks(sinks ...Sink) Option {
	return func(o *Orchestrator) { o.sinks = append(o.sinks, sinks...) }
}

// WithDefaultCity sets the city fetched by Start.
func WithDefaultCity(city string) Option {
	return func(o *Orchestrator) { o.defaultCity = strings.TrimSpace(city) }
}

// WithDefaultLocator sets the locator used by Refresh when nothing was requested yet.
func WithDefaultLocator(l Locator) Option {
	return func(o *Orchestrator) { o.defaultLocator = l }
}

// WithDefaults sets the preferences used until the store has been loaded.
func WithDefaults(p preferences.Preferences) Option {
	return func(o *Orchestrator) { o.state = NewState(p) }
}

func WithMetrics(m *metrics.DashboardMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOrchestrator wires source, store and presenter together.
func NewOrchestrator(source WeatherSource, store preferences.Store, presenter Presenter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:    source,
		store:     store,
		presenter: presenter,
		state:     NewState(preferences.Defaults("", "")),
		reports:   report.NewRenderer(scene.NewRenderer(nil)),
		shaper:    forecast.NewShaper(),
		mapView:   widgets.NewMapView(widgets.DefaultZoom),
		chart:     widgets.NewChartView(),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State exposes the application state for inspection.
func (o *Orchestrator) State() *State { return o.state }

// Start loads preferences, applies the theme and fetches the default city if any.
func (o *Orchestrator) Start(ctx context.Context) Outcome {
	prefs := o.state.Preferences()
	if o.store != nil {
		loaded, err := o.store.Load(ctx)
		if err != nil {
			o.log.Warn("loading preferences failed, using defaults", logger.Error(err))
		} else {
			prefs = loaded
		}
	}
	o.state.setPreferences(prefs)
	o.presenter.ApplyTheme(prefs.Theme)
	o.presenter.ShowUnits(prefs.Units)

	if o.defaultCity == "" {
		return OutcomeIdle
	}
	return o.fetchCity(ctx, o.defaultCity, triggerStart)
}

// FetchByCity requests conditions for a city name. Blank input raises a
// notice and changes nothing else.
func (o *Orchestrator) FetchByCity(ctx context.Context, city string) Outcome {
	return o.fetchCity(ctx, city, triggerCity)
}

// FetchByGeolocation resolves the position with loc and requests
// conditions there. A nil loc, or one reporting itself unavailable, is
// rejected before any state changes.
func (o *Orchestrator) FetchByGeolocation(ctx context.Context, loc Locator) Outcome {
	return o.fetchLocated(ctx, loc, triggerGeolocation)
}

// Refresh re-runs the last city, else the last position, else the default
// locator. With none of those it returns OutcomeNeedsLocation and the
// caller is expected to geolocate.
func (o *Orchestrator) Refresh(ctx context.Context) Outcome {
	if city := o.state.LastCity(); city != "" {
		return o.fetchCity(ctx, city, triggerRefresh)
	}
	if coords := o.state.LastCoordinates(); coords != nil {
		return o.fetchLocated(ctx, StaticLocator{Coordinates: *coords}, triggerRefresh)
	}
	if o.defaultLocator == nil {
		o.recordRequest(triggerRefresh, OutcomeNeedsLocation, time.Now())
		return OutcomeNeedsLocation
	}
	return o.fetchLocated(ctx, o.defaultLocator, triggerRefresh)
}

// SetUnits persists units and refreshes the view with them. A failed
// write is returned but the new units still apply for this session.
func (o *Orchestrator) SetUnits(ctx context.Context, units weather.Units) (Outcome, error) {
	if _, err := weather.ParseUnits(string(units)); err != nil {
		return OutcomeRejected, errors.New(err).
			Component("dashboard").
			Category(errors.CategoryValidation).
			Build()
	}
	o.state.setUnits(units)
	o.presenter.ShowUnits(units)

	var saveErr error
	if o.store != nil {
		saveErr = o.store.SaveUnits(ctx, units)
		o.recordPreferenceWrite(preferences.KeyUnits, saveErr)
		if saveErr != nil {
			o.log.Warn("saving units failed", logger.Error(saveErr))
		}
	}

	return o.Refresh(ctx), saveErr
}

// ToggleTheme flips the theme, persists it and applies it.
func (o *Orchestrator) ToggleTheme(ctx context.Context) (preferences.Theme, error) {
	theme := o.state.toggleTheme()

	var saveErr error
	if o.store != nil {
		saveErr = o.store.SaveTheme(ctx, theme)
		o.recordPreferenceWrite(preferences.KeyTheme, saveErr)
		if saveErr != nil {
			o.log.Warn("saving theme failed", logger.Error(saveErr))
		}
	}
	o.presenter.ApplyTheme(theme)
	return theme, saveErr
}

func (o *Orchestrator) fetchCity(ctx context.Context, raw, trigger string) Outcome {
	city := strings.TrimSpace(raw)
	if city == "" {
		o.notify(notice.EmptyInput())
		o.recordRequest(trigger, OutcomeRejected, time.Now())
		return OutcomeRejected
	}

	start := time.Now()
	token, units := o.state.begin(city)
	outcome := o.fetch(ctx, token, weather.CityQuery(city), units, false)
	o.recordRequest(trigger, outcome, start)
	return outcome
}

func (o *Orchestrator) fetchLocated(ctx context.Context, loc Locator, trigger string) Outcome {
	if !supported(loc) {
		o.notify(notice.GeolocationUnsupported())
		o.recordRequest(trigger, OutcomeRejected, time.Now())
		return OutcomeRejected
	}

	start := time.Now()
	token, units := o.state.begin("")
	outcome := o.locateAndFetch(ctx, token, loc, units)
	o.recordRequest(trigger, outcome, start)
	return outcome
}

func (o *Orchestrator) locateAndFetch(ctx context.Context, token uint64, loc Locator, units weather.Units) Outcome {
	o.apply(token, stageCurrent, func() { o.presenter.ShowLoading(true) })

	coords, err := loc.Locate(ctx)
	if err == nil && !coords.Valid() {
		err = errors.New(weather.ErrInvalidCoordinates).
			Component("dashboard").
			Category(errors.CategoryValidation).
			Context("coordinates", coords.String()).
			Build()
	}
	if err != nil {
		unsupported := errors.Is(err, ErrGeolocationUnsupported)
		applied := o.apply(token, stageCurrent, func() {
			o.presenter.ShowLoading(false)
			if unsupported {
				o.notify(notice.GeolocationUnsupported())
				return
			}
			o.notify(notice.LocationUnavailable())
			o.presenter.ClearAlerts()
		})
		switch {
		case !applied:
			return OutcomeSuperseded
		case unsupported:
			return OutcomeRejected
		}
		o.log.Info("geolocation failed", logger.Error(err))
		return OutcomeLocationFailed
	}

	o.state.rememberCoordinates(token, coords)
	return o.fetch(ctx, token, weather.CoordinatesQuery(coords.Latitude, coords.Longitude), units, true)
}

// fetch runs the current-conditions request and, on success, the
// forecast, alerts and map updates in parallel.
func (o *Orchestrator) fetch(ctx context.Context, token uint64, q weather.Query, units weather.Units, byLocation bool) Outcome {
	if o.metrics != nil {
		o.metrics.RequestStarted()
		defer o.metrics.RequestFinished()
	}
	o.apply(token, stageCurrent, func() { o.presenter.ShowLoading(true) })

	cond, err := o.source.Current(ctx, q, units)
	if err != nil {
		return o.failCurrent(token, q, err, byLocation)
	}

	applied := o.apply(token, stageCurrent, func() {
		o.presenter.ShowLoading(false)
		o.presenter.ShowReport(o.reports.Render(cond, units))
	})
	if !applied {
		return OutcomeSuperseded
	}

	// Forecast follows the query form; alerts and map use the request
	// position for geolocation and the reported one for cities.
	pos := cond.Coordinates
	if byLocation {
		pos = q.Coordinates
	}

	var g errgroup.Group
	g.Go(func() error { return o.updateForecast(ctx, token, q, units) })
	g.Go(func() error { return o.updateAlerts(ctx, token, pos, units) })
	g.Go(func() error {
		o.apply(token, stageMap, func() {
			o.presenter.ShowMap(o.mapView.Show(pos, cond.City))
		})
		return nil
	})
	g.Go(func() error { return o.publishConditions(ctx, cond, units) })
	if err := g.Wait(); err != nil {
		// Failed stages have already cleared their region.
		o.log.Debug("secondary stage failed",
			logger.String("query", q.String()),
			logger.Error(err))
	}

	return OutcomeRendered
}

func (o *Orchestrator) failCurrent(token uint64, q weather.Query, err error, byLocation bool) Outcome {
	if errors.Is(err, weather.ErrLocationNotFound) {
		applied := o.apply(token, stageCurrent, func() {
			o.presenter.ShowLoading(false)
			o.notify(notice.NotFound(byLocation))
			o.presenter.HidePanel()
			o.presenter.ClearForecast()
			o.presenter.ShowChart(o.chart.Clear())
			o.presenter.ClearAlerts()
			o.presenter.ShowMap(o.mapView.Hide())
		})
		if !applied {
			return OutcomeSuperseded
		}
		o.log.Info("location not found", logger.String("query", q.String()))
		return OutcomeNotFound
	}

	applied := o.apply(token, stageCurrent, func() {
		o.presenter.ShowLoading(false)
		o.notify(notice.FetchFailed())
		o.presenter.ClearAlerts()
	})
	if !applied {
		return OutcomeSuperseded
	}
	o.log.Warn("fetching current conditions failed",
		logger.String("query", q.String()),
		logger.Error(err))
	return OutcomeFailed
}

// updateForecast shows the daily cards and hourly chart. A failed request
// clears both and is returned.
func (o *Orchestrator) updateForecast(ctx context.Context, token uint64, q weather.Query, units weather.Units) error {
	samples, err := o.source.Forecast(ctx, q, units)
	if err != nil {
		o.apply(token, stageForecast, func() {
			o.presenter.ClearForecast()
			o.presenter.ShowChart(o.chart.Clear())
		})
		return err
	}

	summary := o.shaper.Shape(samples)
	o.apply(token, stageForecast, func() {
		if len(summary.Daily) == 0 {
			o.presenter.ClearForecast()
		} else {
			o.presenter.ShowForecast(o.reports.Cards(summary.Daily, units))
		}
		if len(summary.Hourly) == 0 {
			o.presenter.ShowChart(o.chart.Clear())
		} else {
			o.presenter.ShowChart(o.chart.Render(widgets.SeriesFrom(summary.Hourly), units))
		}
	})
	return nil
}

func (o *Orchestrator) updateAlerts(ctx context.Context, token uint64, pos *weather.Coordinates, units weather.Units) error {
	if pos == nil {
		o.apply(token, stageAlerts, o.presenter.ClearAlerts)
		return nil
	}

	alerts, err := o.source.Alerts(ctx, *pos, units)
	if err != nil {
		o.apply(token, stageAlerts, o.presenter.ClearAlerts)
		return err
	}

	applied := o.apply(token, stageAlerts, func() {
		if len(alerts) == 0 {
			o.presenter.ClearAlerts()
			return
		}
		o.presenter.ShowAlerts(o.reports.Alerts(alerts))
	})
	if applied && len(alerts) > 0 {
		return o.publishAlerts(ctx, alerts)
	}
	return nil
}

// publishConditions delivers to every sink and joins their failures.
func (o *Orchestrator) publishConditions(ctx context.Context, cond *weather.Conditions, units weather.Units) error {
	var errs []error
	for _, s := range o.sinks {
		err := s.PublishConditions(ctx, cond, units)
		o.recordSink(s.Name(), err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) publishAlerts(ctx context.Context, alerts []weather.Alert) error {
	var errs []error
	for _, s := range o.sinks {
		err := s.PublishAlerts(ctx, alerts)
		o.recordSink(s.Name(), err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// apply runs fn if token is current and counts a stale response otherwise.
func (o *Orchestrator) apply(token uint64, stage string, fn func()) bool {
	if o.state.applyIfCurrent(token, fn) {
		return true
	}
	if o.metrics != nil {
		o.metrics.RecordStale(stage)
	}
	return false
}

func (o *Orchestrator) notify(n notice.Notice) {
	o.presenter.Notify(n)
	if o.metrics != nil {
		o.metrics.RecordNotice(string(n.Severity))
	}
}

func (o *Orchestrator) recordRequest(trigger string, outcome Outcome, start time.Time) {
	if o.metrics != nil {
		o.metrics.RecordRequest(trigger, outcome.String(), time.Since(start).Seconds())
	}
}

func (o *Orchestrator) recordPreferenceWrite(key string, err error) {
	if o.metrics != nil {
		o.metrics.RecordPreferenceWrite(key, err)
	}
}

func (o *Orchestrator) recordSink(name string, err error) {
	if err != nil {
		o.log.Warn("sink publish failed", logger.String("sink", name), logger.Error(err))
	}
	if o.metrics != nil {
		o.metrics.RecordSinkPublish(name, err)
	}
}
