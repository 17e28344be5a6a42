// Package app builds the dashboard and its collaborators from settings.
package app

import (
	"context"
	"time"

	"github.com/tphakala/skydash/internal/alertpush"
	"github.com/tphakala/skydash/internal/buildinfo"
	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/dashboard"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/forecast"
	"github.com/tphakala/skydash/internal/format"
	"github.com/tphakala/skydash/internal/httpclient"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/mqtt"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/observability"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/report"
	"github.com/tphakala/skydash/internal/scene"
	"github.com/tphakala/skydash/internal/suncalc"
	"github.com/tphakala/skydash/internal/views"
	"github.com/tphakala/skydash/internal/weather"
	"github.com/tphakala/skydash/internal/widgets"
)

const telemetryFlushTimeout = 2 * time.Second

// App holds everything a command needs to drive the dashboard.
type App struct {
	Settings  *conf.Settings
	Build     *buildinfo.Context
	Metrics   *observability.Metrics
	Weather   *weather.Client
	Store     preferences.Store
	Notices   *notice.Center
	View      *dashboard.SessionView
	Dashboard *dashboard.Orchestrator
	Views     *views.Renderer
	Log       logger.Logger

	http      *httpclient.Client
	publisher *mqtt.Publisher
	telemetry bool
}

// Option customizes New.
type Option func(*options)

type options struct {
	store      preferences.Store
	weather    dashboard.WeatherSource
	httpConfig httpclient.Config
	log        logger.Logger
}

// WithStore replaces the configured preference store.
func WithStore(s preferences.Store) Option {
	return func(o *options) { o.store = s }
}

// WithWeatherSource replaces the OpenWeather client as the dashboard source.
func WithWeatherSource(src dashboard.WeatherSource) Option {
	return func(o *options) { o.weather = src }
}

// WithHTTPClient overrides the outbound client configuration.
func WithHTTPClient(cfg httpclient.Config) Option {
	return func(o *options) { o.httpConfig = cfg }
}

// WithLogger sets the root logger. Defaults to the global central logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New wires the dashboard from settings. Close must be called when done.
func New(settings *conf.Settings, build *buildinfo.Context, opts ...Option) (*App, error) {
	if settings == nil {
		return nil, errors.Newf("settings are required").
			Component("app").
			Category(errors.CategoryConfiguration).
			Build()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = logger.Global().Module("app")
	}

	a := &App{Settings: settings, Build: build, Log: log}

	if settings.Telemetry.Enabled {
		if err := errors.InitSentry(settings.Telemetry.DSN, settings.Telemetry.Environment, build.GetVersion()); err != nil {
			log.Warn("error telemetry disabled", logger.Error(err))
		} else {
			a.telemetry = true
		}
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return nil, err
	}
	a.Metrics = m

	loc := settings.Location()

	source := o.weather
	if source == nil {
		hcCfg := o.httpConfig
		if hcCfg.DefaultTimeout <= 0 {
			hcCfg.DefaultTimeout = settings.OpenWeather.Timeout
		}
		if hcCfg.UserAgent == "" {
			hcCfg.UserAgent = build.UserAgent()
		}
		a.http = httpclient.New(&hcCfg)
		a.Weather = weather.NewClient(
			weather.ConfigFromSettings(settings),
			a.http,
			weather.WithMetrics(m.Weather),
			weather.WithLogger(log.Module("weather")),
			weather.WithSunTimes(suncalc.NewCalculator(0)),
		)
		source = a.Weather
	}

	defaults := preferences.Defaults(settings.Dashboard.DefaultUnits, settings.Dashboard.DefaultTheme)
	a.Store = o.store
	if a.Store == nil {
		store, err := preferences.Open(settings.Preferences, defaults, log.Module("preferences"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
	}

	a.Notices = notice.NewCenter(settings.Dashboard.NoticeTTL)
	a.View = dashboard.NewSessionView(a.Notices)

	reports := report.NewRenderer(
		scene.NewRenderer(scene.NewRand(settings.Dashboard.Seed)),
		report.WithLocation(loc),
		report.WithLanguage(format.ParseLocale(settings.Main.Locale)),
	)
	shaper := forecast.NewShaper(
		forecast.WithLocation(loc),
		forecast.WithReferenceHour(settings.Dashboard.ReferenceHour),
		forecast.WithDailyLimit(settings.Dashboard.DailyDays),
		forecast.WithHourlyLimit(settings.Dashboard.HourlySamples),
	)

	sinks, err := a.sinks(loc)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Dashboard = dashboard.NewOrchestrator(source, a.Store, a.View,
		dashboard.WithReports(reports),
		dashboard.WithShaper(shaper),
		dashboard.WithMapView(widgets.NewMapView(settings.Dashboard.MapZoom)),
		dashboard.WithChartView(widgets.NewChartView()),
		dashboard.WithSinks(sinks...),
		dashboard.WithDefaultCity(settings.Dashboard.DefaultCity),
		dashboard.WithDefaults(defaults),
		dashboard.WithMetrics(m.Dashboard),
		dashboard.WithLogger(log.Module("dashboard")),
	)

	a.Views, err = views.New()
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) sinks(loc *time.Location) ([]dashboard.Sink, error) {
	var sinks []dashboard.Sink
	s := a.Settings

	if s.MQTT.Enabled {
		cfg := mqtt.ConfigFromSettings(s.MQTT)
		a.publisher = mqtt.NewPublisher(mqtt.NewClient(cfg, a.Log.Module("mqtt")), cfg.Topic, a.Log.Module("mqtt"))
		sinks = append(sinks, a.publisher)
	}

	if s.AlertPush.Enabled {
		sender, err := alertpush.NewShoutrrrSender(s.AlertPush.URLs, s.AlertPush.Timeout)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, alertpush.NewForwarder(sender, s.AlertPush.Dedupe, loc, a.Log.Module("alertpush")))
	}
	return sinks, nil
}

// Start loads preferences and fetches the default city, if any.
func (a *App) Start(ctx context.Context) dashboard.Outcome {
	return a.Dashboard.Start(ctx)
}

// Close releases the store and broker connection and flushes telemetry.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.http != nil {
		a.http.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("error closing preference store", logger.Error(err))
		}
	}
	if a.telemetry {
		errors.FlushTelemetry(telemetryFlushTimeout)
	}
}
