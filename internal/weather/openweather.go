package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/antonholmquist/jason"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/httpclient"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/observability/metrics"
)

// Endpoint names used in logs and metrics.
const (
	EndpointCurrent  = "current"
	EndpointForecast = "forecast"
	EndpointAlerts   = "alerts"
)

const (
	// maxBodySize caps provider responses; a 5 day forecast is ~16KB.
	maxBodySize = 2 << 20

	alertsExclude = "current,minutely,hourly,daily"
)

// SunTimes computes sunrise and sunset when the provider omits them.
type SunTimes interface {
	Sunrise(latitude, longitude float64, date time.Time, loc *time.Location) (time.Time, error)
	Sunset(latitude, longitude float64, date time.Time, loc *time.Location) (time.Time, error)
}

// Config holds the OpenWeather connection settings.
type Config struct {
	APIKey            string
	Endpoint          string
	ForecastEndpoint  string
	OneCallEndpoint   string
	Language          string
	RequestsPerMinute int
	// Location is the zone all returned times are expressed in.
	Location *time.Location
}

// ConfigFromSettings extracts the client configuration from settings.
func ConfigFromSettings(s *conf.Settings) Config {
	return Config{
		APIKey:            s.OpenWeather.APIKey,
		Endpoint:          s.OpenWeather.Endpoint,
		ForecastEndpoint:  s.OpenWeather.ForecastEndpoint,
		OneCallEndpoint:   s.OpenWeather.OneCallEndpoint,
		Language:          s.OpenWeather.Language,
		RequestsPerMinute: s.OpenWeather.RequestsPerMinute,
		Location:          s.Location(),
	}
}

// Client talks to the OpenWeather current, forecast and one call endpoints.
type Client struct {
	cfg     Config
	http    *httpclient.Client
	limiter *rate.Limiter
	metrics *metrics.WeatherMetrics
	log     logger.Logger
	sun     SunTimes
	lang    language.Tag
}

// Option customizes a Client.
type Option func(*Client)

// WithMetrics records fetch outcomes and provider status codes.
func WithMetrics(m *metrics.WeatherMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSunTimes enables computing missing sunrise and sunset values.
func WithSunTimes(s SunTimes) Option {
	return func(c *Client) { c.sun = s }
}

// NewClient creates an OpenWeather client on top of hc.
func NewClient(cfg Config, hc *httpclient.Client, opts ...Option) *Client {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if hc == nil {
		hc = httpclient.New(nil)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
		burst = max(1, cfg.RequestsPerMinute/10)
	}

	lang, err := language.Parse(cfg.Language)
	if err != nil {
		lang = language.English
	}

	c := &Client{
		cfg:     cfg,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		lang:    lang,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Global().Module("weather")
	}

	if c.metrics != nil {
		m := c.metrics
		hc.OnResponse(func(req *http.Request, resp *http.Response, err error, _ time.Duration) {
			code := "error"
			if err == nil && resp != nil {
				code = strconv.Itoa(resp.StatusCode)
			}
			m.RecordProviderRequest(req.URL.Host, code)
		})
	}
	return c
}

// currentResponse is the subset of /weather used by the dashboard
type currentResponse struct {
	Coord *struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

// forecastResponse is the subset of /forecast used by the dashboard
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Current fetches current conditions for q. A provider "404" yields an
// error wrapping ErrLocationNotFound.
func (c *Client) Current(ctx context.Context, q Query, units Units) (*Conditions, error) {
	if err := q.Validate(); err != nil {
		return nil, errors.New(err).
			Component("weather").
			Category(errors.CategoryValidation).
			Build()
	}

	start := time.Now()
	body, status, err := c.get(ctx, EndpointCurrent, c.cfg.Endpoint, q.values(), units)
	if err != nil {
		c.recordFetch(EndpointCurrent, metrics.StatusError, start)
		return nil, err
	}

	// The not-found envelope comes with HTTP 404, so decode before checking status.
	obj, jerr := jason.NewObjectFromBytes(body)
	code, _, hasCode := envelopeCode(obj)
	if code == "404" || (status == http.StatusNotFound && !hasCode) {
		c.recordFetch(EndpointCurrent, "not_found", start)
		c.log.Info("location not found", logger.String("query", q.String()))
		return nil, errors.New(fmt.Errorf("%w: %s", ErrLocationNotFound, q)).
			Component("weather").
			Category(errors.CategoryNotFound).
			Context("endpoint", EndpointCurrent).
			Build()
	}
	if status != http.StatusOK {
		c.recordFetch(EndpointCurrent, metrics.StatusError, start)
		return nil, c.statusError(EndpointCurrent, status, obj)
	}
	if jerr != nil {
		c.recordFetch(EndpointCurrent, metrics.StatusError, start)
		return nil, parseError(EndpointCurrent, jerr)
	}
	if hasCode && code != "200" {
		c.recordFetch(EndpointCurrent, metrics.StatusError, start)
		return nil, c.statusError(EndpointCurrent, status, obj)
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.recordFetch(EndpointCurrent, metrics.StatusError, start)
		return nil, parseError(EndpointCurrent, err)
	}
	if len(payload.Weather) == 0 {
		c.recordFetch(EndpointCurrent, metrics.StatusError, start)
		return nil, parseError(EndpointCurrent, fmt.Errorf("no weather conditions returned from API"))
	}

	cond := c.toConditions(&payload)
	c.recordFetch(EndpointCurrent, metrics.StatusSuccess, start)
	if c.metrics != nil {
		c.metrics.UpdateConditionGauges(string(units), cond.Temperature, float64(cond.Humidity),
			float64(cond.Pressure), cond.WindSpeed)
	}
	c.log.Debug("current conditions fetched",
		logger.String("city", cond.City),
		logger.String("condition", string(cond.Condition)),
		logger.Duration("elapsed", time.Since(start)))
	return cond, nil
}

func (c *Client) toConditions(p *currentResponse) *Conditions {
	loc := c.cfg.Location
	cond := &Conditions{
		City:        p.Name,
		Country:     p.Sys.Country,
		Temperature: p.Main.Temp,
		FeelsLike:   p.Main.FeelsLike,
		TempMin:     p.Main.TempMin,
		TempMax:     p.Main.TempMax,
		Humidity:    p.Main.Humidity,
		Pressure:    p.Main.Pressure,
		WindSpeed:   p.Wind.Speed,
		WindDeg:     p.Wind.Deg,
		Visibility:  p.Visibility,
		Condition:   Condition(p.Weather[0].Main),
		Description: cases.Title(c.lang).String(p.Weather[0].Description),
	}
	if p.Dt > 0 {
		cond.ObservedAt = time.Unix(p.Dt, 0).In(loc)
	}
	if p.Coord != nil {
		cond.Coordinates = &Coordinates{Latitude: p.Coord.Lat, Longitude: p.Coord.Lon}
	}
	if p.Sys.Sunrise > 0 {
		cond.Sunrise = time.Unix(p.Sys.Sunrise, 0).In(loc)
	}
	if p.Sys.Sunset > 0 {
		cond.Sunset = time.Unix(p.Sys.Sunset, 0).In(loc)
	}
	c.fillSunTimes(cond)
	return cond
}

// fillSunTimes computes sunrise and sunset when the provider left them out.
func (c *Client) fillSunTimes(cond *Conditions) {
	if c.sun == nil || cond.Coordinates == nil || (!cond.Sunrise.IsZero() && !cond.Sunset.IsZero()) {
		return
	}
	date := cond.ObservedAt
	if date.IsZero() {
		date = time.Now().In(c.cfg.Location)
	}
	lat, lon := cond.Coordinates.Latitude, cond.Coordinates.Longitude
	if cond.Sunrise.IsZero() {
		if t, err := c.sun.Sunrise(lat, lon, date, c.cfg.Location); err == nil {
			cond.Sunrise = t
		} else {
			c.log.Debug("sunrise fallback failed", logger.Error(err))
		}
	}
	if cond.Sunset.IsZero() {
		if t, err := c.sun.Sunset(lat, lon, date, c.cfg.Location); err == nil {
			cond.Sunset = t
		} else {
			c.log.Debug("sunset fallback failed", logger.Error(err))
		}
	}
}

// Forecast fetches the three-hourly forecast for q. Anything other than a
// "200" string code is reported as ErrForecastUnavailable.
func (c *Client) Forecast(ctx context.Context, q Query, units Units) ([]ForecastSample, error) {
	if err := q.Validate(); err != nil {
		return nil, errors.New(err).
			Component("weather").
			Category(errors.CategoryValidation).
			Build()
	}

	start := time.Now()
	body, _, err := c.get(ctx, EndpointForecast, c.cfg.ForecastEndpoint, q.values(), units)
	if err != nil {
		c.recordFetch(EndpointForecast, metrics.StatusError, start)
		return nil, err
	}

	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		c.recordFetch(EndpointForecast, metrics.StatusError, start)
		return nil, parseError(EndpointForecast, err)
	}
	if code, isString, _ := envelopeCode(obj); !isString || code != "200" {
		c.recordFetch(EndpointForecast, metrics.StatusError, start)
		return nil, errors.New(fmt.Errorf("%w: cod=%q", ErrForecastUnavailable, code)).
			Component("weather").
			Category(errors.CategoryHTTP).
			Context("endpoint", EndpointForecast).
			Build()
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.recordFetch(EndpointForecast, metrics.StatusError, start)
		return nil, parseError(EndpointForecast, err)
	}

	samples := make([]ForecastSample, 0, len(payload.List))
	for i := range payload.List {
		item := &payload.List[i]
		s := ForecastSample{
			Time:        time.Unix(item.Dt, 0).In(c.cfg.Location),
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			s.Condition = Condition(item.Weather[0].Main)
			s.Description = item.Weather[0].Description
		}
		samples = append(samples, s)
	}

	c.recordFetch(EndpointForecast, metrics.StatusSuccess, start)
	return samples, nil
}

// Alerts fetches active alerts at coords. A missing or empty list yields nil.
func (c *Client) Alerts(ctx context.Context, coords Coordinates, units Units) ([]Alert, error) {
	if !coords.Valid() {
		return nil, errors.New(fmt.Errorf("%w: %s", ErrInvalidCoordinates, coords)).
			Component("weather").
			Category(errors.CategoryValidation).
			Build()
	}

	params := CoordinatesQuery(coords.Latitude, coords.Longitude).values()
	params.Set("exclude", alertsExclude)

	start := time.Now()
	body, status, err := c.get(ctx, EndpointAlerts, c.cfg.OneCallEndpoint, params, units)
	if err != nil {
		c.recordFetch(EndpointAlerts, metrics.StatusError, start)
		return nil, err
	}

	obj, jerr := jason.NewObjectFromBytes(body)
	if status != http.StatusOK {
		c.recordFetch(EndpointAlerts, metrics.StatusError, start)
		return nil, c.statusError(EndpointAlerts, status, obj)
	}
	if jerr != nil {
		c.recordFetch(EndpointAlerts, metrics.StatusError, start)
		return nil, parseError(EndpointAlerts, jerr)
	}

	items, err := obj.GetObjectArray("alerts")
	if err != nil || len(items) == 0 {
		c.recordFetch(EndpointAlerts, metrics.StatusSuccess, start)
		return nil, nil
	}

	alerts := make([]Alert, 0, len(items))
	for _, item := range items {
		a := Alert{}
		a.Event, _ = item.GetString("event")
		a.Description, _ = item.GetString("description")
		a.Sender, _ = item.GetString("sender_name")
		if s, err := item.GetInt64("start"); err == nil {
			a.Start = time.Unix(s, 0).In(c.cfg.Location)
		}
		if e, err := item.GetInt64("end"); err == nil {
			a.End = time.Unix(e, 0).In(c.cfg.Location)
		}
		alerts = append(alerts, a)
	}

	c.recordFetch(EndpointAlerts, metrics.StatusSuccess, start)
	return alerts, nil
}

// get waits for the limiter, performs the request and returns the body.
func (c *Client) get(ctx context.Context, name, endpoint string, params url.Values, units Units) ([]byte, int, error) {
	if c.cfg.APIKey == "" {
		return nil, 0, errors.New(ErrMissingAPIKey).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if units == "" {
		units = UnitsMetric
	}

	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, errors.New(fmt.Errorf("rate limiter wait: %w", err)).
			Component("weather").
			Category(errors.CategoryLimit).
			Context("endpoint", name).
			Build()
	}
	if c.metrics != nil {
		c.metrics.RecordRateLimitWait(time.Since(waitStart).Seconds())
	}

	params.Set("appid", c.cfg.APIKey)
	params.Set("units", string(units))
	if c.cfg.Language != "" {
		params.Set("lang", c.cfg.Language)
	}

	resp, err := c.http.Get(ctx, endpoint, params)
	if err != nil {
		return nil, 0, errors.New(fmt.Errorf("error fetching %s data: %w", name, scrubKey(err, c.cfg.APIKey))).
			Component("weather").
			Category(errors.CategoryNetwork).
			Context("endpoint", name).
			NetworkContext(endpoint, c.http.Timeout()).
			Build()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, errors.New(fmt.Errorf("error reading response body: %w", err)).
			Component("weather").
			Category(errors.CategoryNetwork).
			Context("endpoint", name).
			Build()
	}
	return body, resp.StatusCode, nil
}

func (c *Client) statusError(name string, status int, obj *jason.Object) error {
	msg := ""
	if obj != nil {
		msg, _ = obj.GetString("message")
	}
	return errors.New(fmt.Errorf("received non-200 response: %d %s", status, msg)).
		Component("weather").
		Category(errors.CategoryHTTP).
		Context("endpoint", name).
		Context("status_code", status).
		Build()
}

func (c *Client) recordFetch(endpoint, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordFetch(endpoint, status, time.Since(start).Seconds())
	}
}

func parseError(name string, err error) error {
	return errors.New(fmt.Errorf("error decoding %s response: %w", name, err)).
		Component("weather").
		Category(errors.CategoryFileParsing).
		Context("endpoint", name).
		Build()
}

// envelopeCode reads the "cod" field, which the provider sends as a string
// on some endpoints and a number on others.
func envelopeCode(obj *jason.Object) (code string, isString, present bool) {
	if obj == nil {
		return "", false, false
	}
	v, err := obj.GetValue("cod")
	if err != nil {
		return "", false, false
	}
	if s, err := v.String(); err == nil {
		return s, true, true
	}
	if n, err := v.Number(); err == nil {
		return n.String(), false, true
	}
	return "", false, true
}

// scrubKey removes the API key from transport errors, which embed the URL.
func scrubKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.NewStd(strings.ReplaceAll(err.Error(), key, "***"))
}
