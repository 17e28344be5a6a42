package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WeatherMetrics contains Prometheus metrics for weather provider calls
type WeatherMetrics struct {
	fetchesTotal          *prometheus.CounterVec
	fetchDuration         *prometheus.HistogramVec
	providerRequestsTotal *prometheus.CounterVec
	rateLimitWaitDuration prometheus.Histogram

	temperatureGauge *prometheus.GaugeVec
	humidityGauge    *prometheus.GaugeVec
	pressureGauge    *prometheus.GaugeVec
	windSpeedGauge   *prometheus.GaugeVec
}

// NewWeatherMetrics creates and registers weather metrics
func NewWeatherMetrics(registry prometheus.Registerer) (*WeatherMetrics, error) {
	m := &WeatherMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *WeatherMetrics) initMetrics() {
	m.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetches_total",
			Help: "Total number of weather fetch operations by endpoint and result",
		},
		[]string{"endpoint", "status"}, // status: success, not_found, error
	)

	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "weather_fetch_duration_seconds",
			Help: "Time taken to fetch and decode weather data",
			// 50ms to ~25s
			Buckets: prometheus.ExponentialBuckets(BucketStart50ms, BucketFactor2, BucketCount10),
		},
		[]string{"endpoint"},
	)

	m.providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_provider_requests_total",
			Help: "Total number of HTTP requests to the weather provider by status code",
		},
		[]string{"host", "status_code"},
	)

	m.rateLimitWaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_rate_limit_wait_seconds",
		Help:    "Time spent waiting for the outbound rate limiter",
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
	})

	m.temperatureGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "weather_temperature",
		Help: "Last fetched temperature in the requested units",
	}, []string{"units"})
	m.humidityGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "weather_humidity_percentage",
		Help: "Last fetched relative humidity",
	}, []string{"units"})
	m.pressureGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "weather_pressure_hpa",
		Help: "Last fetched pressure in hPa",
	}, []string{"units"})
	m.windSpeedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "weather_wind_speed",
		Help: "Last fetched wind speed in the requested units",
	}, []string{"units"})
}

// Describe implements the Collector interface
func (m *WeatherMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetchesTotal.Describe(ch)
	m.fetchDuration.Describe(ch)
	m.providerRequestsTotal.Describe(ch)
	m.rateLimitWaitDuration.Describe(ch)
	m.temperatureGauge.Describe(ch)
	m.humidityGauge.Describe(ch)
	m.pressureGauge.Describe(ch)
	m.windSpeedGauge.Describe(ch)
}

// Collect implements the Collector interface
func (m *WeatherMetrics) Collect(ch chan<- prometheus.Metric) {
	m.fetchesTotal.Collect(ch)
	m.fetchDuration.Collect(ch)
	m.providerRequestsTotal.Collect(ch)
	m.rateLimitWaitDuration.Collect(ch)
	m.temperatureGauge.Collect(ch)
	m.humidityGauge.Collect(ch)
	m.pressureGauge.Collect(ch)
	m.windSpeedGauge.Collect(ch)
}

// RecordFetch records the result of one endpoint call
func (m *WeatherMetrics) RecordFetch(endpoint, status string, seconds float64) {
	m.fetchesTotal.WithLabelValues(endpoint, status).Inc()
	m.fetchDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordProviderRequest records an HTTP response status from the provider
func (m *WeatherMetrics) RecordProviderRequest(host, statusCode string) {
	m.providerRequestsTotal.WithLabelValues(host, statusCode).Inc()
}

// RecordRateLimitWait records time spent blocked on the limiter
func (m *WeatherMetrics) RecordRateLimitWait(seconds float64) {
	m.rateLimitWaitDuration.Observe(seconds)
}

// UpdateConditionGauges stores the latest observed values
func (m *WeatherMetrics) UpdateConditionGauges(units string, temperature, humidity, pressure, windSpeed float64) {
	m.temperatureGauge.WithLabelValues(units).Set(temperature)
	m.humidityGauge.WithLabelValues(units).Set(humidity)
	m.pressureGauge.WithLabelValues(units).Set(pressure)
	m.windSpeedGauge.WithLabelValues(units).Set(windSpeed)
}
