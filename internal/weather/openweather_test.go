package weather

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/observability/metrics"
)

func TestClient_Current_Success(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	var gotQuery map[string][]string
	mt.RegisterResponder(http.MethodGet, testCurrentURL, func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query()
		return httpmock.NewStringResponse(http.StatusOK, openWeatherSuccessResponse()), nil
	})

	cond, err := c.Current(t.Context(), CityQuery("London"), UnitsImperial)
	require.NoError(t, err)

	assert.Equal(t, []string{"London"}, gotQuery["q"])
	assert.Equal(t, []string{"test-api-key"}, gotQuery["appid"])
	assert.Equal(t, []string{"imperial"}, gotQuery["units"])
	assert.Equal(t, []string{"en"}, gotQuery["lang"])
	assert.NotContains(t, gotQuery, "lat")

	assert.Equal(t, "London", cond.City)
	assert.Equal(t, "GB", cond.Country)
	assert.Equal(t, ConditionRain, cond.Condition)
	assert.Equal(t, "Light Rain", cond.Description)
	assert.InDelta(t, 14.55, cond.Temperature, 0.001)
	assert.InDelta(t, 13.88, cond.FeelsLike, 0.001)
	assert.InDelta(t, 13.33, cond.TempMin, 0.001)
	assert.InDelta(t, 15.65, cond.TempMax, 0.001)
	assert.Equal(t, 72, cond.Humidity)
	assert.Equal(t, 1014, cond.Pressure)
	assert.InDelta(t, 4.12, cond.WindSpeed, 0.001)
	assert.InDelta(t, 240, cond.WindDeg, 0.001)
	assert.Equal(t, 10000, cond.Visibility)
	require.NotNil(t, cond.Coordinates)
	assert.InDelta(t, 51.5085, cond.Coordinates.Latitude, 0.0001)
	assert.Equal(t, time.Unix(1736755200, 0).UTC(), cond.Sunrise)
	assert.Equal(t, time.Unix(1736784000, 0).UTC(), cond.Sunset)
	assert.Equal(t, time.UTC, cond.Sunrise.Location())
}

func TestClient_Current_ByCoordinates(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	var gotQuery map[string][]string
	mt.RegisterResponder(http.MethodGet, testCurrentURL, func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query()
		return httpmock.NewStringResponse(http.StatusOK, openWeatherSuccessResponse()), nil
	})

	_, err := c.Current(t.Context(), CoordinatesQuery(60.1699, 24.9384), UnitsMetric)
	require.NoError(t, err)

	assert.Equal(t, []string{"60.1699"}, gotQuery["lat"])
	assert.Equal(t, []string{"24.9384"}, gotQuery["lon"])
	assert.Equal(t, []string{"metric"}, gotQuery["units"])
	assert.NotContains(t, gotQuery, "q")
}

func TestClient_Current_NotFound(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testCurrentURL,
		httpmock.NewStringResponder(http.StatusNotFound, openWeatherNotFoundResponse()))

	cond, err := c.Current(t.Context(), CityQuery("InvalidCity123"), UnitsMetric)

	require.Error(t, err)
	assert.Nil(t, cond)
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.True(t, errors.IsNotFound(err))
}

func TestClient_Current_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"cod": 401, "message": "Invalid API key"}`},
		{"internal_server_error", http.StatusInternalServerError, `oops`},
		{"service_unavailable", http.StatusServiceUnavailable, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, mt := newTestClient(t)
			mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(tt.statusCode, tt.body))

			cond, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)

			require.Error(t, err)
			assert.Nil(t, cond)
			assert.NotErrorIs(t, err, ErrLocationNotFound)
			assert.True(t, errors.IsCategory(err, errors.CategoryHTTP))
		})
	}
}

func TestClient_Current_InvalidJSON(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(http.StatusOK, `{invalid json`))

	cond, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)

	require.Error(t, err)
	assert.Nil(t, cond)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestClient_Current_EmptyWeatherArray(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(http.StatusOK,
		`{"cod":200,"name":"London","weather":[],"main":{"temp":10}}`))

	cond, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)

	require.Error(t, err)
	assert.Nil(t, cond)
	assert.Contains(t, err.Error(), "no weather conditions")
}

func TestClient_Current_NoAPIKey(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	c.cfg.APIKey = ""

	cond, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)

	require.Error(t, err)
	assert.Nil(t, cond)
	assert.Contains(t, err.Error(), "API key not configured")
	assert.Zero(t, mt.GetTotalCallCount())
}

func TestClient_Current_InvalidQueryMakesNoCall(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)

	_, err := c.Current(t.Context(), Query{}, UnitsMetric)
	require.ErrorIs(t, err, ErrEmptyQuery)

	_, err = c.Current(t.Context(), Query{City: "Paris", Coordinates: &Coordinates{}}, UnitsMetric)
	require.ErrorIs(t, err, ErrAmbiguousQuery)

	assert.Zero(t, mt.GetTotalCallCount())
}

func TestClient_Current_TransportErrorHidesKey(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewErrorResponder(errors.NewStd("connection refused")))

	_, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
	assert.NotContains(t, err.Error(), "test-api-key")
}

func TestClient_Current_SunFallback(t *testing.T) {
	t.Parallel()

	sun := &fakeSun{
		sunrise: time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC),
		sunset:  time.Date(2025, 1, 13, 16, 10, 0, 0, time.UTC),
	}
	c, mt := newTestClient(t, WithSunTimes(sun))
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(http.StatusOK,
		`{"cod":200,"name":"London","coord":{"lat":51.5,"lon":-0.12},"dt":1736769600,
		  "weather":[{"main":"Clear","description":"clear sky"}],"sys":{"country":"GB"}}`))

	cond, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)
	require.NoError(t, err)

	assert.Equal(t, 2, sun.calls)
	assert.Equal(t, sun.sunrise, cond.Sunrise)
	assert.Equal(t, sun.sunset, cond.Sunset)
}

func TestClient_Current_NoCoordinates(t *testing.T) {
	t.Parallel()

	sun := &fakeSun{}
	c, mt := newTestClient(t, WithSunTimes(sun))
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(http.StatusOK,
		`{"cod":200,"name":"Atlantis","weather":[{"main":"Mist","description":"mist"}],"sys":{}}`))

	cond, err := c.Current(t.Context(), CityQuery("Atlantis"), UnitsMetric)
	require.NoError(t, err)

	assert.Nil(t, cond.Coordinates)
	assert.Zero(t, sun.calls)
}

func TestClient_Forecast_Success(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testForecastURL,
		httpmock.NewStringResponder(http.StatusOK, forecastResponseJSON(`"200"`, 1736769600, 1736780400, 1736791200)))

	samples, err := c.Forecast(t.Context(), CityQuery("London"), UnitsMetric)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, time.Unix(1736769600, 0).UTC(), samples[0].Time)
	assert.InDelta(t, 10.5, samples[0].Temperature, 0.001)
	assert.InDelta(t, 12.5, samples[2].Temperature, 0.001)
	assert.Equal(t, ConditionClouds, samples[1].Condition)
	assert.Equal(t, "overcast clouds", samples[1].Description)
}

func TestClient_Forecast_RequiresStringCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"numeric_200", forecastResponseJSON(`200`, 1736769600)},
		{"not_found", `{"cod":"404","message":"city not found"}`},
		{"missing_code", `{"list":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, mt := newTestClient(t)
			mt.RegisterResponder(http.MethodGet, testForecastURL, httpmock.NewStringResponder(http.StatusOK, tt.body))

			samples, err := c.Forecast(t.Context(), CityQuery("London"), UnitsMetric)
			require.ErrorIs(t, err, ErrForecastUnavailable)
			assert.Nil(t, samples)
		})
	}
}

func TestClient_Alerts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		wantErr bool
	}{
		{"missing_list", http.StatusOK, `{"lat":51.5,"lon":-0.12}`, 0, false},
		{"empty_list", http.StatusOK, `{"alerts":[]}`, 0, false},
		{"two_alerts", http.StatusOK, `{"alerts":[
			{"sender_name":"Met Office","event":"Wind warning","start":1736769600,"end":1736812800,"description":"Strong winds"},
			{"sender_name":"Met Office","event":"Rain warning","start":1736769600,"end":1736812800,"description":"Heavy rain"}]}`, 2, false},
		{"unauthorized", http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key"}`, 0, true},
		{"garbage", http.StatusOK, `<html>`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, mt := newTestClient(t)
			var gotQuery map[string][]string
			mt.RegisterResponder(http.MethodGet, testOneCallURL, func(req *http.Request) (*http.Response, error) {
				gotQuery = req.URL.Query()
				return httpmock.NewStringResponse(tt.status, tt.body), nil
			})

			alerts, err := c.Alerts(t.Context(), Coordinates{Latitude: 51.5, Longitude: -0.12}, UnitsMetric)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, alerts, tt.want)
			assert.Equal(t, []string{"current,minutely,hourly,daily"}, gotQuery["exclude"])
			assert.Equal(t, []string{"51.5"}, gotQuery["lat"])
		})
	}
}

func TestClient_Alerts_Fields(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testOneCallURL, httpmock.NewStringResponder(http.StatusOK,
		`{"alerts":[{"sender_name":"FMI","event":"Frost","start":1736769600,"end":1736812800,"description":"Night frost"}]}`))

	alerts, err := c.Alerts(t.Context(), Coordinates{Latitude: 60.17, Longitude: 24.94}, UnitsMetric)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, "Frost", a.Event)
	assert.Equal(t, "Night frost", a.Description)
	assert.Equal(t, "FMI", a.Sender)
	assert.Equal(t, time.Unix(1736769600, 0).UTC(), a.Start)
	assert.Equal(t, time.Unix(1736812800, 0).UTC(), a.End)
	assert.Equal(t, "FMI|Frost|1736769600", a.Key())
}

func TestClient_Alerts_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	_, err := c.Alerts(t.Context(), Coordinates{Latitude: 120, Longitude: 0}, UnitsMetric)
	require.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.Zero(t, mt.GetTotalCallCount())
}

func TestClient_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.NewWeatherMetrics(reg)
	require.NoError(t, err)

	c, mt := newTestClient(t, WithMetrics(m))
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(http.StatusOK, openWeatherSuccessResponse()))
	mt.RegisterResponder(http.MethodGet, testForecastURL, httpmock.NewStringResponder(http.StatusBadGateway, `bad gateway`))

	_, err = c.Current(t.Context(), CityQuery("London"), UnitsMetric)
	require.NoError(t, err)
	_, err = c.Forecast(t.Context(), CityQuery("London"), UnitsMetric)
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "weather_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "weather_provider_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	c, mt := newTestClient(t)
	c.limiter = rate.NewLimiter(rate.Limit(0.001), 1)
	mt.RegisterResponder(http.MethodGet, testCurrentURL, httpmock.NewStringResponder(http.StatusOK, openWeatherSuccessResponse()))

	_, err := c.Current(t.Context(), CityQuery("London"), UnitsMetric)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Current(ctx, CityQuery("London"), UnitsMetric)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLimit))
	assert.Equal(t, 1, mt.GetTotalCallCount())
}
