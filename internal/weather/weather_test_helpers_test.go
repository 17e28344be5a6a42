package weather

import (
	"strconv"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/tphakala/skydash/internal/httpclient"
	"github.com/tphakala/skydash/internal/logger"
)

const (
	testCurrentURL  = "https://api.openweathermap.org/data/2.5/weather"
	testForecastURL = "https://api.openweathermap.org/data/2.5/forecast"
	testOneCallURL  = "https://api.openweathermap.org/data/3.0/onecall"
)

// newTestClient returns a client wired to a private mock transport.
func newTestClient(t *testing.T, opts ...Option) (*Client, *httpmock.MockTransport) {
	t.Helper()

	mt := httpmock.NewMockTransport()
	hc := httpclient.New(&httpclient.Config{Transport: mt})
	t.Cleanup(hc.Close)

	cfg := Config{
		APIKey:           "test-api-key",
		Endpoint:         testCurrentURL,
		ForecastEndpoint: testForecastURL,
		OneCallEndpoint:  testOneCallURL,
		Language:         "en",
		Location:         time.UTC,
	}
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return NewClient(cfg, hc, opts...), mt
}

func openWeatherSuccessResponse() string {
	return `{
  "coord": { "lon": -0.1257, "lat": 51.5085 },
  "weather": [ { "id": 500, "main": "Rain", "description": "light rain", "icon": "10d" } ],
  "main": { "temp": 14.55, "feels_like": 13.88, "temp_min": 13.33, "temp_max": 15.65, "pressure": 1014, "humidity": 72 },
  "visibility": 10000,
  "wind": { "speed": 4.12, "deg": 240 },
  "clouds": { "all": 75 },
  "dt": 1736769600,
  "sys": { "country": "GB", "sunrise": 1736755200, "sunset": 1736784000 },
  "name": "London",
  "cod": 200
}`
}

func openWeatherNotFoundResponse() string {
	return `{"cod":"404","message":"city not found"}`
}

// forecastResponseJSON builds a forecast body with the given dt values.
func forecastResponseJSON(cod string, dts ...int64) string {
	body := `{"cod":` + cod + `,"cnt":` + itoa(int64(len(dts))) + `,"list":[`
	for i, dt := range dts {
		if i > 0 {
			body += ","
		}
		body += `{"dt":` + itoa(dt) + `,"main":{"temp":` + itoa(int64(10+i)) + `.5},"weather":[{"main":"Clouds","description":"overcast clouds"}]}`
	}
	return body + `]}`
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// fakeSun returns fixed times for the sun fallback.
type fakeSun struct {
	sunrise, sunset time.Time
	calls           int
}

func (f *fakeSun) Sunrise(_, _ float64, _ time.Time, _ *time.Location) (time.Time, error) {
	f.calls++
	return f.sunrise, nil
}

func (f *fakeSun) Sunset(_, _ float64, _ time.Time, _ *time.Location) (time.Time, error) {
	f.calls++
	return f.sunset, nil
}
