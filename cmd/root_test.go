package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/skydash/internal/buildinfo"
	"github.com/tphakala/skydash/internal/conf"
)

func validSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Main.Timezone = "UTC"
	s.Main.Locale = "en"
	s.WebServer.Port = "8080"
	s.OpenWeather.Endpoint = "https://api.openweathermap.org/data/2.5/weather"
	s.OpenWeather.ForecastEndpoint = "https://api.openweathermap.org/data/2.5/forecast"
	s.OpenWeather.OneCallEndpoint = "https://api.openweathermap.org/data/3.0/onecall"
	s.OpenWeather.RequestsPerMinute = 60
	s.OpenWeather.Timeout = 10 * time.Second
	s.Dashboard.DefaultUnits = "metric"
	s.Dashboard.DefaultTheme = "light"
	s.Dashboard.ReferenceHour = 12
	s.Dashboard.DailyDays = 5
	s.Dashboard.HourlySamples = 8
	s.Dashboard.MapZoom = 10
	s.Preferences.Driver = "sqlite"
	s.Preferences.Path = "skydash.db"
	return s
}

func TestRootCommandTree(t *testing.T) {
	s := validSettings()
	root := RootCommand(s, &buildinfo.Context{Version: "1.2.3"})

	assert.Equal(t, "1.2.3", root.Version)
	assert.Equal(t, "en", s.Main.Locale)
	assert.Equal(t, "metric", s.Dashboard.DefaultUnits)
	for _, name := range []string{"serve", "report", "config"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"debug", "locale", "timezone", "units"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestPersistentFlagsWriteSettings(t *testing.T) {
	s := validSettings()
	root := RootCommand(s, nil)

	require.NoError(t, root.PersistentFlags().Parse([]string{"--units", "imperial", "--locale", "fi", "-d"}))
	assert.Equal(t, "imperial", s.Dashboard.DefaultUnits)
	assert.Equal(t, "fi", s.Main.Locale)
	assert.True(t, s.Debug)
}

func TestInitialize(t *testing.T) {
	s := validSettings()
	s.Main.Locale = " FI "
	s.Dashboard.DefaultUnits = "Imperial"
	require.NoError(t, initialize(s))
	assert.Equal(t, "fi", s.Main.Locale)
	assert.Equal(t, "imperial", s.Dashboard.DefaultUnits)

	s.Dashboard.DefaultUnits = "kelvin"
	require.Error(t, initialize(s))
}
