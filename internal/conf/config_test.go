package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	settings, err := Load(writeConfig(t, "main:\n  name: Test\n"))
	require.NoError(t, err)

	assert.Equal(t, "Test", settings.Main.Name)
	assert.Equal(t, "8080", settings.WebServer.Port)
	assert.Equal(t, 12, settings.Dashboard.ReferenceHour)
	assert.Equal(t, 5, settings.Dashboard.DailyDays)
	assert.Equal(t, 8, settings.Dashboard.HourlySamples)
	assert.Equal(t, "metric", settings.Dashboard.DefaultUnits)
	assert.Equal(t, 10*time.Second, settings.OpenWeather.Timeout)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/forecast", settings.OpenWeather.ForecastEndpoint)
	assert.Equal(t, "sqlite", settings.Preferences.Driver)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)
}

func TestLoadReadsFileValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	settings, err := Load(writeConfig(t, `
openweather:
  apikey: from-file
  timeout: 3s
dashboard:
  defaultcity: Helsinki
  defaultunits: imperial
alertpush:
  enabled: true
  urls:
    - ntfy://ntfy.sh/weather
`))
	require.NoError(t, err)

	assert.Equal(t, "from-file", settings.OpenWeather.APIKey)
	assert.Equal(t, 3*time.Second, settings.OpenWeather.Timeout)
	assert.Equal(t, "Helsinki", settings.Dashboard.DefaultCity)
	assert.Equal(t, "imperial", settings.Dashboard.DefaultUnits)
	assert.Equal(t, []string{"ntfy://ntfy.sh/weather"}, settings.AlertPush.URLs)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("OPENWEATHER_API_KEY", "from-env")
	t.Setenv("SKYDASH_WEBSERVER_PORT", "9090")

	settings, err := Load(writeConfig(t, "openweather:\n  apikey: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", settings.OpenWeather.APIKey)
	assert.Equal(t, "9090", settings.WebServer.Port)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load(writeConfig(t, "dashboard:\n  referencehour: 25\n  defaultunits: kelvin\n"))
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSaveYAMLConfigCanBeReloaded(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := writeConfig(t, "dashboard:\n  defaultcity: Oslo\n")
	settings, err := Load(path)
	require.NoError(t, err)

	settings.Dashboard.DefaultCity = "Bergen"
	require.NoError(t, SaveYAMLConfig(path, settings))

	viper.Reset()
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Bergen", reloaded.Dashboard.DefaultCity)
	assert.Equal(t, settings.OpenWeather.Timeout, reloaded.OpenWeather.Timeout)
}

func TestSettingsLocation(t *testing.T) {
	s := &Settings{Main: MainSettings{Timezone: "Europe/Helsinki"}}
	assert.Equal(t, "Europe/Helsinki", s.Location().String())

	s.Main.Timezone = "Local"
	assert.Equal(t, time.Local, s.Location())
}
