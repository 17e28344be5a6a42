// Package conf loads and validates skydash settings.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings holds application-wide settings.
type MainSettings struct {
	Name     string `yaml:"name"`     // instance name shown in the page title
	Locale   string `yaml:"locale"`   // language for month and weekday names
	Timezone string `yaml:"timezone"` // "Local" or an IANA zone name, used for all displayed times
}

// WebServerSettings configures the dashboard HTTP server.
type WebServerSettings struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`    // listen address, empty for all interfaces
	Port    string `yaml:"port"`    // listen port
	AutoTLS bool   `yaml:"autotls"` // obtain certificates with ACME, requires Host
	Metrics bool   `yaml:"metrics"` // expose /metrics
	Debug   bool   `yaml:"debug"`
}

// OpenWeatherSettings configures the OpenWeather client.
type OpenWeatherSettings struct {
	APIKey            string        `yaml:"apikey"`
	Endpoint          string        `yaml:"endpoint"`         // current weather
	ForecastEndpoint  string        `yaml:"forecastendpoint"` // 5 day / 3 hour forecast
	OneCallEndpoint   string        `yaml:"onecallendpoint"`  // alerts
	Language          string        `yaml:"language"`         // lang= parameter for descriptions
	RequestsPerMinute int           `yaml:"requestsperminute"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DashboardSettings controls data shaping and defaults.
type DashboardSettings struct {
	DefaultCity   string        `yaml:"defaultcity"`   // fetched on startup when set
	DefaultUnits  string        `yaml:"defaultunits"`  // used until the user picks units
	DefaultTheme  string        `yaml:"defaulttheme"`  // used until the user toggles the theme
	ReferenceHour int           `yaml:"referencehour"` // local hour used for daily cards
	DailyDays     int           `yaml:"dailydays"`     // number of daily cards
	HourlySamples int           `yaml:"hourlysamples"` // number of samples in the chart
	MapZoom       int           `yaml:"mapzoom"`
	NoticeTTL     time.Duration `yaml:"noticettl"` // how long unread notices are kept
	Seed          uint64        `yaml:"seed"`      // background randomness seed, 0 for time based
}

// PreferencesSettings selects the preference store.
type PreferencesSettings struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	Path   string `yaml:"path"`   // sqlite database file
	DSN    string `yaml:"dsn"`    // mysql data source name
	Debug  bool   `yaml:"debug"`
}

// TelemetrySettings configures Sentry error reporting.
type TelemetrySettings struct {
	Enabled     bool   `yaml:"enabled"`
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// MQTTSettings configures publishing of current conditions.
type MQTTSettings struct {
	Enabled  bool          `yaml:"enabled"`
	Broker   string        `yaml:"broker"` // e.g. tcp://localhost:1883
	Topic    string        `yaml:"topic"`
	ClientID string        `yaml:"clientid"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Retain   bool          `yaml:"retain"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AlertPushSettings configures forwarding of weather alerts via shoutrrr.
type AlertPushSettings struct {
	Enabled bool          `yaml:"enabled"`
	URLs    []string      `yaml:"urls"` // shoutrrr service URLs
	Timeout time.Duration `yaml:"timeout"`
	Dedupe  time.Duration `yaml:"dedupe"` // window during which an alert is pushed once
}

// Settings contains all configuration options.
type Settings struct {
	Debug       bool                 `yaml:"debug"`
	Main        MainSettings         `yaml:"main"`
	WebServer   WebServerSettings    `yaml:"webserver"`
	OpenWeather OpenWeatherSettings  `yaml:"openweather"`
	Dashboard   DashboardSettings    `yaml:"dashboard"`
	Preferences PreferencesSettings  `yaml:"preferences"`
	Logging     logger.LoggingConfig `yaml:"logging"`
	Telemetry   TelemetrySettings    `yaml:"telemetry"`
	MQTT        MQTTSettings         `yaml:"mqtt"`
	AlertPush   AlertPushSettings    `yaml:"alertpush"`
}

// viperMu serializes Load, which drives the package-level viper instance.
var viperMu sync.Mutex

// Load reads the configuration file and environment variables. When
// configFile is empty the default config paths are searched and a default
// config is written if none exists.
func Load(configFile string) (*Settings, error) {
	viperMu.Lock()
	defer viperMu.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal_config").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

func initViper(configFile string) error {
	viper.SetConfigType("yaml")
	setDefaultConfig()
	configureEnvironment()

	if err := bindEnvVars(); err != nil {
		// Bad environment values are reported but do not stop startup;
		// validation catches anything that would break the app.
		logger.Global().Module("conf").Warn("environment variable issues", logger.Error(err))
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
				Category(errors.CategoryConfiguration).
				Context("operation", "read_config").
				Build()
		}
		return nil
	}

	viper.SetConfigName("config")
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(configPaths[0])
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Category(errors.CategoryConfiguration).
			Context("operation", "read_config").
			Build()
	}

	return nil
}

// createDefaultConfig writes the embedded default config into dir and reads it.
func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(fmt.Errorf("error creating directories for config file: %w", err)).
			Category(errors.CategoryFileIO).
			Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.New(fmt.Errorf("error writing default config file: %w", err)).
			Category(errors.CategoryFileIO).
			Build()
	}

	logger.Global().Module("conf").Info("created default config file", logger.String("path", configPath))
	viper.SetConfigFile(configPath)
	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the directories searched for config.yaml,
// in priority order. The first entry is where a default config is created.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get_home_directory").
			Build()
	}

	return []string{
		filepath.Join(homeDir, ".config", "skydash"),
		".",
		"/etc/skydash",
	}, nil
}

// Location resolves Main.Timezone.
func (s *Settings) Location() *time.Location {
	switch s.Main.Timezone {
	case "", "Local":
		return time.Local
	}
	loc, err := time.LoadLocation(s.Main.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
