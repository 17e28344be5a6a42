// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	for _, validate := range []func(*Settings) []string{
		validateMainSettings,
		validateWebServerSettings,
		validateOpenWeatherSettings,
		validateDashboardSettings,
		validatePreferencesSettings,
		validateMQTTSettings,
		validateAlertPushSettings,
	} {
		ve.Errors = append(ve.Errors, validate(settings)...)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateMainSettings(s *Settings) []string {
	var errs []string
	switch s.Main.Timezone {
	case "", "Local":
	default:
		if _, err := time.LoadLocation(s.Main.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("main.timezone %q is not a valid time zone", s.Main.Timezone))
		}
	}
	return errs
}

func validateWebServerSettings(s *Settings) []string {
	var errs []string
	if !s.WebServer.Enabled {
		return nil
	}
	port, err := strconv.Atoi(s.WebServer.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("webserver.port %q must be a number between 1 and 65535", s.WebServer.Port))
	}
	if s.WebServer.AutoTLS && s.WebServer.Host == "" {
		errs = append(errs, "webserver.host is required when autotls is enabled")
	}
	return errs
}

func validateOpenWeatherSettings(s *Settings) []string {
	var errs []string
	ow := s.OpenWeather
	endpoints := []struct{ key, value string }{
		{"openweather.endpoint", ow.Endpoint},
		{"openweather.forecastendpoint", ow.ForecastEndpoint},
		{"openweather.onecallendpoint", ow.OneCallEndpoint},
	}
	for _, e := range endpoints {
		if !strings.HasPrefix(e.value, "http://") && !strings.HasPrefix(e.value, "https://") {
			errs = append(errs, fmt.Sprintf("%s must be an http(s) URL", e.key))
		}
	}
	if ow.RequestsPerMinute < 1 {
		errs = append(errs, "openweather.requestsperminute must be at least 1")
	}
	if ow.Timeout <= 0 {
		errs = append(errs, "openweather.timeout must be positive")
	}
	return errs
}

func validateDashboardSettings(s *Settings) []string {
	var errs []string
	d := s.Dashboard
	if d.DefaultUnits != "metric" && d.DefaultUnits != "imperial" {
		errs = append(errs, fmt.Sprintf("dashboard.defaultunits %q must be metric or imperial", d.DefaultUnits))
	}
	if d.DefaultTheme != "light" && d.DefaultTheme != "dark" {
		errs = append(errs, fmt.Sprintf("dashboard.defaulttheme %q must be light or dark", d.DefaultTheme))
	}
	if d.ReferenceHour < 0 || d.ReferenceHour > 23 {
		errs = append(errs, "dashboard.referencehour must be between 0 and 23")
	}
	if d.DailyDays < 1 {
		errs = append(errs, "dashboard.dailydays must be at least 1")
	}
	if d.HourlySamples < 1 {
		errs = append(errs, "dashboard.hourlysamples must be at least 1")
	}
	if d.MapZoom < 1 || d.MapZoom > 19 {
		errs = append(errs, "dashboard.mapzoom must be between 1 and 19")
	}
	return errs
}

func validatePreferencesSettings(s *Settings) []string {
	switch s.Preferences.Driver {
	case "sqlite":
		if s.Preferences.Path == "" {
			return []string{"preferences.path is required for the sqlite driver"}
		}
	case "mysql":
		if s.Preferences.DSN == "" {
			return []string{"preferences.dsn is required for the mysql driver"}
		}
	default:
		return []string{fmt.Sprintf("preferences.driver %q must be sqlite or mysql", s.Preferences.Driver)}
	}
	return nil
}

func validateMQTTSettings(s *Settings) []string {
	if !s.MQTT.Enabled {
		return nil
	}
	var errs []string
	if err := validateEnvURL(s.MQTT.Broker); err != nil {
		errs = append(errs, fmt.Sprintf("mqtt.broker: %v", err))
	}
	if s.MQTT.Topic == "" {
		errs = append(errs, "mqtt.topic is required when mqtt is enabled")
	}
	return errs
}

func validateAlertPushSettings(s *Settings) []string {
	if !s.AlertPush.Enabled {
		return nil
	}
	var errs []string
	if len(s.AlertPush.URLs) == 0 {
		errs = append(errs, "alertpush.urls must list at least one service URL")
	}
	for i, u := range s.AlertPush.URLs {
		if !strings.Contains(u, "://") {
			errs = append(errs, fmt.Sprintf("alertpush.urls[%d] is not a service URL", i))
		}
	}
	return errs
}
