// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SKYDASH_WEBSERVER_PORT.
const EnvPrefix = "SKYDASH"

// envBinding holds metadata for explicit environment variable bindings
type envBinding struct {
	ConfigKey string
	EnvVar    string
	Validate  func(string) error
}

// getEnvBindings lists variables that are documented and validated. Any
// other key can still be overridden through the automatic prefix mapping.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"openweather.apikey", "OPENWEATHER_API_KEY", nil},
		{"openweather.apikey", "SKYDASH_OPENWEATHER_APIKEY", nil},
		{"webserver.port", "SKYDASH_WEBSERVER_PORT", validateEnvPort},
		{"dashboard.defaultcity", "SKYDASH_DASHBOARD_DEFAULTCITY", nil},
		{"dashboard.defaultunits", "SKYDASH_DASHBOARD_DEFAULTUNITS", validateEnvUnits},
		{"preferences.dsn", "SKYDASH_PREFERENCES_DSN", nil},
		{"telemetry.dsn", "SKYDASH_TELEMETRY_DSN", nil},
		{"mqtt.broker", "SKYDASH_MQTT_BROKER", validateEnvURL},
		{"mqtt.password", "SKYDASH_MQTT_PASSWORD", nil},
		{"debug", "SKYDASH_DEBUG", validateEnvBool},
	}
}

func configureEnvironment() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// bindEnvVars binds the explicit variables and reports invalid values
func bindEnvVars() error {
	var warnings []string

	// BindEnv replaces earlier bindings for the same key, so collect all
	// variable names per key first.
	byKey := map[string][]string{}
	var order []string
	for _, binding := range getEnvBindings() {
		if _, seen := byKey[binding.ConfigKey]; !seen {
			order = append(order, binding.ConfigKey)
		}
		byKey[binding.ConfigKey] = append(byKey[binding.ConfigKey], binding.EnvVar)

		if binding.Validate != nil {
			if value := os.Getenv(binding.EnvVar); value != "" {
				if err := binding.Validate(value); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid %s value %q: %v", binding.EnvVar, value, err))
				}
			}
		}
	}

	for _, key := range order {
		args := append([]string{key}, byKey[key]...)
		if err := viper.BindEnv(args...); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", key, err))
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true/false, 1/0, t/f")
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateEnvUnits(value string) error {
	switch value {
	case "metric", "imperial":
		return nil
	default:
		return fmt.Errorf("units must be metric or imperial")
	}
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("expected scheme://host[:port]")
	}
	return nil
}
