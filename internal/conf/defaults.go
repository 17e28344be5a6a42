// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SkyDash")
	viper.SetDefault("main.locale", "en")
	viper.SetDefault("main.timezone", "Local")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.host", "")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.autotls", false)
	viper.SetDefault("webserver.metrics", true)
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("openweather.apikey", "")
	viper.SetDefault("openweather.endpoint", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("openweather.forecastendpoint", "https://api.openweathermap.org/data/2.5/forecast")
	viper.SetDefault("openweather.onecallendpoint", "https://api.openweathermap.org/data/3.0/onecall")
	viper.SetDefault("openweather.language", "en")
	viper.SetDefault("openweather.requestsperminute", 60)
	viper.SetDefault("openweather.timeout", 10*time.Second)

	viper.SetDefault("dashboard.defaultcity", "")
	viper.SetDefault("dashboard.defaultunits", "metric")
	viper.SetDefault("dashboard.defaulttheme", "light")
	viper.SetDefault("dashboard.referencehour", 12)
	viper.SetDefault("dashboard.dailydays", 5)
	viper.SetDefault("dashboard.hourlysamples", 8)
	viper.SetDefault("dashboard.mapzoom", 10)
	viper.SetDefault("dashboard.noticettl", 5*time.Minute)
	viper.SetDefault("dashboard.seed", 0)

	viper.SetDefault("preferences.driver", "sqlite")
	viper.SetDefault("preferences.path", "skydash.db")
	viper.SetDefault("preferences.dsn", "")
	viper.SetDefault("preferences.debug", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.console.color", false)
	viper.SetDefault("logging.fileoutput.enabled", false)
	viper.SetDefault("logging.fileoutput.path", "logs/skydash.log")
	viper.SetDefault("logging.fileoutput.level", "info")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.dsn", "")
	viper.SetDefault("telemetry.environment", "production")

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "skydash/current")
	viper.SetDefault("mqtt.clientid", "skydash")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.retain", true)
	viper.SetDefault("mqtt.timeout", 5*time.Second)

	viper.SetDefault("alertpush.enabled", false)
	viper.SetDefault("alertpush.urls", []string{})
	viper.SetDefault("alertpush.timeout", 10*time.Second)
	viper.SetDefault("alertpush.dedupe", 24*time.Hour)
}
