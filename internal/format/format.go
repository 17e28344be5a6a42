// Package format turns weather values into display strings.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tphakala/skydash/internal/weather"
)

var compass = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Clock formats t as zero padded HH:MM. The zero time renders as "--:--".
func Clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// HourLabel formats t as HH:00.
func HourLabel(t time.Time) string {
	return fmt.Sprintf("%02d:00", t.Hour())
}

// DateTime formats t for alert windows.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// WindDirection maps degrees to the nearest 8-point compass sector.
func WindDirection(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return compass[0]
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return compass[int(math.Round(deg/45))%8]
}

// Visibility converts meters to kilometers without rounding.
func Visibility(meters int) string {
	return strconv.FormatFloat(float64(meters)/1000, 'f', -1, 64)
}

// round rounds half up, so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Temperature rounds v and appends the unit suffix.
func Temperature(v float64, units weather.Units) string {
	return degrees(round(v), units)
}

// Min floors v and appends the unit suffix.
func Min(v float64, units weather.Units) string {
	return degrees(int(math.Floor(v)), units)
}

// Max ceils v and appends the unit suffix.
func Max(v float64, units weather.Units) string {
	return degrees(int(math.Ceil(v)), units)
}

// FeelsLike shows v as received.
func FeelsLike(v float64, units weather.Units) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°" + units.TemperatureSymbol()
}

// WindSpeed shows v as received with the unit.
func WindSpeed(v float64, units weather.Units) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units.WindSpeedUnit()
}

// Pressure appends the millibar suffix.
func Pressure(hpa int) string {
	return strconv.Itoa(hpa) + " mb"
}

// Humidity appends a percent sign.
func Humidity(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// TickSuffix is the chart axis suffix for units.
func TickSuffix(units weather.Units) string {
	return "°" + units.TemperatureSymbol()
}

func degrees(v int, units weather.Units) string {
	return strconv.Itoa(v) + "°" + units.TemperatureSymbol()
}
