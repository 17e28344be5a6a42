// Package weather holds the weather domain types and the OpenWeather client.
package weather

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/skydash/internal/errors"
)

// Sentinel errors returned by the client and query helpers.
var (
	ErrLocationNotFound    = errors.NewStd("location not found")
	ErrForecastUnavailable = errors.NewStd("forecast unavailable")
	ErrEmptyQuery          = errors.NewStd("query has neither city nor coordinates")
	ErrAmbiguousQuery      = errors.NewStd("query has both city and coordinates")
	ErrInvalidCoordinates  = errors.NewStd("coordinates out of range")
	ErrUnknownUnits        = errors.NewStd("unknown unit system")
	ErrMissingAPIKey       = errors.NewStd("OpenWeather API key not configured")
)

// Units selects the unit system sent to the provider and used for suffixes.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits accepts "metric" or "imperial" in any case.
func ParseUnits(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case UnitsMetric:
		return UnitsMetric, nil
	case UnitsImperial:
		return UnitsImperial, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnits, s)
}

// TemperatureSymbol returns C or F.
func (u Units) TemperatureSymbol() string {
	if u == UnitsImperial {
		return "F"
	}
	return "C"
}

// WindSpeedUnit returns m/s or mph.
func (u Units) WindSpeedUnit() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "m/s"
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether both components are finite and in range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// IsZero reports whether c is the zero pair, which the provider never resolves to a place.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Query addresses the provider by city name or by coordinates, never both.
type Query struct {
	City        string
	Coordinates *Coordinates
}

// CityQuery builds a query by city name.
func CityQuery(name string) Query {
	return Query{City: name}
}

// CoordinatesQuery builds a query by position.
func CoordinatesQuery(lat, lon float64) Query {
	return Query{Coordinates: &Coordinates{Latitude: lat, Longitude: lon}}
}

// IsCity reports whether the query is addressed by name.
func (q Query) IsCity() bool { return q.City != "" }

// HasCoordinates reports whether the query is addressed by position.
func (q Query) HasCoordinates() bool { return q.Coordinates != nil }

// Validate checks that exactly one addressing form is set.
func (q Query) Validate() error {
	switch {
	case q.IsCity() && q.HasCoordinates():
		return ErrAmbiguousQuery
	case q.IsCity():
		return nil
	case q.HasCoordinates():
		if !q.Coordinates.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidCoordinates, q.Coordinates)
		}
		return nil
	}
	return ErrEmptyQuery
}

// values returns the addressing parameters for a provider request.
func (q Query) values() url.Values {
	v := url.Values{}
	if q.IsCity() {
		v.Set("q", q.City)
		return v
	}
	if q.HasCoordinates() {
		v.Set("lat", strconv.FormatFloat(q.Coordinates.Latitude, 'f', -1, 64))
		v.Set("lon", strconv.FormatFloat(q.Coordinates.Longitude, 'f', -1, 64))
	}
	return v
}

func (q Query) String() string {
	if q.IsCity() {
		return q.City
	}
	if q.HasCoordinates() {
		return q.Coordinates.String()
	}
	return ""
}

// Conditions is one current-conditions snapshot.
type Conditions struct {
	City        string
	Country     string
	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Humidity    int // percent
	Pressure    int // hPa
	WindSpeed   float64
	WindDeg     float64
	Visibility  int // meters
	Sunrise     time.Time
	Sunset      time.Time
	Condition   Condition
	Description string
	Coordinates *Coordinates
	ObservedAt  time.Time
}

// ForecastSample is one step of the three-hourly forecast.
type ForecastSample struct {
	Time        time.Time
	Temperature float64
	Condition   Condition
	Description string
}

// Alert is an active weather warning.
type Alert struct {
	Event       string
	Description string
	Sender      string
	Start       time.Time
	End         time.Time
}

// Key identifies an alert across fetches.
func (a Alert) Key() string {
	return a.Sender + "|" + a.Event + "|" + strconv.FormatInt(a.Start.Unix(), 10)
}
