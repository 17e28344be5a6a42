package mqtt

import (
	"time"

	"github.com/tphakala/skydash/internal/weather"
)

// ConditionsDTO is the payload published for current conditions.
// Field names are part of the topic contract for home automation consumers.
type ConditionsDTO struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Units       string    `json:"units"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	TempMin     float64   `json:"tempMin"`
	TempMax     float64   `json:"tempMax"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	WindDeg     float64   `json:"windDeg"`
	Visibility  int       `json:"visibility"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"lat,omitempty"`
	Longitude   *float64  `json:"lon,omitempty"`
	Sunrise     time.Time `json:"sunrise,omitzero"`
	Sunset      time.Time `json:"sunset,omitzero"`
	ObservedAt  time.Time `json:"observedAt,omitzero"`
	PublishedAt time.Time `json:"publishedAt"`
}

// AlertDTO is one alert in the alerts payload.
type AlertDTO struct {
	Event       string    `json:"event"`
	Description string    `json:"description"`
	Sender      string    `json:"sender"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// NewConditionsDTO flattens c for publishing.
func NewConditionsDTO(c *weather.Conditions, units weather.Units, now time.Time) ConditionsDTO {
	dto := ConditionsDTO{
		City:        c.City,
		Country:     c.Country,
		Units:       string(units),
		Temperature: c.Temperature,
		FeelsLike:   c.FeelsLike,
		TempMin:     c.TempMin,
		TempMax:     c.TempMax,
		Humidity:    c.Humidity,
		Pressure:    c.Pressure,
		WindSpeed:   c.WindSpeed,
		WindDeg:     c.WindDeg,
		Visibility:  c.Visibility,
		Condition:   string(c.Condition),
		Description: c.Description,
		Sunrise:     c.Sunrise,
		Sunset:      c.Sunset,
		ObservedAt:  c.ObservedAt,
		PublishedAt: now,
	}
	if c.Coordinates != nil {
		lat, lon := c.Coordinates.Latitude, c.Coordinates.Longitude
		dto.Latitude = &lat
		dto.Longitude = &lon
	}
	return dto
}

// NewAlertDTOs converts alerts for publishing.
func NewAlertDTOs(alerts []weather.Alert) []AlertDTO {
	out := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		out[i] = AlertDTO{
			Event:       a.Event,
			Description: a.Description,
			Sender:      a.Sender,
			Start:       a.Start,
			End:         a.End,
		}
	}
	return out
}
