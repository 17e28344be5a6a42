// Package report builds the display strings for the main weather panel.
package report

import (
	"time"

	"golang.org/x/text/language"

	"github.com/tphakala/skydash/internal/format"
	"github.com/tphakala/skydash/internal/scene"
	"github.com/tphakala/skydash/internal/weather"
)

// Report is the view model of the main panel.
type Report struct {
	Location      string        `json:"location"`
	Date          string        `json:"date"`
	Temperature   string        `json:"temperature"`
	Condition     string        `json:"condition"`
	Description   string        `json:"description"`
	Icon          string        `json:"icon"`
	Min           string        `json:"min"`
	Max           string        `json:"max"`
	Updated       string        `json:"updated"`
	FeelsLike     string        `json:"feelsLike"`
	Humidity      string        `json:"humidity"`
	Pressure      string        `json:"pressure"`
	WindSpeed     string        `json:"windSpeed"`
	WindDirection string        `json:"windDirection"`
	Visibility    string        `json:"visibility"` // km, without suffix
	Sunrise       string        `json:"sunrise"`
	Sunset        string        `json:"sunset"`
	Units         weather.Units `json:"units"`
	Scene         scene.State   `json:"scene"`
}

// Renderer turns conditions into a Report and updates the scene.
type Renderer struct {
	scene *scene.Renderer
	now   func() time.Time
	loc   *time.Location
	lang  language.Tag
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the source of the "updated" time and the long date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the zone for displayed times.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithLanguage sets the language of month and weekday names.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) { r.lang = tag }
}

// NewRenderer creates a Renderer that applies scenes to sc.
func NewRenderer(sc *scene.Renderer, opts ...Option) *Renderer {
	r := &Renderer{
		scene: sc,
		now:   time.Now,
		loc:   time.Local,
		lang:  language.English,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Language returns the configured display language.
func (r *Renderer) Language() language.Tag { return r.lang }

// Location returns the configured display zone.
func (r *Renderer) Location() *time.Location { return r.loc }

// Render builds the panel strings for c and then applies the scene for
// its condition.
func (r *Renderer) Render(c *weather.Conditions, units weather.Units) Report {
	if c == nil {
		return Report{}
	}
	now := r.now().In(r.loc)

	rep := Report{
		Location:      c.City + ", " + c.Country,
		Date:          format.LongDate(now, r.lang),
		Temperature:   format.Temperature(c.Temperature, units),
		Condition:     string(c.Condition),
		Description:   c.Description,
		Icon:          weather.IconFor(c.Condition),
		Min:           format.Min(c.TempMin, units),
		Max:           format.Max(c.TempMax, units),
		Updated:       format.Clock(now),
		FeelsLike:     format.FeelsLike(c.FeelsLike, units),
		Humidity:      format.Humidity(c.Humidity),
		Pressure:      format.Pressure(c.Pressure),
		WindSpeed:     format.WindSpeed(c.WindSpeed, units),
		WindDirection: format.WindDirection(c.WindDeg),
		Visibility:    format.Visibility(c.Visibility),
		Sunrise:       format.Clock(localize(c.Sunrise, r.loc)),
		Sunset:        format.Clock(localize(c.Sunset, r.loc)),
		Units:         units,
	}

	if r.scene != nil {
		rep.Scene = r.scene.Apply(c.Condition)
	}
	return rep
}

func localize(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(loc)
}
