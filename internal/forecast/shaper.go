// Package forecast shapes three-hourly forecast samples into daily and
// hourly summaries.
package forecast

import (
	"fmt"
	"time"

	"github.com/tphakala/skydash/internal/weather"
)

// Defaults used when no option overrides them.
const (
	DefaultReferenceHour = 12
	DefaultDailyLimit    = 5
	DefaultHourlyLimit   = 8
)

// DailyEntry is the representative sample for one local calendar day.
type DailyEntry struct {
	Day    time.Time // local midnight
	Sample weather.ForecastSample
}

// HourlyPoint is one chart point.
type HourlyPoint struct {
	Label       string // HH:00
	Time        time.Time
	Temperature float64
}

// Summary holds both derived views.
type Summary struct {
	Daily  []DailyEntry
	Hourly []HourlyPoint
}

// Empty reports whether neither view has entries.
func (s Summary) Empty() bool {
	return len(s.Daily) == 0 && len(s.Hourly) == 0
}

// Shaper groups samples by day and slices the hourly view.
type Shaper struct {
	loc           *time.Location
	referenceHour int
	dailyLimit    int
	hourlyLimit   int
}

// Option configures a Shaper.
type Option func(*Shaper)

// WithLocation sets the zone used for calendar days and hour labels.
func WithLocation(loc *time.Location) Option {
	return func(s *Shaper) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithReferenceHour sets the local hour that represents a day.
func WithReferenceHour(hour int) Option {
	return func(s *Shaper) {
		if hour >= 0 && hour <= 23 {
			s.referenceHour = hour
		}
	}
}

// WithDailyLimit caps the number of daily entries.
func WithDailyLimit(n int) Option {
	return func(s *Shaper) {
		if n > 0 {
			s.dailyLimit = n
		}
	}
}

// WithHourlyLimit caps the number of hourly points.
func WithHourlyLimit(n int) Option {
	return func(s *Shaper) {
		if n > 0 {
			s.hourlyLimit = n
		}
	}
}

// NewShaper creates a Shaper. Invalid option values keep the defaults.
func NewShaper(opts ...Option) *Shaper {
	s := &Shaper{
		loc:           time.Local,
		referenceHour: DefaultReferenceHour,
		dailyLimit:    DefaultDailyLimit,
		hourlyLimit:   DefaultHourlyLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shape returns both views of samples.
func (s *Shaper) Shape(samples []weather.ForecastSample) Summary {
	return Summary{
		Daily:  s.Daily(samples),
		Hourly: s.Hourly(samples),
	}
}

// Daily keeps, per local day, the sample at the reference hour. A later
// match replaces an earlier one in place, so days keep the order in which
// they first matched. Days without a match are skipped.
func (s *Shaper) Daily(samples []weather.ForecastSample) []DailyEntry {
	if len(samples) == 0 {
		return nil
	}

	var entries []DailyEntry
	index := make(map[string]int)
	for _, sample := range samples {
		t := sample.Time.In(s.loc)
		if t.Hour() != s.referenceHour {
			continue
		}
		key := t.Format(time.DateOnly)
		if i, ok := index[key]; ok {
			entries[i].Sample = sample
			continue
		}
		index[key] = len(entries)
		entries = append(entries, DailyEntry{
			Day:    time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc),
			Sample: sample,
		})
	}

	if len(entries) > s.dailyLimit {
		entries = entries[:s.dailyLimit]
	}
	return entries
}

// Hourly returns the first samples as HH:00 labelled points.
func (s *Shaper) Hourly(samples []weather.ForecastSample) []HourlyPoint {
	n := min(len(samples), s.hourlyLimit)
	if n == 0 {
		return nil
	}
	points := make([]HourlyPoint, n)
	for i, sample := range samples[:n] {
		t := sample.Time.In(s.loc)
		points[i] = HourlyPoint{
			Label:       fmt.Sprintf("%02d:00", t.Hour()),
			Time:        t,
			Temperature: sample.Temperature,
		}
	}
	return points
}
