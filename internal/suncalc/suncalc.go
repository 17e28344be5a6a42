// Package suncalc computes sunrise and sunset for arbitrary coordinates.
package suncalc

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"
)

// SunEventTimes holds the calculated sun event times in the requested location
type SunEventTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// pruneThreshold is the entry count above which expired entries are swept.
const pruneThreshold = 256

// Calculator caches sun event times per coordinate cell and calendar date.
type Calculator struct {
	cache *cache.Cache
}

// NewCalculator creates a Calculator whose entries expire after ttl. No
// janitor goroutine is started; expired entries are swept on insert.
func NewCalculator(ttl time.Duration) *Calculator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Calculator{cache: cache.New(ttl, 0)}
}

// cacheKey groups coordinates into ~1km cells; sun times barely move within one.
func cacheKey(latitude, longitude float64, date time.Time) string {
	return fmt.Sprintf("%.2f:%.2f:%s", latitude, longitude, date.Format(time.DateOnly))
}

// SunEventTimes returns the sun event times for the date in loc.
func (c *Calculator) SunEventTimes(latitude, longitude float64, date time.Time, loc *time.Location) (SunEventTimes, error) {
	if loc == nil {
		loc = time.UTC
	}
	date = date.In(loc)
	key := cacheKey(latitude, longitude, date) + ":" + loc.String()

	if cached, ok := c.cache.Get(key); ok {
		return cached.(SunEventTimes), nil
	}

	times, err := calculate(astral.Observer{Latitude: latitude, Longitude: longitude}, date, loc)
	if err != nil {
		return SunEventTimes{}, err
	}
	c.cache.Set(key, times, cache.DefaultExpiration)
	if c.cache.ItemCount() > pruneThreshold {
		c.cache.DeleteExpired()
	}
	return times, nil
}

// Sunrise returns the sunrise time for a given date
func (c *Calculator) Sunrise(latitude, longitude float64, date time.Time, loc *time.Location) (time.Time, error) {
	times, err := c.SunEventTimes(latitude, longitude, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return times.Sunrise, nil
}

// Sunset returns the sunset time for a given date
func (c *Calculator) Sunset(latitude, longitude float64, date time.Time, loc *time.Location) (time.Time, error) {
	times, err := c.SunEventTimes(latitude, longitude, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return times.Sunset, nil
}

func calculate(observer astral.Observer, date time.Time, loc *time.Location) (SunEventTimes, error) {
	civilDawn, err := astral.Dawn(observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}

	sunrise, err := astral.Sunrise(observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}

	sunset, err := astral.Sunset(observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	civilDusk, err := astral.Dusk(observer, date, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	return SunEventTimes{
		CivilDawn: civilDawn.In(loc),
		Sunrise:   sunrise.In(loc),
		Sunset:    sunset.In(loc),
		CivilDusk: civilDusk.In(loc),
	}, nil
}
