package suncalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunEventTimes_Equator(t *testing.T) {
	t.Parallel()

	c := NewCalculator(time.Hour)
	date := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	times, err := c.SunEventTimes(0, 0, date, time.UTC)
	require.NoError(t, err)

	wantRise := time.Date(2024, 3, 20, 6, 4, 0, 0, time.UTC)
	wantSet := time.Date(2024, 3, 20, 18, 10, 0, 0, time.UTC)
	assert.WithinDuration(t, wantRise, times.Sunrise, 20*time.Minute)
	assert.WithinDuration(t, wantSet, times.Sunset, 20*time.Minute)
	assert.True(t, times.CivilDawn.Before(times.Sunrise))
	assert.True(t, times.CivilDusk.After(times.Sunset))
}

func TestSunEventTimes_LocationApplied(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("EEST", 3*3600)
	c := NewCalculator(time.Hour)
	date := time.Date(2024, 6, 21, 12, 0, 0, 0, loc)

	sunrise, err := c.Sunrise(60.1699, 24.9384, date, loc)
	require.NoError(t, err)
	sunset, err := c.Sunset(60.1699, 24.9384, date, loc)
	require.NoError(t, err)

	assert.Equal(t, loc, sunrise.Location())
	assert.True(t, sunrise.Before(sunset))
	assert.Equal(t, 21, sunrise.Day())
}

func TestSunEventTimes_Cached(t *testing.T) {
	t.Parallel()

	c := NewCalculator(time.Hour)
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	first, err := c.SunEventTimes(60.1699, 24.9384, date, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.cache.ItemCount())

	// Same cell and day resolves from cache.
	second, err := c.SunEventTimes(60.1701, 24.9381, date.Add(3*time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.cache.ItemCount())
	assert.True(t, first.Sunrise.Equal(second.Sunrise))
}

func TestNewCalculator_DefaultTTL(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, NewCalculator(0).cache)
}
