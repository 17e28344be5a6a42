package dashboard

import (
	"context"

	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/weather"
)

// Geolocation failures reported by a Locator.
var (
	ErrGeolocationUnsupported = errors.NewStd("geolocation is not supported")
	ErrGeolocationDenied      = errors.NewStd("geolocation permission denied")
)

// Locator resolves the user's position. Implementations may block until
// the user answers a permission prompt; they must honor ctx.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// Availability is implemented by locators that know, before locating,
// whether geolocation exists at all.
type Availability interface {
	Available() bool
}

// supported reports whether loc can be asked for a position.
func supported(loc Locator) bool {
	if loc == nil {
		return false
	}
	if a, ok := loc.(Availability); ok {
		return a.Available()
	}
	return true
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (weather.Coordinates, error)

// Locate calls f(ctx).
func (f LocatorFunc) Locate(ctx context.Context) (weather.Coordinates, error) { return f(ctx) }

// StaticLocator returns a fixed result, as reported by the browser.
type StaticLocator struct {
	Coordinates weather.Coordinates
	Err         error
}

// Locate implements Locator.
func (s StaticLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	if s.Err != nil {
		return weather.Coordinates{}, s.Err
	}
	return s.Coordinates, nil
}

// Available is false when the browser reported no geolocation support.
func (s StaticLocator) Available() bool {
	return !errors.Is(s.Err, ErrGeolocationUnsupported)
}
