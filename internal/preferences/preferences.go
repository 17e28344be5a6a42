// Package preferences persists the unit and theme choices.
package preferences

import (
	"context"
	"strings"

	"github.com/tphakala/skydash/internal/weather"
)

// Keys under which preferences are stored.
const (
	KeyUnits = "weather_unit"
	KeyTheme = "weather_theme"
)

// Theme is the page colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps "dark" to ThemeDark and anything else to ThemeLight.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences are the persisted user choices.
type Preferences struct {
	Units weather.Units `json:"units"`
	Theme Theme         `json:"theme"`
}

// Defaults returns preferences built from configured default strings.
func Defaults(units, theme string) Preferences {
	u, err := weather.ParseUnits(units)
	if err != nil {
		u = weather.UnitsMetric
	}
	return Preferences{Units: u, Theme: ParseTheme(theme)}
}

// Store reads and writes preferences.
type Store interface {
	// Load returns stored preferences, with defaults for missing keys.
	Load(ctx context.Context) (Preferences, error)
	SaveUnits(ctx context.Context, units weather.Units) error
	SaveTheme(ctx context.Context, theme Theme) error
	Close() error
}

// decode applies stored raw values over defaults.
func decode(raw map[string]string, defaults Preferences) Preferences {
	p := defaults
	if v, ok := raw[KeyUnits]; ok {
		if u, err := weather.ParseUnits(v); err == nil {
			p.Units = u
		}
	}
	if v, ok := raw[KeyTheme]; ok {
		p.Theme = ParseTheme(v)
	}
	return p
}
