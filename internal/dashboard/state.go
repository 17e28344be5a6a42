package dashboard

import (
	"sync"

	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/weather"
)

// State is the application state owned by the orchestrator: preferences,
// the last issued query and the request sequence.
type State struct {
	mu         sync.Mutex
	prefs      preferences.Preferences
	lastCity   string
	lastCoords *weather.Coordinates
	seq        uint64
}

// NewState creates state with the given preferences.
func NewState(prefs preferences.Preferences) *State {
	return &State{prefs: prefs}
}

// Preferences returns the active preferences.
func (s *State) Preferences() preferences.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Sequence returns the newest issued token.
func (s *State) Sequence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// LastCity returns the last city requested.
func (s *State) LastCity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCity
}

// LastCoordinates returns the last resolved geolocation, if any.
func (s *State) LastCoordinates() *weather.Coordinates {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCoords == nil {
		return nil
	}
	c := *s.lastCoords
	return &c
}

func (s *State) setPreferences(p preferences.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}

func (s *State) setUnits(u weather.Units) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Units = u
}

func (s *State) toggleTheme() preferences.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Theme = s.prefs.Theme.Toggle()
	return s.prefs.Theme
}

// begin issues a new token. A non-empty city is recorded as the last query.
// The returned units are the ones the request must use.
func (s *State) begin(city string) (uint64, weather.Units) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if city != "" {
		s.lastCity = city
	}
	return s.seq, s.prefs.Units
}

// rememberCoordinates records coords if token is still the newest.
func (s *State) rememberCoordinates(token uint64, coords weather.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.seq {
		s.lastCoords = &coords
	}
}

// applyIfCurrent runs fn while token is the newest one issued. fn runs
// under the state lock, so a later begin cannot interleave with it; fn
// must not call back into State.
func (s *State) applyIfCurrent(token uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	fn()
	return true
}
