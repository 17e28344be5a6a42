// Package widgets holds the map and chart adapters. Each adapter owns the
// single widget instance the page draws and replaces it on update.
package widgets

import (
	"html"
	"sync"

	"github.com/tphakala/skydash/internal/weather"
)

// Map defaults.
const (
	DefaultZoom          = 10
	TileURL              = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution      = "&copy; OpenStreetMap contributors"
	CurrentLocationLabel = "Current Location"
)

// Marker is the single map marker.
type Marker struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Popup     string  `json:"popup"` // HTML
}

// MapState is what the page should draw.
type MapState struct {
	Visible     bool    `json:"visible"`
	Zoom        int     `json:"zoom,omitempty"`
	TileURL     string  `json:"tileUrl,omitempty"`
	Attribution string  `json:"attribution,omitempty"`
	Marker      *Marker `json:"marker,omitempty"`
	Revision    uint64  `json:"revision"`
}

// MapView owns the map instance. Safe for concurrent use.
type MapView struct {
	mu          sync.Mutex
	zoom        int
	initialized bool
	state       MapState
}

// NewMapView creates a hidden map. zoom <= 0 uses DefaultZoom.
func NewMapView(zoom int) *MapView {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &MapView{zoom: zoom}
}

// Show centers the map on coords and replaces the marker. Missing, zero or
// out of range coordinates hide the map instead.
func (m *MapView) Show(coords *weather.Coordinates, label string) MapState {
	if coords == nil || coords.IsZero() || !coords.Valid() {
		return m.Hide()
	}

	popup := CurrentLocationLabel
	if label != "" {
		popup = "<b>" + html.EscapeString(label) + "</b>"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		m.state.Zoom = m.zoom
		m.state.TileURL = TileURL
		m.state.Attribution = TileAttribution
		m.initialized = true
	}
	m.state.Visible = true
	m.state.Marker = &Marker{Latitude: coords.Latitude, Longitude: coords.Longitude, Popup: popup}
	m.state.Revision++
	return m.snapshot()
}

// Hide hides the map and drops the marker.
func (m *MapView) Hide() MapState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Visible || m.state.Marker != nil {
		m.state.Visible = false
		m.state.Marker = nil
		m.state.Revision++
	}
	return m.snapshot()
}

// State returns the current map state.
func (m *MapView) State() MapState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *MapView) snapshot() MapState {
	s := m.state
	if s.Marker != nil {
		mk := *s.Marker
		s.Marker = &mk
	}
	return s
}
