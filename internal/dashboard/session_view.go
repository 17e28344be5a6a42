package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/report"
	"github.com/tphakala/skydash/internal/widgets"
	"github.com/tphakala/skydash/internal/weather"
)

// Snapshot is everything the page needs to draw itself.
type Snapshot struct {
	Loading      bool               `json:"loading"`
	PanelVisible bool               `json:"panelVisible"`
	Report       *report.Report     `json:"report,omitempty"`
	Forecast     []report.DailyCard `json:"forecast"`
	Chart        widgets.ChartState `json:"chart"`
	Map          widgets.MapState   `json:"map"`
	Alerts       []report.AlertView `json:"alerts"`
	Theme        preferences.Theme  `json:"theme"`
	Units        weather.Units      `json:"units"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// SessionView is a Presenter that keeps the latest Snapshot for the web
// layer and forwards notices.
type SessionView struct {
	mu       sync.RWMutex
	snap     Snapshot
	notifier notice.Notifier
}

// NewSessionView creates a view forwarding notices to notifier, which may be nil.
func NewSessionView(notifier notice.Notifier) *SessionView {
	return &SessionView{
		notifier: notifier,
		snap: Snapshot{
			Theme: preferences.ThemeLight,
			Units: weather.UnitsMetric,
		},
	}
}

// Snapshot returns a copy of the current view state.
func (v *SessionView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := v.snap
	if s.Report != nil {
		r := *s.Report
		s.Report = &r
	}
	s.Forecast = slices.Clone(s.Forecast)
	s.Alerts = slices.Clone(s.Alerts)
	return s
}

func (v *SessionView) update(fn func(s *Snapshot)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.snap)
	v.snap.UpdatedAt = time.Now()
}

func (v *SessionView) ShowLoading(on bool) {
	v.update(func(s *Snapshot) { s.Loading = on })
}

func (v *SessionView) ShowReport(r report.Report) {
	v.update(func(s *Snapshot) {
		s.Report = &r
		s.PanelVisible = true
	})
}

func (v *SessionView) HidePanel() {
	v.update(func(s *Snapshot) {
		s.Report = nil
		s.PanelVisible = false
	})
}

func (v *SessionView) ShowForecast(cards []report.DailyCard) {
	v.update(func(s *Snapshot) { s.Forecast = slices.Clone(cards) })
}

func (v *SessionView) ClearForecast() {
	v.update(func(s *Snapshot) { s.Forecast = nil })
}

func (v *SessionView) ShowChart(c widgets.ChartState) {
	v.update(func(s *Snapshot) { s.Chart = c })
}

func (v *SessionView) ShowMap(m widgets.MapState) {
	v.update(func(s *Snapshot) { s.Map = m })
}

func (v *SessionView) ShowAlerts(alerts []report.AlertView) {
	v.update(func(s *Snapshot) { s.Alerts = slices.Clone(alerts) })
}

func (v *SessionView) ClearAlerts() {
	v.update(func(s *Snapshot) { s.Alerts = nil })
}

func (v *SessionView) ApplyTheme(theme preferences.Theme) {
	v.update(func(s *Snapshot) { s.Theme = theme })
}

func (v *SessionView) ShowUnits(units weather.Units) {
	v.update(func(s *Snapshot) { s.Units = units })
}

// Notify forwards n to the notifier.
func (v *SessionView) Notify(n notice.Notice) {
	if v.notifier != nil {
		v.notifier.Notify(n)
	}
}
