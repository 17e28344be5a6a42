package dashboard

import (
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/report"
	"github.com/tphakala/skydash/internal/widgets"
	"github.com/tphakala/skydash/internal/weather"
)

// Presenter is the rendering surface. The orchestrator calls it with
// finished view models only, and never concurrently.
type Presenter interface {
	ShowLoading(on bool)
	ShowReport(r report.Report)
	HidePanel()
	ShowForecast(cards []report.DailyCard)
	ClearForecast()
	ShowChart(c widgets.ChartState)
	ShowMap(m widgets.MapState)
	ShowAlerts(alerts []report.AlertView)
	ClearAlerts()
	ApplyTheme(theme preferences.Theme)
	ShowUnits(units weather.Units)
	Notify(n notice.Notice)
}
