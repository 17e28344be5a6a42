package views

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/skydash/internal/dashboard"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/preferences"
	"github.com/tphakala/skydash/internal/report"
	"github.com/tphakala/skydash/internal/scene"
	"github.com/tphakala/skydash/internal/weather"
	"github.com/tphakala/skydash/internal/widgets"
)

func sampleSnapshot() dashboard.Snapshot {
	return dashboard.Snapshot{
		PanelVisible: true,
		Report: &report.Report{
			Location:    "London, GB",
			Date:        "3 March (Monday), 2025",
			Temperature: "15°C",
			Condition:   "Rain",
			Description: "Light Rain",
			Icon:        "wi wi-rain",
			Min:         "13°C",
			Max:         "17°C",
			FeelsLike:   "14.1°C",
			Humidity:    "72%",
			Pressure:    "1014 mb",
			WindSpeed:   "4.12 m/s",
			Scene: scene.State{
				Condition:  weather.ConditionRain,
				Background: scene.BackgroundRain,
				Overlay: &scene.Overlay{
					Effect:    scene.EffectRain,
					Particles: []scene.Particle{{Class: "raindrop", Left: 12.5, Top: -3, Duration: 0.8}},
				},
			},
		},
		Forecast: []report.DailyCard{{Day: "Tue 4 Mar", Icon: "wi wi-cloudy", Temperature: "12°C", Condition: "Clouds"}},
		Alerts:   []report.AlertView{{Event: "Flood <Warning>", Description: "River rising", From: "2025-03-03 06:00", To: "2025-03-03 18:00"}},
		Map: widgets.MapState{
			Visible: true,
			Zoom:    10,
			Marker:  &widgets.Marker{Latitude: 51.51, Longitude: -0.13, Popup: "<b>London</b>"},
		},
		Theme: preferences.ThemeDark,
		Units: weather.UnitsMetric,
	}
}

func TestRenderIndex(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageIndex, PageData{Title: "Weather", Snapshot: sampleSnapshot(), AutoLocate: true}))
	html := buf.String()

	assert.Contains(t, html, "<title>Weather</title>")
	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, `data-autolocate="true"`)
	assert.Contains(t, html, `data-next="imperial"`)
	assert.Contains(t, html, "London, GB")
	assert.Contains(t, html, "img/rainy.jpg")
	assert.Contains(t, html, `class="raindrop"`)
	assert.Contains(t, html, "left:12.500vw")
	assert.Contains(t, html, "Tue 4 Mar")
	assert.Contains(t, html, "Flood &lt;Warning&gt;")
	assert.Contains(t, html, "data-widgets=")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestRenderIndex_Notices(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	n := notice.New(notice.SeverityWarning, "Not Found", "City <b>not</b> found!")
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageIndex, PageData{Title: "Weather", Notices: []notice.Notice{n}}))
	html := buf.String()

	assert.Contains(t, html, `class="notice warning"`)
	assert.Contains(t, html, `data-id="`+n.ID+`"`)
	assert.Contains(t, html, "<strong>Not Found</strong>")
	assert.Contains(t, html, "City &lt;b&gt;not&lt;/b&gt; found!")
}

func TestRenderDashboard_Empty(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FragmentDashboard, PageData{Snapshot: dashboard.Snapshot{Loading: true}}))
	html := buf.String()

	assert.NotContains(t, html, "weather-body")
	assert.Contains(t, html, "img/bg.jpg")
	assert.Contains(t, html, `<div id="map" hidden>`)
}

func TestRenderUnknownTemplate(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.Error(t, r.Render(&buf, "missing", nil))
	assert.Zero(t, buf.Len())
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	text, err := r.RenderText(sampleSnapshot())
	require.NoError(t, err)
	assert.Contains(t, text, "London, GB")
	assert.Contains(t, text, "15°C Rain (Light Rain)")
	assert.Contains(t, text, "Pressure 1014 mb")
	assert.Contains(t, text, "Tue 4 Mar: 12°C Clouds")
	assert.Contains(t, text, "River rising")
	assert.NotContains(t, text, "<p>")
	assert.NotContains(t, text, "\r\n")

	text, err = r.RenderText(dashboard.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, "No weather loaded.\n", text)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"app.js", "style.css"} {
		b, err := fs.ReadFile(Static(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, b)
	}
}
