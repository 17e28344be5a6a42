package httpcontroller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/skydash/internal/dashboard"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/views"
	"github.com/tphakala/skydash/internal/weather"
)

const defaultTitle = "Weather Dashboard"

// ActionResponse is returned by every trigger endpoint.
type ActionResponse struct {
	Outcome string             `json:"outcome"`
	View    dashboard.Snapshot `json:"view"`
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	City string `json:"city" form:"city"`
}

// GeolocateRequest carries the browser's position or its failure.
// Error is "unsupported", "denied" or empty.
type GeolocateRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
	Error     string   `json:"error"`
}

// UnitsRequest is the body of PUT /api/v1/preferences/units.
type UnitsRequest struct {
	Units string `json:"units"`
}

// ErrorResponse is the JSON body of failed API calls.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) pageData() views.PageData {
	snap := s.view.Snapshot()
	title := defaultTitle
	if s.Settings.Main.Name != "" {
		title = s.Settings.Main.Name
	}
	return views.PageData{
		Title:      title,
		Snapshot:   snap,
		AutoLocate: s.Settings.Dashboard.DefaultCity == "" && snap.Report == nil,
	}
}

// handleIndex renders the full page with any pending notices inlined. They
// are drained so the page's first poll does not show them twice.
func (s *Server) handleIndex(c echo.Context) error {
	data := s.pageData()
	data.Notices = s.notices.Drain()
	return c.Render(http.StatusOK, views.PageIndex, data)
}

func (s *Server) handleDashboardFragment(c echo.Context) error {
	return c.Render(http.StatusOK, views.FragmentDashboard, s.pageData())
}

func (s *Server) handleView(c echo.Context) error {
	return c.JSON(http.StatusOK, s.view.Snapshot())
}

func (s *Server) respond(c echo.Context, outcome dashboard.Outcome) error {
	return c.JSON(http.StatusOK, ActionResponse{Outcome: outcome.String(), View: s.view.Snapshot()})
}

func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return s.respond(c, s.dashboard.FetchByCity(c.Request().Context(), req.City))
}

func (s *Server) handleGeolocate(c echo.Context) error {
	var req GeolocateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return s.respond(c, s.dashboard.FetchByGeolocation(c.Request().Context(), locatorFor(req)))
}

// locatorFor turns the browser's report into a Locator.
func locatorFor(req GeolocateRequest) dashboard.Locator {
	switch strings.ToLower(strings.TrimSpace(req.Error)) {
	case "":
	case "unsupported":
		return dashboard.StaticLocator{Err: dashboard.ErrGeolocationUnsupported}
	default:
		return dashboard.StaticLocator{Err: dashboard.ErrGeolocationDenied}
	}
	if req.Latitude == nil || req.Longitude == nil {
		return dashboard.StaticLocator{Err: dashboard.ErrGeolocationDenied}
	}
	return dashboard.StaticLocator{Coordinates: weather.Coordinates{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}}
}

func (s *Server) handleRefresh(c echo.Context) error {
	return s.respond(c, s.dashboard.Refresh(c.Request().Context()))
}

func (s *Server) handleSetUnits(c echo.Context) error {
	var req UnitsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	units, err := weather.ParseUnits(req.Units)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "units must be metric or imperial")
	}

	outcome, err := s.dashboard.SetUnits(c.Request().Context(), units)
	if err != nil {
		// The change applies for this session even when it was not saved.
		s.log.Warn("units not persisted", logger.Error(err))
	}
	return s.respond(c, outcome)
}

func (s *Server) handleToggleTheme(c echo.Context) error {
	theme, err := s.dashboard.ToggleTheme(c.Request().Context())
	if err != nil {
		s.log.Warn("theme not persisted", logger.Error(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"theme": string(theme)})
}

func (s *Server) handleNotices(c echo.Context) error {
	pending := s.notices.Pending()
	if pending == nil {
		pending = []notice.Notice{}
	}
	return c.JSON(http.StatusOK, pending)
}

func (s *Server) handleDismissNotice(c echo.Context) error {
	if err := s.notices.Dismiss(c.Param("id")); err != nil {
		if errors.Is(err, notice.ErrNoticeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "notice not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorHandler renders API errors as JSON and everything else as plain text.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		s.log.Error("request failed",
			logger.String("path", c.Request().URL.Path),
			logger.Error(err))
	}

	var respErr error
	switch {
	case c.Request().Method == http.MethodHead:
		respErr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		respErr = c.JSON(code, ErrorResponse{Error: msg})
	default:
		respErr = c.String(code, msg)
	}
	if respErr != nil {
		s.log.Debug("writing error response failed", logger.Error(respErr))
	}
}
