package httpcontroller

import (
	"github.com/labstack/echo/v4"

	"github.com/tphakala/skydash/internal/views"
)

// initRoutes registers the page, fragment, API and operational routes.
func (s *Server) initRoutes() {
	s.Echo.GET("/", s.handleIndex)
	s.Echo.GET("/partials/dashboard", s.handleDashboardFragment)

	s.Echo.StaticFS("/static", views.Static())
	s.Echo.Static("/img", "img")

	api := s.Echo.Group("/api/v1")
	api.GET("/view", s.handleView)
	api.POST("/search", s.handleSearch)
	api.POST("/geolocate", s.handleGeolocate)
	api.POST("/refresh", s.handleRefresh)
	api.PUT("/preferences/units", s.handleSetUnits)
	api.POST("/preferences/theme/toggle", s.handleToggleTheme)
	api.GET("/notices", s.handleNotices)
	api.DELETE("/notices/:id", s.handleDismissNotice)

	s.Echo.GET("/health", s.handleHealth)
	if s.metrics != nil && s.Settings.WebServer.Metrics {
		s.Echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}
