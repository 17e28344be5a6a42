// Package httpcontroller serves the dashboard page and its JSON API.
package httpcontroller

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/acme/autocert"

	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/dashboard"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/notice"
	"github.com/tphakala/skydash/internal/observability"
	"github.com/tphakala/skydash/internal/views"
)

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators the server routes to.
type Deps struct {
	Dashboard *dashboard.Orchestrator
	View      *dashboard.SessionView
	Notices   *notice.Center
	Views     *views.Renderer
	Metrics   *observability.Metrics // nil disables /metrics
	Logger    logger.Logger
}

// Server encapsulates Echo server and related configurations.
type Server struct {
	Echo     *echo.Echo
	Settings *conf.Settings

	dashboard *dashboard.Orchestrator
	view      *dashboard.SessionView
	notices   *notice.Center
	views     *views.Renderer
	metrics   *observability.Metrics
	log       logger.Logger
}

// New builds the echo instance with middleware and routes.
func New(settings *conf.Settings, deps Deps) (*Server, error) {
	if deps.Dashboard == nil || deps.View == nil || deps.Notices == nil || deps.Views == nil {
		return nil, errors.Newf("dashboard, view, notices and views are required").
			Component("httpcontroller").
			Category(errors.CategoryConfiguration).
			Build()
	}
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		Echo:      echo.New(),
		Settings:  settings,
		dashboard: deps.Dashboard,
		view:      deps.View,
		notices:   deps.Notices,
		views:     deps.Views,
		metrics:   deps.Metrics,
		log:       log,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger = logger.NewEchoLoggerAdapter(log.Module("echo"))
	s.Echo.Renderer = &templateRenderer{views: deps.Views}
	s.Echo.HTTPErrorHandler = s.errorHandler

	s.configureMiddleware()
	s.initRoutes()
	return s, nil
}

// Address returns the listen address.
func (s *Server) Address() string {
	port := s.Settings.WebServer.Port
	if port == "" {
		port = "8080"
	}
	if s.Settings.WebServer.AutoTLS {
		return ":443"
	}
	return net.JoinHostPort(s.Settings.WebServer.Host, port)
}

// Start serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		var err error
		if s.Settings.WebServer.AutoTLS {
			cacheDir, dirErr := certCacheDir()
			if dirErr != nil {
				errChan <- dirErr
				return
			}
			s.Echo.AutoTLSManager.Prompt = autocert.AcceptTOS
			s.Echo.AutoTLSManager.Cache = autocert.DirCache(cacheDir)
			s.Echo.AutoTLSManager.HostPolicy = autocert.HostWhitelist(s.Settings.WebServer.Host)
			err = s.Echo.StartAutoTLS(s.Address())
		} else {
			err = s.Echo.Start(s.Address())
		}
		errChan <- err
	}()

	s.log.Info("HTTP server started",
		logger.String("address", s.Address()),
		logger.Bool("autotls", s.Settings.WebServer.AutoTLS))

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(err).
			Component("httpcontroller").
			Category(errors.CategoryNetwork).
			Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func certCacheDir() (string, error) {
	paths, err := conf.GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}
	return filepath.Join(paths[0], "autocert"), nil
}
