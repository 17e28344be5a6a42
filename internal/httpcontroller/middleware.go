package httpcontroller

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/skydash/internal/logger"
)

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.BodyLimit("64K"))
	s.Echo.Use(s.LoggingMiddleware())
	s.Echo.Use(s.GzipMiddleware())
	s.Echo.Use(s.CacheControlMiddleware())
}

// GzipMiddleware configures Gzip compression for the server
func (s *Server) GzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
	})
}

// CacheControlMiddleware keeps API responses and the page out of caches
// while letting static assets be cached.
func (s *Server) CacheControlMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			switch {
			case strings.HasPrefix(path, "/static/"), strings.HasPrefix(path, "/img/"):
				c.Response().Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
			default:
				c.Response().Header().Set("Cache-Control", "no-store")
			}
			return next(c)
		}
	}
}

// LoggingMiddleware logs every request with its latency and status.
func (s *Server) LoggingMiddleware() echo.MiddlewareFunc {
	webLog := s.log.Module("web")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()[:8]
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			fields := []logger.Field{
				logger.String("request_id", requestID),
				logger.String("method", req.Method),
				logger.String("path", req.URL.Path),
				logger.Int("status", res.Status),
				logger.String("ip", c.RealIP()),
				logger.Int64("latency_ms", time.Since(start).Milliseconds()),
				logger.Int64("bytes_out", res.Size),
			}
			switch {
			case res.Status >= http.StatusInternalServerError:
				webLog.Error("HTTP request", fields...)
			case res.Status >= http.StatusBadRequest:
				webLog.Warn("HTTP request", fields...)
			default:
				webLog.Debug("HTTP request", fields...)
			}
			return nil
		}
	}
}
