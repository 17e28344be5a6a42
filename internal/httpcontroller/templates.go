package httpcontroller

import (
	"io"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/skydash/internal/views"
)

// templateRenderer adapts views.Renderer to echo.Renderer.
type templateRenderer struct {
	views *views.Renderer
}

func (t *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.views.Render(w, name, data)
}
