// Package server exposes the wait-page HTTP surface: the splash page, the
// JSON state poll and the readiness probes.
package server

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/progress"
)

//go:embed assets/index.html
var pageHTML []byte

// The readiness body the page JS treats as "still provisioning". Once the
// real service takes over the port the body changes (or the probe 404s) and
// the page redirects.
const placeholderBody = "placeholder"

type Server struct {
	engine *progress.Engine
	log    *slog.Logger
	echo   *echo.Echo
}

func New(engine *progress.Engine, log *slog.Logger) *Server {
	s := &Server{
		engine: engine,
		log:    log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = s.errorHandler

	e.GET("/", s.page)
	e.GET("/state", s.state)
	e.GET("/status", s.ready)
	e.GET("/ready", s.ready)
	e.GET("/healthz", s.healthz)

	s.echo = e
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) page(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.HTMLBlob(http.StatusOK, pageHTML)
}

func (s *Server) state(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, s.engine.Snapshot())
}

func (s *Server) ready(c echo.Context) error {
	return c.String(http.StatusOK, placeholderBody)
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if code >= http.StatusInternalServerError && s.log != nil {
		s.log.Error("request failed", "path", c.Request().URL.Path, "err", err)
	}
	if !c.Response().Committed {
		_ = c.String(code, http.StatusText(code))
	}
}
