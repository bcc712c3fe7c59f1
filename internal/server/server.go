// Package server exposes the assistant over HTTP: a chat endpoint that
// fronts the intent router, digest triggering and history, and channel
// management.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the composed collaborators the handlers share. cmd/heraldd
// builds them once at startup.
type Deps struct {
	Chat     *ChatHandler
	Digests  *DigestsHandler
	Channels *ChannelsHandler
}

// New assembles the echo instance: recovery, CORS, a unified JSON error
// handler, health and metrics endpoints, and the /api routes.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	deps.Chat.Register(api)
	deps.Digests.Register(api)
	deps.Channels.Register(api)
	return e
}

// Run blocks serving HTTP on addr.
func Run(addr string, deps Deps) error {
	return New(deps).Start(addr)
}
