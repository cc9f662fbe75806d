// Package server exposes the research pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cryptoscout/config"
	"cryptoscout/internal/research"
)

func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
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
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })

	reg := prometheus.NewRegistry()
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	pipeLogger := log.New(log.Writer(), "[PIPE] ", log.LstdFlags)
	pipeline, err := research.Build(cfg, pipeLogger, reg)
	if err != nil {
		return err
	}

	h := &ResearchHandler{Pipeline: pipeline, Timeout: cfg.General.DefaultTimeout}
	h.Register(e)

	return e.Start(cfg.Server.Address)
}

// ResearchHandler runs one pipeline pass per request.
type ResearchHandler struct {
	Pipeline *research.Pipeline
	Timeout  time.Duration
}

func (h *ResearchHandler) Register(e *echo.Echo) {
	e.POST("/research", h.Research)
}

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	Query        string         `json:"query"`
	Report       string         `json:"report"`
	Rejected     bool           `json:"rejected"`
	Coverage     map[string]int `json:"coverage,omitempty"`
	Unrecognized []string       `json:"unrecognized,omitempty"`
	SourceURLs   []string       `json:"source_urls,omitempty"`
	ElapsedMS    int64          `json:"elapsed_ms"`
}

func (h *ResearchHandler) Research(c echo.Context) error {
	var req researchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	report, err := h.Pipeline.Run(ctx, req.Query)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, researchResponse{
		Query:        report.Query,
		Report:       report.Text,
		Rejected:     report.Rejected,
		Coverage:     report.Coverage,
		Unrecognized: report.Unrecognized,
		SourceURLs:   report.SourceURLs,
		ElapsedMS:    report.Elapsed.Milliseconds(),
	})
}
