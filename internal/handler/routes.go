package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spa-gateway/internal/config"
	"spa-gateway/internal/metrics"
)

// Route pairs a predicate with the handler that serves matching requests.
type Route struct {
	Name   string
	Match  func(c echo.Context) bool
	Handle echo.HandlerFunc
}

// Router dispatches each request to the first route whose predicate matches.
type Router struct {
	routes  []Route
	metrics *metrics.Metrics
}

// NewRouter creates a Router evaluating routes in the given order.
// The metrics parameter is optional; pass nil to disable route selection counts.
func NewRouter(routes []Route, m *metrics.Metrics) *Router {
	return &Router{routes: routes, metrics: m}
}

// DefaultRoutes returns the gateway's routes in priority order: health and
// status probes, metrics when enabled, static files, images, API forwarding,
// then the entry document as catch-all.
func DefaultRoutes(cfg *config.Config, m *metrics.Metrics, health *HealthHandler, assets *AssetHandler, forward *ForwardHandler) []Route {
	routes := []Route{
		{Name: "health", Match: matchGET("/healthz"), Handle: health.Healthz},
		{Name: "status", Match: matchGET("/gateway/status"), Handle: health.Status},
	}
	if cfg.Metrics.Enabled {
		routes = append(routes, Route{
			Name:   "metrics",
			Match:  matchGET(cfg.Metrics.Path),
			Handle: echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})),
		})
	}
	return append(routes,
		Route{Name: "static", Match: assets.MatchStatic, Handle: assets.Static},
		Route{Name: "image", Match: assets.MatchImage, Handle: assets.Image},
		Route{Name: "forward", Match: forward.Match, Handle: forward.Handle},
		Route{Name: "spa", Match: matchAny, Handle: assets.SPA},
	)
}

// Routes returns the routes in evaluation order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Names returns the route names in evaluation order.
func (r *Router) Names() []string {
	names := make([]string, len(r.routes))
	for i, rt := range r.routes {
		names[i] = rt.Name
	}
	return names
}

// Dispatch serves c with the first matching route.
func (r *Router) Dispatch(c echo.Context) error {
	for _, rt := range r.routes {
		if !rt.Match(c) {
			continue
		}
		if r.metrics != nil {
			r.metrics.RouteSelections.WithLabelValues(rt.Name).Inc()
		}
		return rt.Handle(c)
	}
	return echo.ErrNotFound
}

// RegisterRoutes hands every path and method to the router.
func RegisterRoutes(e *echo.Echo, r *Router) {
	e.Any("/", r.Dispatch)
	e.Any("/*", r.Dispatch)
}

func matchGET(path string) func(echo.Context) bool {
	return func(c echo.Context) bool {
		req := c.Request()
		return req.Method == http.MethodGet && req.URL.Path == path
	}
}

func matchAny(echo.Context) bool { return true }
