package router // wires the ops HTTP routes onto an Echo instance

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/bus-seat-reservation/internal/handler" // ops handlers
)

// RegisterRoutes registers the ops endpoints on the provided Echo
// instance: a health check for load balancers and a read-only
// availability view.  Neither route requires authentication; nothing
// served here can mutate the booking store.
func RegisterRoutes(e *echo.Echo, t *handler.TripsHandler) {
	// Health probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)
	// Live free-seat counts per route.
	e.GET("/v1/trips", t.GetTrips)
}
