package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-reservation/internal/repository"
)

// TripsHandler exposes a read-only view of the catalog and current
// availability over HTTP.  It exists for operators and dashboards;
// bookings themselves only happen over the TCP command stream.
type TripsHandler struct {
	Store *repository.BookingStore
}

// NewTripsHandler constructs a TripsHandler.  The store must be non-nil.
func NewTripsHandler(store *repository.BookingStore) *TripsHandler {
	if store == nil {
		panic("nil store passed to NewTripsHandler")
	}
	return &TripsHandler{Store: store}
}

// GetTrips handles GET /v1/trips.  It returns the free-seat count per
// route as one consistent snapshot of the store.
func (h *TripsHandler) GetTrips(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"trips": h.Store.Availability()})
}
