package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seat-reservation/internal/model"
	"github.com/iliyamo/bus-seat-reservation/internal/registry"
	"github.com/iliyamo/bus-seat-reservation/internal/repository"
	"github.com/iliyamo/bus-seat-reservation/internal/validator"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, Health(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGetTrips(t *testing.T) {
	reg, err := registry.New([]model.Trip{{ID: "A -> B", TotalSeats: 3}})
	require.NoError(t, err)
	store := repository.New(reg, validator.Name, validator.Phone)
	_, err = store.Book("A -> B", 1, model.UserInfo{Name: "Ann Lee", Phone: "0123456789"}, "sess-a")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, NewTripsHandler(store).GetTrips(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Trips map[string]int `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]int{"A -> B": 2}, body.Trips)
}
