package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seat-reservation/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	r := Default()
	trips := r.List()
	require.Len(t, trips, 4)
	// Declaration order is preserved.
	assert.Equal(t, "BINH DINH -> HCM", trips[0].ID)
	assert.Equal(t, "HCM -> DAK LAK", trips[3].ID)
	for _, tr := range trips {
		assert.Equal(t, 20, tr.TotalSeats)
	}
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	_, err := New([]model.Trip{{ID: "", TotalSeats: 5}})
	assert.Error(t, err)

	_, err = New([]model.Trip{{ID: "A -> B", TotalSeats: 0}})
	assert.Error(t, err)

	_, err = New([]model.Trip{
		{ID: "A -> B", TotalSeats: 5},
		{ID: "A -> B", TotalSeats: 7},
	})
	assert.Error(t, err)
}

func TestTotalSeats(t *testing.T) {
	r, err := New([]model.Trip{{ID: "A -> B", TotalSeats: 5}})
	require.NoError(t, err)

	n, ok := r.TotalSeats("A -> B")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = r.TotalSeats("B -> A")
	assert.False(t, ok)
}

func TestListReturnsCopy(t *testing.T) {
	r := Default()
	trips := r.List()
	trips[0].TotalSeats = 999

	again := r.List()
	assert.Equal(t, 20, again[0].TotalSeats)
}

func TestParseCatalog(t *testing.T) {
	trips, err := ParseCatalog("A -> B:12, B -> A:8")
	require.NoError(t, err)
	assert.Equal(t, []model.Trip{
		{ID: "A -> B", TotalSeats: 12},
		{ID: "B -> A", TotalSeats: 8},
	}, trips)

	_, err = ParseCatalog("A -> B")
	assert.Error(t, err)

	_, err = ParseCatalog("A -> B:many")
	assert.Error(t, err)

	_, err = ParseCatalog(" , ")
	assert.Error(t, err)
}
