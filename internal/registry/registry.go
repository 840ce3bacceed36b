// Package registry holds the static catalog of trips.  The catalog is
// built once at startup and is immutable afterwards, so it can be read
// from any goroutine without synchronization.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/bus-seat-reservation/internal/model"
)

// Registry is the read-only trip catalog.  It preserves the order in
// which trips were declared so listings are stable across calls.
type Registry struct {
	trips []model.Trip
	index map[string]int // trip id -> position in trips
}

// New builds a Registry from the given trips.  Duplicate ids or
// non-positive capacities are rejected because a malformed catalog is a
// deployment error, not a runtime condition.
func New(trips []model.Trip) (*Registry, error) {
	r := &Registry{
		trips: make([]model.Trip, 0, len(trips)),
		index: make(map[string]int, len(trips)),
	}
	for _, t := range trips {
		if t.ID == "" {
			return nil, fmt.Errorf("registry: empty trip id")
		}
		if t.TotalSeats <= 0 {
			return nil, fmt.Errorf("registry: trip %q has invalid capacity %d", t.ID, t.TotalSeats)
		}
		if _, dup := r.index[t.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate trip %q", t.ID)
		}
		r.index[t.ID] = len(r.trips)
		r.trips = append(r.trips, t)
	}
	return r, nil
}

// Default returns the built-in catalog: the four routes the service has
// always offered, twenty seats each.
func Default() *Registry {
	r, _ := New([]model.Trip{
		{ID: "BINH DINH -> HCM", TotalSeats: 20},
		{ID: "HCM -> BINH DINH", TotalSeats: 20},
		{ID: "DAK LAK -> HCM", TotalSeats: 20},
		{ID: "HCM -> DAK LAK", TotalSeats: 20},
	})
	return r
}

// ParseCatalog parses a catalog override of the form
// "NAME:SEATS,NAME:SEATS,...".  Route names may contain any character
// except ',' and ':'.
func ParseCatalog(s string) ([]model.Trip, error) {
	var trips []model.Trip
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, ":")
		if i < 0 {
			return nil, fmt.Errorf("registry: catalog entry %q missing ':'", part)
		}
		seats, err := strconv.Atoi(strings.TrimSpace(part[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("registry: catalog entry %q has invalid seat count", part)
		}
		trips = append(trips, model.Trip{
			ID:         strings.TrimSpace(part[:i]),
			TotalSeats: seats,
		})
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("registry: catalog %q contains no trips", s)
	}
	return trips, nil
}

// List returns every trip in declaration order.  The returned slice is
// a copy; callers may not mutate the catalog through it.
func (r *Registry) List() []model.Trip {
	out := make([]model.Trip, len(r.trips))
	copy(out, r.trips)
	return out
}

// TotalSeats returns the capacity of the named trip and whether the
// trip exists at all.
func (r *Registry) TotalSeats(tripID string) (int, bool) {
	i, ok := r.index[tripID]
	if !ok {
		return 0, false
	}
	return r.trips[i].TotalSeats, true
}
