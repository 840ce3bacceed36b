package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seat-reservation/internal/model"
	"github.com/iliyamo/bus-seat-reservation/internal/registry"
	"github.com/iliyamo/bus-seat-reservation/internal/session"
	"github.com/iliyamo/bus-seat-reservation/internal/validator"
)

func newTestStore(t *testing.T, trips ...model.Trip) *BookingStore {
	t.Helper()
	if len(trips) == 0 {
		trips = []model.Trip{
			{ID: "X -> Y", TotalSeats: 2},
			{ID: "Y -> X", TotalSeats: 20},
		}
	}
	reg, err := registry.New(trips)
	require.NoError(t, err)
	return New(reg, validator.Name, validator.Phone)
}

var ann = model.UserInfo{Name: "Ann Lee", Phone: "0123456789"}

func TestAvailableCountTracksBookings(t *testing.T) {
	s := newTestStore(t)

	n, err := s.AvailableCount("X -> Y")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tid, err := s.Book("X -> Y", 1, ann, "sess-a")
	require.NoError(t, err)

	n, err = s.AvailableCount("X -> Y")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Cancel("X -> Y", 1, tid, "sess-a"))

	n, err = s.AvailableCount("X -> Y")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.AvailableCount("nope")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestAvailabilitySnapshot(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Book("Y -> X", 7, ann, "sess-a")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"X -> Y": 2, "Y -> X": 19}, s.Availability())
}

func TestBookValidationOrder(t *testing.T) {
	cases := []struct {
		name string
		trip string
		seat int
		info model.UserInfo
		want error
	}{
		// An unknown route wins over every other problem.
		{"unknown route first", "nope", 99, model.UserInfo{Name: "!", Phone: "x"}, ErrUnknownRoute},
		// Then the name, even when the phone and seat are bad too.
		{"name before phone", "X -> Y", 99, model.UserInfo{Name: "!", Phone: "x"}, ErrInvalidName},
		{"name too short", "X -> Y", 1, model.UserInfo{Name: "A", Phone: "0123456789"}, ErrInvalidName},
		{"name with digits", "X -> Y", 1, model.UserInfo{Name: "Ann 3", Phone: "0123456789"}, ErrInvalidName},
		// Then the phone, even when the seat is out of range.
		{"phone before seat", "X -> Y", 99, model.UserInfo{Name: "Ann Lee", Phone: "123"}, ErrInvalidPhone},
		// Then the seat range.
		{"seat too low", "X -> Y", 0, ann, ErrInvalidSeat},
		{"seat too high", "X -> Y", 3, ann, ErrInvalidSeat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			_, err := s.Book(tc.trip, tc.seat, tc.info, "sess-a")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBookRejectsTakenSeat(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Book("X -> Y", 1, ann, "sess-a")
	require.NoError(t, err)

	_, err = s.Book("X -> Y", 1, model.UserInfo{Name: "Bob Roe", Phone: "9876543210"}, "sess-b")
	assert.ErrorIs(t, err, ErrSeatTaken)

	// A failed book must not have touched the store.
	n, err := s.AvailableCount("X -> Y")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	const sessions = 64
	s := newTestStore(t)

	errs := make([]error, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := session.Identity(fmt.Sprintf("sess-%d", i))
			_, errs[i] = s.Book("X -> Y", 1, ann, owner)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrSeatTaken)
		}
	}
	assert.Equal(t, 1, won, "exactly one session should get the seat")

	n, err := s.AvailableCount("X -> Y")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConcurrentTicketIDsUnique(t *testing.T) {
	const sessions = 50
	s := newTestStore(t)

	tickets := make([]string, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tid, err := s.Book("Y -> X", i%20+1, ann, session.Identity(fmt.Sprintf("sess-%d", i)))
			if err == nil {
				tickets[i] = tid
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{})
	for _, tid := range tickets {
		if tid == "" {
			continue
		}
		_, dup := seen[tid]
		assert.False(t, dup, "duplicate ticket id %s", tid)
		seen[tid] = struct{}{}
	}
}

func TestTicketIDCollisionRetried(t *testing.T) {
	s := newTestStore(t)
	// Generator that repeats its first candidate once before moving on.
	seq := []string{"aaaa1111", "aaaa1111", "bbbb2222"}
	s.newTicketID = func() string {
		tid := seq[0]
		if len(seq) > 1 {
			seq = seq[1:]
		}
		return tid
	}

	t1, err := s.Book("Y -> X", 1, ann, "sess-a")
	require.NoError(t, err)
	t2, err := s.Book("Y -> X", 2, ann, "sess-a")
	require.NoError(t, err)

	assert.Equal(t, "aaaa1111", t1)
	assert.Equal(t, "bbbb2222", t2, "colliding candidate must be skipped")
}

func TestTicketIDsNeverReused(t *testing.T) {
	s := newTestStore(t)
	issued := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		tid, err := s.Book("X -> Y", 1, ann, "sess-a")
		require.NoError(t, err)
		_, dup := issued[tid]
		assert.False(t, dup, "ticket id %s reissued after cancel", tid)
		issued[tid] = struct{}{}
		require.NoError(t, s.Cancel("X -> Y", 1, tid, "sess-a"))
	}
}

func TestCancelChecksInOrder(t *testing.T) {
	s := newTestStore(t)
	tid, err := s.Book("X -> Y", 1, ann, "sess-a")
	require.NoError(t, err)

	// Existence first: unknown routes and free seats look the same.
	assert.ErrorIs(t, s.Cancel("nope", 1, tid, "sess-a"), ErrBookingNotFound)
	assert.ErrorIs(t, s.Cancel("X -> Y", 2, tid, "sess-a"), ErrBookingNotFound)
	// Then the ticket, even for the wrong requester.
	assert.ErrorIs(t, s.Cancel("X -> Y", 1, "wrong", "sess-b"), ErrTicketMismatch)
	// Then ownership: the right ticket from the wrong session fails.
	assert.ErrorIs(t, s.Cancel("X -> Y", 1, tid, "sess-b"), ErrNotOwner)

	// The booking survived all of the above.
	b, err := s.GetBooking("X -> Y", 1)
	require.NoError(t, err)
	assert.Equal(t, tid, b.TicketID)

	require.NoError(t, s.Cancel("X -> Y", 1, tid, "sess-a"))
	_, err = s.GetBooking("X -> Y", 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, s.Cancel("X -> Y", 1, tid, "sess-a"), ErrBookingNotFound)
}

func TestGetBookingErrors(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetBooking("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownRoute)
	_, err = s.GetBooking("X -> Y", 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListBookingsFilterByOwner(t *testing.T) {
	s := newTestStore(t)
	tidA, err := s.Book("Y -> X", 1, ann, "sess-a")
	require.NoError(t, err)
	_, err = s.Book("Y -> X", 2, model.UserInfo{Name: "Bob Roe", Phone: "9876543210"}, "sess-b")
	require.NoError(t, err)

	all, err := s.ListBookings("Y -> X", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.ListBookings("Y -> X", "sess-a")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, tidA, mine[1].TicketID)
	assert.Equal(t, session.Identity("sess-a"), mine[1].OwnerID)

	none, err := s.ListBookings("Y -> X", "sess-c")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.ListBookings("nope", "")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestConcurrentBookAndCancelKeepInvariant(t *testing.T) {
	const workers = 16
	const rounds = 50
	s := newTestStore(t)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			owner := session.Identity(fmt.Sprintf("sess-%d", w))
			for r := 0; r < rounds; r++ {
				seat := r%20 + 1
				if tid, err := s.Book("Y -> X", seat, ann, owner); err == nil {
					// Reads racing the cancel must see the booking
					// fully or not at all.
					if b, err := s.GetBooking("Y -> X", seat); err == nil && b.OwnerID == owner {
						assert.Equal(t, tid, b.TicketID)
					}
					_ = s.Cancel("Y -> X", seat, tid, owner)
				}
			}
		}(w)
	}
	wg.Wait()

	// Every booking was cancelled by its owner, so the trip ends empty
	// and availability is back at capacity.
	booked, err := s.ListBookings("Y -> X", "")
	require.NoError(t, err)
	assert.Empty(t, booked)
	n, err := s.AvailableCount("Y -> X")
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}
