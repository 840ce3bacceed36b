package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bus-seat-reservation/internal/model"
	"github.com/iliyamo/bus-seat-reservation/internal/registry"
	"github.com/iliyamo/bus-seat-reservation/internal/session"
	"github.com/iliyamo/bus-seat-reservation/internal/validator"
)

// ticketIDLength is the number of characters of a v4 UUID kept as a
// ticket id.  Short enough to read back over the phone, so the store
// must also guard against the (unlikely) collision.
const ticketIDLength = 8

// BookingStore owns all seat state.  Every operation takes the single
// store mutex, performs its reads and writes, and releases it before
// returning, so each call is atomic with respect to every other call
// on any trip.  The zero value is not usable; construct with New.
type BookingStore struct {
	mu    sync.Mutex
	reg   *registry.Registry
	seats map[string]map[int]model.Booking // trip id -> seat number -> booking

	// issued remembers every ticket id ever handed out, live or
	// cancelled, so ids stay unique for the whole process lifetime.
	issued map[string]struct{}

	validName  validator.Func
	validPhone validator.Func

	// newTicketID is the raw candidate generator.  Overridable so
	// collision handling can be exercised in tests.
	newTicketID func() string
}

// New returns a BookingStore over the given registry with all seats
// free.  The name and phone predicates are supplied by the caller; the
// store never interprets those fields beyond passing them through.
func New(reg *registry.Registry, validName, validPhone validator.Func) *BookingStore {
	s := &BookingStore{
		reg:         reg,
		seats:       make(map[string]map[int]model.Booking),
		issued:      make(map[string]struct{}),
		validName:   validName,
		validPhone:  validPhone,
		newTicketID: defaultTicketID,
	}
	for _, t := range reg.List() {
		s.seats[t.ID] = make(map[int]model.Booking)
	}
	return s
}

func defaultTicketID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:ticketIDLength]
}

// AvailableCount returns the number of free seats on the trip:
// capacity minus live bookings.
func (s *BookingStore) AvailableCount(tripID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, ok := s.reg.TotalSeats(tripID)
	if !ok {
		return 0, ErrUnknownRoute
	}
	return total - len(s.seats[tripID]), nil
}

// Availability returns the free-seat count for every registered trip,
// computed in one critical section so the numbers are a consistent
// snapshot.
func (s *BookingStore) Availability() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.seats))
	for _, t := range s.reg.List() {
		out[t.ID] = t.TotalSeats - len(s.seats[t.ID])
	}
	return out
}

// ListBookings returns the live bookings on the trip keyed by seat
// number.  When owner is non-empty only bookings created by that
// session are included.  The returned map is a copy; mutating it does
// not affect the store.
func (s *BookingStore) ListBookings(tripID string, owner session.Identity) (map[int]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booked, ok := s.seats[tripID]
	if !ok {
		return nil, ErrUnknownRoute
	}
	out := make(map[int]model.Booking, len(booked))
	for seat, b := range booked {
		if owner != "" && b.OwnerID != owner {
			continue
		}
		out[seat] = b
	}
	return out, nil
}

// Book reserves a seat for the given session and returns the ticket id
// needed to cancel it later.  The checks run in a fixed order — trip,
// name, phone, seat range, occupancy — and the first failure wins, so
// clients always see the same reason for the same bad request.  The
// occupancy check and the booking creation happen inside one critical
// section: two sessions racing for the same seat can never both see it
// free.
func (s *BookingStore) Book(tripID string, seatNum int, info model.UserInfo, owner session.Identity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, ok := s.reg.TotalSeats(tripID)
	if !ok {
		return "", ErrUnknownRoute
	}
	if !s.validName(info.Name) {
		return "", ErrInvalidName
	}
	if !s.validPhone(info.Phone) {
		return "", ErrInvalidPhone
	}
	if seatNum < 1 || seatNum > total {
		return "", ErrInvalidSeat
	}
	if _, taken := s.seats[tripID][seatNum]; taken {
		return "", ErrSeatTaken
	}

	tid := s.issueTicketID()
	s.seats[tripID][seatNum] = model.Booking{
		TripID:    tripID,
		SeatNum:   seatNum,
		UserInfo:  info,
		Timestamp: time.Now().Format(model.TimestampLayout),
		TicketID:  tid,
		OwnerID:   owner,
	}
	return tid, nil
}

// issueTicketID draws candidates until one is unused, then records it.
// Callers must hold s.mu.
func (s *BookingStore) issueTicketID() string {
	for {
		tid := s.newTicketID()
		if _, dup := s.issued[tid]; dup {
			continue
		}
		s.issued[tid] = struct{}{}
		return tid
	}
}

// GetBooking returns the booking at the given trip and seat.
func (s *BookingStore) GetBooking(tripID string, seatNum int) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booked, ok := s.seats[tripID]
	if !ok {
		return model.Booking{}, ErrUnknownRoute
	}
	b, ok := booked[seatNum]
	if !ok {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

// Cancel removes the booking at the given trip and seat, freeing it
// for others.  The checks run in a fixed order: the booking must
// exist, the supplied ticket id must match, and the requester must be
// the session that created it.  An unknown trip reports
// ErrBookingNotFound like any other empty seat, matching the wire
// protocol.
func (s *BookingStore) Cancel(tripID string, seatNum int, ticketID string, requester session.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.seats[tripID][seatNum]
	if !ok {
		return ErrBookingNotFound
	}
	if b.TicketID != ticketID {
		return ErrTicketMismatch
	}
	if b.OwnerID != requester {
		return ErrNotOwner
	}
	delete(s.seats[tripID], seatNum)
	return nil
}
