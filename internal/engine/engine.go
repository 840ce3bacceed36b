// Package engine dispatches decoded client requests to the booking
// store and shapes the responses.  Each request is handled on its own:
// there is no protocol state beyond the session identity the transport
// binds to every call.  The identity is the one trust boundary — the
// engine never reads an owner from request content, so a client cannot
// forge ownership of someone else's booking.
package engine

import (
	"fmt"
	"time"

	"github.com/iliyamo/bus-seat-reservation/internal/model"
	"github.com/iliyamo/bus-seat-reservation/internal/queue"
	"github.com/iliyamo/bus-seat-reservation/internal/repository"
	"github.com/iliyamo/bus-seat-reservation/internal/session"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Command names accepted on the wire.
const (
	CmdGetClientID    = "get_client_id"
	CmdViewTrips      = "view_trips"
	CmdGetSeats       = "get_seats"
	CmdBookSeat       = "book_seat"
	CmdGetBookingInfo = "get_booking_info"
	CmdCancelBooking  = "cancel_booking"
)

// Request is one decoded client command.  Fields beyond Command are
// only meaningful for the commands that use them.
type Request struct {
	Command  string         `json:"command"`
	TripID   string         `json:"trip_id,omitempty"`
	SeatNum  int            `json:"seat_num,omitempty"`
	OnlyMine bool           `json:"only_mine,omitempty"`
	UserInfo model.UserInfo `json:"user_info,omitempty"`
	TicketID string         `json:"ticket_id,omitempty"`
}

// Response is the single reply produced for a request.  Status is
// always set; the remaining fields depend on the command.
type Response struct {
	Status      string                `json:"status"`
	Message     string                `json:"message,omitempty"`
	ClientID    session.Identity      `json:"client_id,omitempty"`
	Trips       map[string]int        `json:"trips,omitempty"`
	BookedSeats map[int]model.Booking `json:"booked_seats,omitempty"`
	Info        *model.Booking        `json:"info,omitempty"`
	TicketID    string                `json:"ticket_id,omitempty"`
}

// EventSink receives domain events after a successful mutation.
// Implementations must be non-blocking; publish failures are theirs to
// log and swallow.  A nil sink disables events.
type EventSink interface {
	SeatBooked(ev queue.SeatBookedEvent)
	BookingCancelled(ev queue.BookingCancelledEvent)
}

// Engine puts the booking store behind the command dispatch table.
type Engine struct {
	store  *repository.BookingStore
	events EventSink
}

// New returns an Engine over the given store.  events may be nil when
// no broker is configured.
func New(store *repository.BookingStore, events EventSink) *Engine {
	return &Engine{store: store, events: events}
}

// Handle executes one request on behalf of the session identified by
// sid and returns the response to send back.  Business failures come
// back as error responses; Handle itself never fails.
func (e *Engine) Handle(sid session.Identity, req Request) Response {
	switch req.Command {
	case CmdGetClientID:
		return Response{Status: StatusSuccess, ClientID: sid}

	case CmdViewTrips:
		return Response{Status: StatusSuccess, Trips: e.store.Availability()}

	case CmdGetSeats:
		owner := session.Identity("")
		if req.OnlyMine {
			owner = sid
		}
		booked, err := e.store.ListBookings(req.TripID, owner)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: StatusSuccess, BookedSeats: booked}

	case CmdBookSeat:
		tid, err := e.store.Book(req.TripID, req.SeatNum, req.UserInfo, sid)
		if err != nil {
			return errorResponse(err)
		}
		if e.events != nil {
			e.events.SeatBooked(queue.SeatBookedEvent{
				TripID:         req.TripID,
				SeatNum:        req.SeatNum,
				TicketID:       tid,
				PassengerName:  req.UserInfo.Name,
				PassengerPhone: req.UserInfo.Phone,
				OwnerID:        string(sid),
				BookedAt:       time.Now().Format(model.TimestampLayout),
			})
		}
		return Response{
			Status:   StatusSuccess,
			Message:  fmt.Sprintf("booking confirmed! ticket id: %s", tid),
			TicketID: tid,
		}

	case CmdGetBookingInfo:
		b, err := e.store.GetBooking(req.TripID, req.SeatNum)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: StatusSuccess, Info: &b}

	case CmdCancelBooking:
		if err := e.store.Cancel(req.TripID, req.SeatNum, req.TicketID, sid); err != nil {
			return errorResponse(err)
		}
		if e.events != nil {
			e.events.BookingCancelled(queue.BookingCancelledEvent{
				TripID:      req.TripID,
				SeatNum:     req.SeatNum,
				TicketID:    req.TicketID,
				OwnerID:     string(sid),
				CancelledAt: time.Now().Format(model.TimestampLayout),
			})
		}
		return Response{Status: StatusSuccess, Message: "booking cancelled"}

	default:
		return Response{Status: StatusError, Message: "unknown command"}
	}
}

// errorResponse turns a store sentinel into the wire error shape.  The
// sentinel texts double as the client-facing messages.
func errorResponse(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}
