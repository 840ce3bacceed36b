package model

import "github.com/iliyamo/bus-seat-reservation/internal/session"

// TimestampLayout is the format used for booking timestamps on the
// wire.  It matches what clients already expect from the protocol.
const TimestampLayout = "2006-01-02 15:04:05"

// UserInfo carries the passenger details supplied with a booking
// request.  Both fields are validated before a booking is created.
type UserInfo struct {
	Name  string `json:"name"`  // passenger name, letters and spaces, length >= 2
	Phone string `json:"phone"` // passenger phone, exactly 10 digits
}

// Booking records one occupied seat on a trip.  A booking exists from
// the moment a book command succeeds until the owning session cancels
// it with the matching ticket id.  Bookings are never updated in place.
//
// Fields:
//  TripID    – route the seat belongs to (not serialized; the wire
//              representation is always nested under its trip).
//  SeatNum   – seat number within [1, TotalSeats] (keyed by seat on
//              the wire, so not serialized either).
//  UserInfo  – passenger name and phone.
//  Timestamp – creation time, formatted with TimestampLayout.
//  TicketID  – short unique token required to cancel.
//  OwnerID   – identity of the session that created the booking.
type Booking struct {
	TripID    string           `json:"-"`
	SeatNum   int              `json:"-"`
	UserInfo  UserInfo         `json:"user_info"`
	Timestamp string           `json:"timestamp"`
	TicketID  string           `json:"ticket_id"`
	OwnerID   session.Identity `json:"owner_id"`
}
