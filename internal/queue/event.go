// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatBookedEvent is published when a seat is successfully booked.  It
// carries enough information for downstream consumers to log or notify
// without querying the booking store.
type SeatBookedEvent struct {
	TripID         string `json:"trip_id"`
	SeatNum        int    `json:"seat_num"`
	TicketID       string `json:"ticket_id"`
	PassengerName  string `json:"passenger_name"`
	PassengerPhone string `json:"passenger_phone"`
	OwnerID        string `json:"owner_id"`
	BookedAt       string `json:"booked_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and
// its seat returns to the free pool.
type BookingCancelledEvent struct {
	TripID      string `json:"trip_id"`
	SeatNum     int    `json:"seat_num"`
	TicketID    string `json:"ticket_id"`
	OwnerID     string `json:"owner_id"`
	CancelledAt string `json:"cancelled_at"`
}
