// Package repository implements the booking store: the single source
// of truth for every seat on every trip.  This file defines the
// sentinel error values shared across the store's operations.  They
// describe normal business outcomes, never internal faults, and the
// engine layer distinguishes them with errors.Is when shaping a
// response for the client.
package repository

import "errors"

// ErrUnknownRoute is returned when the referenced trip is not in the
// registry.
var ErrUnknownRoute = errors.New("trip does not exist")

// ErrInvalidName is returned when the passenger name fails the name
// validator.
var ErrInvalidName = errors.New("invalid name")

// ErrInvalidPhone is returned when the passenger phone fails the phone
// validator.
var ErrInvalidPhone = errors.New("invalid phone number")

// ErrInvalidSeat is returned when the seat number is outside
// [1, total seats] for the trip.
var ErrInvalidSeat = errors.New("invalid seat number")

// ErrSeatTaken is returned when the requested seat already has a live
// booking.
var ErrSeatTaken = errors.New("seat already booked")

// ErrBookingNotFound is returned when no booking exists at the given
// trip and seat.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTicketMismatch is returned when the supplied ticket id does not
// match the one stored on the booking.
var ErrTicketMismatch = errors.New("wrong ticket id")

// ErrNotOwner is returned when a session tries to cancel a booking it
// did not create, even if it presents the correct ticket id.
var ErrNotOwner = errors.New("cannot cancel another client's booking")
