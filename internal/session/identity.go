// Package session defines the opaque identity assigned to each
// connected client.  One identity is generated when a session starts
// and is held for the whole life of the connection.  It is the only
// credential the engine ever uses for ownership checks; nothing a
// client sends can substitute for it.
//
// Identities are never reused and never recoverable: when a session
// disconnects, any bookings it owns remain live but can no longer be
// cancelled by anyone.  That is documented behavior of the protocol,
// not an oversight.
package session

import "github.com/google/uuid"

// Identity is an opaque per-connection token.  The underlying value is
// a v4 UUID string, so accidental collision across the process
// lifetime is not a practical concern.
type Identity string

// New generates a fresh identity for a starting session.
func New() Identity {
	return Identity(uuid.NewString())
}
