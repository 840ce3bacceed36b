// Package validator provides the input predicates used when booking a
// seat.  The checks are pure functions of their argument so they can be
// swapped out (for tests or for locale-specific rules) without touching
// the booking store itself.
package validator

import "regexp"

// Func is a predicate over one request field.  The booking store takes
// its name and phone checks as Func values.
type Func func(string) bool

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s]{2,}$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)
)

// Name reports whether s is an acceptable passenger name: letters and
// whitespace only, at least two characters.
func Name(s string) bool {
	return nameRe.MatchString(s)
}

// Phone reports whether s is an acceptable phone number: exactly ten
// digits, no separators.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}
