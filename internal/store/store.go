package store

import "errors"

// ErrNotFound is returned when the requested record does not exist.
// Handlers map it to the not-found page rather than a server fault.
var ErrNotFound = errors.New("record not found")
