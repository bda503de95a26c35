package repository

import "errors"

// ErrEventFull is reported by ReserveSeat when no seats remain.
var ErrEventFull = errors.New("event is fully booked")

// ErrAlreadyRegistered is reported when an active ticket already exists for
// the same event and user.
var ErrAlreadyRegistered = errors.New("already registered for this event")
