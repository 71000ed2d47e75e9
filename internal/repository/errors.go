// Package repository implements all database queries for the event
// management system. It uses pgx directly (no ORM) for transparency and
// performance.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller does not own the resource it is
// trying to mutate.
var ErrForbidden = errors.New("not the owner of this resource")

// ErrEventFull is returned when admitting a team would exceed the event's
// participant cap.
var ErrEventFull = errors.New("event is at full capacity")

// ErrAlreadyRegistered is returned when any proposed member is already
// registered for the event.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrRegistrationClosed is returned when the registration deadline has
// passed.
var ErrRegistrationClosed = errors.New("registration deadline has passed")

// ErrEmailTaken is returned when signing up with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")
