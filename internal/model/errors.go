package model

import "errors"

// Client-side errors shared across views.
var (
	// ErrLoginRequired is returned, without any network call, when an
	// anonymous user attempts a protected action.
	ErrLoginRequired = errors.New("you must log in to do that")

	// ErrBusy is returned when the same operation is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrDeleteNotConfirmed is returned when the user declines a delete prompt.
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")

	// ErrListFloor is returned when removing the last item of a list field.
	ErrListFloor = errors.New("list must keep at least one item")

	// ErrViewClosed is returned when a result arrives after its view was torn down.
	ErrViewClosed = errors.New("view closed")
)
