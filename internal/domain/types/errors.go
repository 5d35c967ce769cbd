package types

import "errors"

var (
	// ErrAccountExists is returned when the email is already registered.
	ErrAccountExists = errors.New("an account with this email already exists")

	// ErrPermissionDenied is returned when the user or provider refuses geolocation.
	ErrPermissionDenied = errors.New("geolocation permission denied")

	// ErrNoResults is returned when a geocoding lookup finds nothing.
	ErrNoResults = errors.New("no geocoding results")
)

// RejectedError is returned when the backend refuses a request it understood,
// such as a payload that fails server-side validation.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "rejected: " + e.Message }
