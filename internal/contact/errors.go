package contact

import "errors"

var (
	// ErrMalformedRequest is returned when the body cannot be parsed in the declared encoding
	ErrMalformedRequest = errors.New("contact: malformed request body")

	// ErrValidationFailed is returned when name or email is missing.
	// Its text is shown to callers as is.
	ErrValidationFailed = errors.New("missing required fields")

	// ErrNotConfigured is returned when no email sender could be built at startup
	ErrNotConfigured = errors.New("contact: email service not configured")
)
