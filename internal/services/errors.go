package services

import "errors"

// Business-rule failures surfaced by the auth and review services. Handlers
// map these to HTTP statuses and stable error kinds; anything else coming out
// of a service is treated as a server fault.
var (
	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotVerified          = errors.New("user not verified")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidProviderToken = errors.New("invalid google token")
	ErrGoogleNotConfigured  = errors.New("google login is not configured")
	ErrForbidden            = errors.New("not authorized to perform this action")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ValidationError reports rejected request input (missing fields, out-of-range
// rating, unknown item type).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
