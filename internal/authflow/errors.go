package authflow

import "errors"

var (
	// ErrInvalidCredentials is returned when the backend rejects the email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingActorIDHint is returned when a two-factor login response omits the
	// actor id that the verification call needs.
	ErrMissingActorIDHint = errors.New("login response malformed: missing actor id")

	// ErrMalformedResponse is returned when a direct login response lacks the actor or the access token.
	ErrMalformedResponse = errors.New("login response malformed")

	// ErrInvalidTwoFactorCode is returned when the backend rejects a two-factor code.
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")

	// ErrNetwork is returned when a collaborator could not be reached or failed unexpectedly.
	ErrNetwork = errors.New("network failure")

	// ErrNotPending is returned when a two-factor code is submitted outside the two-factor step.
	ErrNotPending = errors.New("no two-factor verification in progress")

	// ErrStale is returned when a response arrives for an attempt that was cancelled or superseded.
	ErrStale = errors.New("login attempt is no longer current")

	// ErrInvalidInput is returned when the submitted form fails client-side validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyAuthenticated is returned when credentials are submitted for an authenticated session.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
)
