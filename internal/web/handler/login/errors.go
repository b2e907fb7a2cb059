// Package login provides the HTTP endpoints of the login flow.
package login

import "errors"

// ErrInvalidFormData is returned when the submitted body cannot be parsed.
var ErrInvalidFormData = errors.New("invalid form data")
