package config

import (
	"errors"
)

var (
	// ErrEmptyBackendURL error if config backend.url is empty.
	ErrEmptyBackendURL = errors.New("config backend.url can not be empty")

	// ErrInvalidBackendURL error if config backend.url is not an absolute http(s) url.
	ErrInvalidBackendURL = errors.New("config backend.url must be an absolute http or https url")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownStoreEngine error if config store.engine is not supported.
	ErrUnknownStoreEngine = errors.New("config store.engine must be sqlite, mysql or postgres")

	// ErrUnsupportedDigits error if config twofactor.digits is neither 6 nor 8.
	ErrUnsupportedDigits = errors.New("config twofactor.digits must be 6 or 8")
)
