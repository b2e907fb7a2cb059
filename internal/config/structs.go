package config

import (
	"time"

	"github.com/atelier-market/admin-console/internal/logger"
)

// Config overall data structure.
type Config struct {
	Title     string
	DevMode   bool // enable dev mode for development
	Log       logger.Log
	Backend   Backend
	Webserver Webserver
	Store     Store
	Refresh   Refresh
	TwoFactor TwoFactor
}

// Backend is the marketplace admin API.
type Backend struct {
	URL     string        // base url, e.g. https://api.atelier.market
	Timeout time.Duration // per request
}

// Webserver implement webserver settings.
type Webserver struct {
	Host           string // listening address, empty for all interfaces
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	DisableRecover bool   // disable recover middleware
}

// Store selects where the session is persisted.
type Store struct {
	Engine string // sqlite, mysql or postgres
	Path   string // sqlite database file
	Name   string // session slot name
	DB     DB     // mysql and postgres connection
}

// DB holds the database configuration settings.
type DB struct {
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Refresh tunes the token refresh daemon.
type Refresh struct {
	Leeway     time.Duration
	Interval   time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// TwoFactor holds the two-factor code settings.
type TwoFactor struct {
	Digits int // 6 or 8
}
