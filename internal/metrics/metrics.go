// Package metrics exposes Prometheus counters for the session lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_console"

// Login outcomes.
const (
	LoginSuccess           = "success"
	LoginTwoFactorRequired = "two_factor_required"
	LoginInvalid           = "invalid_credentials"
	LoginMalformed         = "malformed_response"
	LoginNetworkError      = "network_error"
	LoginInvalidCode       = "invalid_code"
	LoginStale             = "stale"
)

// Refresh outcomes.
const (
	RefreshSuccess      = "success"
	RefreshRetry        = "retry"
	RefreshTokenInvalid = "token_invalid"
	RefreshExhausted    = "exhausted"
)

// Logout reasons.
const (
	LogoutUser    = "user"
	LogoutExpired = "expired"
)

//nolint:gochecknoglobals // registered once with the default registry
var (
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_total",
		Help:      "Login and two-factor attempts, by outcome.",
	}, []string{"outcome"})

	refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_total",
		Help:      "Token refresh attempts, by outcome.",
	}, []string{"outcome"})

	logouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logout_total",
		Help:      "Session terminations, by reason.",
	}, []string{"reason"})
)

// Login counts a login or two-factor outcome.
func Login(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}

// Refresh counts a token refresh outcome.
func Refresh(outcome string) {
	refreshes.WithLabelValues(outcome).Inc()
}

// Logout counts a session termination.
func Logout(reason string) {
	logouts.WithLabelValues(reason).Inc()
}
