// Package refresh keeps the access token of an authenticated session valid by
// refreshing it shortly before it expires.
package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/metrics"
	"github.com/atelier-market/admin-console/internal/notice"
	"github.com/atelier-market/admin-console/internal/session"
)

// ErrRefreshTokenInvalid is returned by a Refresher when the refresh token is
// invalid, expired or revoked. The daemon treats it as fatal.
var ErrRefreshTokenInvalid = errors.New("refresh token invalid")

const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgRefreshRetry   = "Could not reach the server to renew your session. Retrying."
)

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (session.Tokens, error)
}

// Session is the part of the session state the daemon reads and writes.
type Session interface {
	Tokens() session.Tokens
	SetTokens(tokens session.Tokens)
	IsAuthenticated() bool
	Logout()
	Subscribe() (<-chan struct{}, func())
}

// Config tunes the refresh schedule.
type Config struct {
	// Leeway is how long before expiry the refresh happens.
	Leeway time.Duration
	// Interval is used when the token expiry is unknown.
	Interval time.Duration
	// MaxRetries bounds retries after transient failures.
	MaxRetries int
	// RetryDelay is the pause between retries.
	RetryDelay time.Duration
}

// DefaultConfig returns the schedule used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Leeway:     time.Minute,
		Interval:   10 * time.Minute, //nolint:mnd
		MaxRetries: 3,                //nolint:mnd
		RetryDelay: 5 * time.Second,  //nolint:mnd
	}
}

// Daemon refreshes tokens in the background while the session is authenticated.
type Daemon struct {
	session   Session
	refresher Refresher
	notifier  notice.Notifier
	cfg       Config
	now       func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a daemon. Zero config fields fall back to DefaultConfig.
func New(sess Session, refresher Refresher, notifier notice.Notifier, cfg Config) *Daemon {
	def := DefaultConfig()

	if cfg.Leeway <= 0 {
		cfg.Leeway = def.Leeway
	}

	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}

	if notifier == nil {
		notifier = notice.Discard{}
	}

	return &Daemon{
		session:   sess,
		refresher: refresher,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Stop ends Run and cancels any scheduled or in-flight refresh. It may be called
// any number of times.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Done is closed when Run has returned.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Run schedules refreshes until ctx ends or Stop is called.
func (d *Daemon) Run(ctx context.Context) {
	defer close(d.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-d.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	changes, release := d.session.Subscribe()
	defer release()

	r := runner{Daemon: d}
	defer r.idle()

	r.sync()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			r.sync()
		case <-r.timerC:
			r.timerC = nil
			r.tick(ctx)
		}
	}
}

// runner holds the state of one Run loop.
type runner struct {
	*Daemon
	timer     *time.Timer
	timerC    <-chan time.Time
	active    bool
	scheduled string // access token the current timer was computed for
	retries   int
}

// sync reacts to a session change. Changes that keep the authenticated flag
// and the access token are ignored so a pending retry is not reset.
func (r *runner) sync() {
	authenticated := r.session.IsAuthenticated()
	access := r.session.Tokens().AccessToken

	if authenticated == r.active && access == r.scheduled {
		return
	}

	r.retries = 0
	r.active = authenticated
	r.scheduled = access

	if !authenticated {
		r.idle()
		return
	}

	r.schedule(r.nextDelay(r.session.Tokens()))
}

func (r *runner) schedule(delay time.Duration) {
	r.idle()

	r.timer = time.NewTimer(delay)
	r.timerC = r.timer.C

	log.Debug().Dur("in", delay).Msg("token refresh scheduled")
}

func (r *runner) idle() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}

	r.timerC = nil
}

func (r *runner) tick(ctx context.Context) {
	current := r.session.Tokens()
	if !r.session.IsAuthenticated() {
		return
	}

	if current.RefreshToken == "" {
		r.expire(metrics.RefreshTokenInvalid, errors.New("no refresh token"))
		return
	}

	tokens, err := r.refresher.Refresh(ctx, current.RefreshToken)
	if ctx.Err() != nil {
		return
	}

	// the session moved on while the call was in flight
	if !r.session.IsAuthenticated() || r.session.Tokens().RefreshToken != current.RefreshToken {
		return
	}

	switch {
	case err == nil:
		if tokens.RefreshToken == "" {
			tokens.RefreshToken = current.RefreshToken
		}

		r.retries = 0
		r.scheduled = tokens.AccessToken
		r.session.SetTokens(tokens)
		metrics.Refresh(metrics.RefreshSuccess)
		log.Debug().Msg("access token refreshed")

		r.schedule(r.nextDelay(tokens))
	case errors.Is(err, ErrRefreshTokenInvalid):
		r.expire(metrics.RefreshTokenInvalid, err)
	case r.retries >= r.cfg.MaxRetries:
		r.expire(metrics.RefreshExhausted, err)
	default:
		r.retries++
		metrics.Refresh(metrics.RefreshRetry)
		log.Warn().Err(err).Int("attempt", r.retries).Msg("token refresh failed, retrying")
		r.notifier.Notify(notice.KindError, msgRefreshRetry)

		r.schedule(r.cfg.RetryDelay)
	}
}

// expire ends the session after an unrecoverable refresh failure.
func (r *runner) expire(outcome string, err error) {
	r.idle()
	r.active = false
	r.scheduled = ""

	metrics.Refresh(outcome)
	metrics.Logout(metrics.LogoutExpired)
	log.Warn().Err(err).Str("outcome", outcome).Msg("session expired")

	r.session.Logout()
	r.notifier.Notify(notice.KindSessionExpired, msgSessionExpired)
}

// nextDelay returns the wait before refreshing tokens.
func (d *Daemon) nextDelay(tokens session.Tokens) time.Duration {
	expiry := tokens.Expiry
	if expiry.IsZero() {
		expiry = AccessTokenExpiry(tokens.AccessToken)
	}

	if expiry.IsZero() {
		return d.cfg.Interval
	}

	return max(expiry.Sub(d.now())-d.cfg.Leeway, 0)
}

// AccessTokenExpiry reads the exp claim of a JWT access token without
// verifying it. It returns the zero time for opaque or malformed tokens.
func AccessTokenExpiry(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	var claims jwt.RegisteredClaims

	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}

	return claims.ExpiresAt.Time
}
