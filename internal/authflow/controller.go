// Package authflow drives a console login to a consistent end state: direct
// login, login with a two-factor step, cancellation and logout.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/metrics"
	"github.com/atelier-market/admin-console/internal/notice"
	"github.com/atelier-market/admin-console/internal/session"
)

// State is a step of the login flow.
type State int

const (
	// StateAnonymous means nobody is logged in and no login is running.
	StateAnonymous State = iota
	// StateCredentialsSubmitted means a credential check is in flight.
	StateCredentialsSubmitted
	// StateTwoFactorPending means the backend asked for a two-factor code.
	StateTwoFactorPending
	// StateAuthenticated means the session holds an actor.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateCredentialsSubmitted:
		return "credentials_submitted"
	case StateTwoFactorPending:
		return "two_factor_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// User-visible notices.
const (
	msgInvalidCredentials = "Invalid email or password."
	msgMalformed          = "Login response malformed. Please try again."
	msgInvalidCode        = "Invalid verification code. Please try again."
	msgNetwork            = "Could not reach the server. Please try again."
	msgWelcome            = "Signed in."
	msgCodeRequired       = "Enter the verification code from your authenticator app."
	msgSignedOut          = "Signed out."
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where user-visible notices go.
func WithNotifier(n notice.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithDigits sets the expected length of two-factor codes.
func WithDigits(d otp.Digits) Option {
	return func(c *Controller) {
		c.digits = d
	}
}

// Controller owns the login state machine. The two-factor temp token lives
// only here, never in the session.
type Controller struct {
	mu        sync.Mutex
	state     State
	attempt   uuid.UUID
	tempToken string
	actorID   *uint64

	session  Session
	backend  Backend
	notifier notice.Notifier
	validate *validator.Validate
	digits   otp.Digits
}

// New creates a controller writing to sess and talking to backend.
func New(sess Session, backend Backend, opts ...Option) *Controller {
	if sess == nil || backend == nil {
		panic("authflow: session and backend are required")
	}

	c := &Controller{
		session:  sess,
		backend:  backend,
		notifier: notice.Discard{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		digits:   otp.DigitsSix,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current step. A session ended elsewhere, for example by the
// refresh daemon, reads as anonymous.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.session.IsAuthenticated():
		return StateAuthenticated
	case c.state == StateAuthenticated:
		return StateAnonymous
	default:
		return c.state
	}
}

// SubmitCredentials starts a login.
func (c *Controller) SubmitCredentials(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	if err := c.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		c.notifier.Notify(notice.KindError, msgInvalidCredentials)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err) //nolint:errorlint // validator detail is informational
	}

	c.mu.Lock()
	if c.session.IsAuthenticated() {
		c.mu.Unlock()
		return ErrAlreadyAuthenticated
	}

	if c.state == StateTwoFactorPending {
		c.session.CancelTwoFactor()
	}

	attempt := c.beginAttemptLocked(StateCredentialsSubmitted)
	c.mu.Unlock()

	res, err := c.backend.Login(ctx, email, password)

	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt {
		metrics.Login(metrics.LoginStale)
		return ErrStale
	}

	if err != nil {
		c.resetLocked()
		return c.loginFailure(email, err)
	}

	if !res.RequiresTwoFactor {
		if res.Actor == nil || !complete(*res.Actor, res.Tokens) {
			c.resetLocked()
			metrics.Login(metrics.LoginMalformed)
			log.Error().Str("email", email).Msg("login response without a valid actor or access token")
			c.notifier.Notify(notice.KindError, msgMalformed)

			return ErrMalformedResponse
		}

		c.session.Establish(*res.Actor, res.Permissions, res.Tokens)
		c.state = StateAuthenticated

		metrics.Login(metrics.LoginSuccess)
		log.Info().Uint64("actor_id", res.Actor.ID).Str("role", string(res.Actor.Role)).Msg("login succeeded")
		c.notifier.Notify(notice.KindInfo, msgWelcome)

		return nil
	}

	if res.ActorIDHint == nil {
		c.resetLocked()
		metrics.Login(metrics.LoginMalformed)
		log.Error().Str("email", email).Msg("two-factor login response without actor id")
		c.notifier.Notify(notice.KindError, msgMalformed)

		return ErrMissingActorIDHint
	}

	if err := c.session.BeginTwoFactor(email); err != nil {
		c.resetLocked()
		return err
	}

	actorID := *res.ActorIDHint
	c.state = StateTwoFactorPending
	c.tempToken = res.TempToken
	c.actorID = &actorID

	metrics.Login(metrics.LoginTwoFactorRequired)
	log.Info().Str("email", email).Msg("two-factor verification required")
	c.notifier.Notify(notice.KindInfo, msgCodeRequired)

	return nil
}

func (c *Controller) loginFailure(email string, err error) error {
	if errors.Is(err, ErrInvalidCredentials) {
		metrics.Login(metrics.LoginInvalid)
		log.Warn().Str("email", email).Msg("login rejected")
		c.notifier.Notify(notice.KindError, msgInvalidCredentials)

		return ErrInvalidCredentials
	}

	metrics.Login(metrics.LoginNetworkError)
	log.Error().Err(err).Str("email", email).Msg("login request failed")
	c.notifier.Notify(notice.KindError, msgNetwork)

	return networkError(err)
}

// SubmitTwoFactorCode completes a login waiting for its two-factor code. A
// rejected code keeps the flow pending so the user can retry.
func (c *Controller) SubmitTwoFactorCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	if c.state != StateTwoFactorPending {
		c.mu.Unlock()
		return ErrNotPending
	}

	if c.actorID == nil {
		c.mu.Unlock()
		return ErrMissingActorIDHint
	}

	if err := c.validate.Var(code, "required,numeric,len="+strconv.Itoa(c.digits.Length())); err != nil {
		c.mu.Unlock()
		c.notifier.Notify(notice.KindError, msgInvalidCode)

		return fmt.Errorf("%w: %v", ErrInvalidInput, err) //nolint:errorlint // validator detail is informational
	}

	attempt, tempToken, actorID := c.attempt, c.tempToken, *c.actorID
	c.mu.Unlock()

	res, err := c.backend.VerifyTwoFactor(ctx, tempToken, code, actorID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt || c.state != StateTwoFactorPending {
		metrics.Login(metrics.LoginStale)
		log.Debug().Uint64("actor_id", actorID).Msg("ignoring two-factor response for a cancelled attempt")

		return ErrStale
	}

	if err != nil {
		if errors.Is(err, ErrInvalidTwoFactorCode) {
			metrics.Login(metrics.LoginInvalidCode)
			log.Warn().Uint64("actor_id", actorID).Msg("two-factor code rejected")
			c.notifier.Notify(notice.KindError, msgInvalidCode)

			return ErrInvalidTwoFactorCode
		}

		metrics.Login(metrics.LoginNetworkError)
		log.Error().Err(err).Uint64("actor_id", actorID).Msg("two-factor verification failed")
		c.notifier.Notify(notice.KindError, msgNetwork)

		return networkError(err)
	}

	// a malformed verification ends the attempt like a malformed login
	if !complete(res.Actor, res.Tokens) {
		c.session.CancelTwoFactor()
		c.resetLocked()
		metrics.Login(metrics.LoginMalformed)
		log.Error().Uint64("actor_id", actorID).Msg("two-factor response without a valid actor or access token")
		c.notifier.Notify(notice.KindError, msgMalformed)

		return ErrMalformedResponse
	}

	c.session.Establish(res.Actor, res.Permissions, res.Tokens)
	c.clearLocked()
	c.state = StateAuthenticated

	metrics.Login(metrics.LoginSuccess)
	log.Info().Uint64("actor_id", res.Actor.ID).Str("role", string(res.Actor.Role)).Msg("two-factor login succeeded")
	c.notifier.Notify(notice.KindInfo, msgWelcome)

	return nil
}

// Cancel abandons a running login. Responses still in flight are ignored.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateTwoFactorPending && c.state != StateCredentialsSubmitted {
		return
	}

	if c.state == StateTwoFactorPending {
		c.session.CancelTwoFactor()
	}

	c.resetLocked()
	log.Info().Msg("login cancelled")
}

// Logout ends the session from any state. The local session is always cleared;
// the server-side invalidation is best effort.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	tokens := c.session.Tokens()
	c.session.Logout()
	c.resetLocked()
	c.mu.Unlock()

	metrics.Logout(metrics.LogoutUser)
	c.notifier.Notify(notice.KindInfo, msgSignedOut)

	if tokens.AccessToken == "" {
		return
	}

	if err := c.backend.InvalidateSession(ctx, tokens.AccessToken); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate server session")
	}
}

// beginAttemptLocked starts a new attempt; older in-flight responses become stale.
func (c *Controller) beginAttemptLocked(state State) uuid.UUID {
	c.clearLocked()
	c.state = state
	c.attempt = uuid.New()

	return c.attempt
}

func (c *Controller) resetLocked() {
	c.beginAttemptLocked(StateAnonymous)
}

func (c *Controller) clearLocked() {
	c.tempToken = ""
	c.actorID = nil
}

// complete reports whether a login answer may authenticate the session.
func complete(actor session.Actor, tokens session.Tokens) bool {
	return actor.Role.Valid() && tokens.AccessToken != ""
}

func networkError(err error) error {
	if errors.Is(err, ErrNetwork) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
