package authflow

import (
	"context"

	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

// LoginResult is the answer of the authentication collaborator.
// When RequiresTwoFactor is set only TempToken and ActorIDHint are meaningful.
// A nil Permissions means the backend sent no list.
type LoginResult struct {
	RequiresTwoFactor bool
	TempToken         string
	ActorIDHint       *uint64
	Actor             *session.Actor
	Permissions       []permission.Permission
	Tokens            session.Tokens
}

// VerifyResult is the answer of the two-factor collaborator.
type VerifyResult struct {
	Actor       session.Actor
	Permissions []permission.Permission
	Tokens      session.Tokens
}

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// TwoFactorVerifier completes a two-factor login.
type TwoFactorVerifier interface {
	VerifyTwoFactor(ctx context.Context, tempToken, code string, actorID uint64) (VerifyResult, error)
}

// SessionInvalidator ends the server-side session of an access token.
type SessionInvalidator interface {
	InvalidateSession(ctx context.Context, accessToken string) error
}

// Backend bundles the collaborators the controller talks to.
type Backend interface {
	Authenticator
	TwoFactorVerifier
	SessionInvalidator
}

// Session is the part of the session state the controller writes.
type Session interface {
	Establish(actor session.Actor, perms []permission.Permission, tokens session.Tokens)
	BeginTwoFactor(email string) error
	CancelTwoFactor()
	Logout()
	Tokens() session.Tokens
	IsAuthenticated() bool
}
