package session

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/atelier-market/admin-console/internal/permission"
)

// Role is the coarse-grained classification of an administrator.
type Role string

const (
	// RoleSuperAdmin is authorized for everything, without permission enumeration.
	RoleSuperAdmin Role = "SuperAdmin"
	// RoleModerator is authorized through its explicit permission set.
	RoleModerator Role = "Moderator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleModerator
}

// Actor is the authenticated administrator of a session.
type Actor struct {
	ID               uint64    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             Role      `json:"role"`
	Avatar           string    `json:"avatar,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
}

// Tokens is the access/refresh token pair of a session.
// A zero Expiry means the expiry is not known.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Empty reports whether neither token is set.
func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// OAuth2 returns the pair as an oauth2 bearer token.
func (t Tokens) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// Valid reports whether the access token is present and not about to expire.
func (t Tokens) Valid() bool {
	return t.OAuth2().Valid()
}

// AuthorizationHeader returns the value of the Authorization header for the access token.
func (t Tokens) AuthorizationHeader() string {
	tok := t.OAuth2()
	return tok.Type() + " " + tok.AccessToken
}

// Snapshot holds the durable fields of a session. The two-factor fields are
// never part of it.
type Snapshot struct {
	Actor         *Actor
	Permissions   []permission.Permission
	Tokens        Tokens
	Authenticated bool
}

// IsZero reports whether the snapshot describes an empty session.
func (s Snapshot) IsZero() bool {
	return s.Actor == nil && len(s.Permissions) == 0 && s.Tokens.Empty() && !s.Authenticated
}

// consistent reports whether a restored snapshot can be trusted.
func (s Snapshot) consistent() bool {
	if s.Actor != nil && !s.Actor.Role.Valid() {
		return false
	}

	if s.Authenticated && (s.Actor == nil || s.Tokens.AccessToken == "") {
		return false
	}

	return true
}
