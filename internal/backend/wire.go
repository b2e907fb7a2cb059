package backend

import (
	"time"

	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code"`
	UserID    uint64 `json:"userId"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type actorPayload struct {
	ID               uint64    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	Avatar           string    `json:"avatar"`
	CreatedAt        time.Time `json:"createdAt"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
}

func (a actorPayload) actor() session.Actor {
	return session.Actor{
		ID:               a.ID,
		Email:            a.Email,
		Name:             a.Name,
		Role:             session.Role(a.Role),
		Avatar:           a.Avatar,
		CreatedAt:        a.CreatedAt,
		TwoFactorEnabled: a.TwoFactorEnabled,
	}
}

// tokenPayload carries a token pair. ExpiresIn is in seconds and optional.
type tokenPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func (t tokenPayload) tokens(now time.Time) session.Tokens {
	tokens := session.Tokens{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}

	if t.ExpiresIn > 0 {
		tokens.Expiry = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}

	return tokens
}

type loginResponse struct {
	tokenPayload

	RequiresTwoFactor bool          `json:"requiresTwoFactor"`
	TempToken         string        `json:"tempToken"`
	UserID            *uint64       `json:"userId"`
	User              *actorPayload `json:"user"`
	Permissions       *[]string     `json:"permissions"`
}

type verifyResponse struct {
	tokenPayload

	User        actorPayload `json:"user"`
	Permissions *[]string    `json:"permissions"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// permissions keeps the difference between an absent list (nil) and an empty one.
func permissions(raw *[]string) []permission.Permission {
	if raw == nil {
		return nil
	}

	return permission.FromStrings(*raw)
}
