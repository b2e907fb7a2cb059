package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

// SessionView is the JSON form of the session. Tokens are never exposed.
type SessionView struct {
	Status            string                  `json:"status"`
	Restored          bool                    `json:"restored"`
	Authenticated     bool                    `json:"authenticated"`
	RequiresTwoFactor bool                    `json:"requires2FA"`
	PendingEmail      string                  `json:"pendingEmail,omitempty"`
	Actor             *session.Actor          `json:"actor"`
	Role              session.Role            `json:"role,omitempty"`
	Permissions       []permission.Permission `json:"permissions"`
}

// NewSessionView renders the current session.
func NewSessionView(deps *Deps) SessionView {
	actor := deps.Session.Actor()

	view := SessionView{
		Restored:          deps.Session.Restored(),
		Authenticated:     deps.Session.IsAuthenticated(),
		RequiresTwoFactor: deps.Session.RequiresTwoFactor(),
		PendingEmail:      deps.Session.PendingEmail(),
		Actor:             actor,
		Permissions:       deps.Session.Permissions(),
	}

	if deps.Controller != nil {
		view.Status = deps.Controller.State().String()
	}

	if actor != nil {
		view.Role = actor.Role
	}

	if view.Permissions == nil {
		view.Permissions = []permission.Permission{}
	}

	return view
}

// ErrorResponse is the body of every failed api call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes an error response.
func Error(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}
