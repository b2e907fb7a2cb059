package login

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/authflow"
	"github.com/atelier-market/admin-console/internal/web/handler"
)

const (
	// Path is the path of the login endpoints.
	Path = "/login"

	// TwoFactorPath completes a login waiting for its verification code.
	TwoFactorPath = "/2fa"

	// CancelPath abandons a running login.
	CancelPath = "/cancel"

	// LogoutPath ends the session.
	LogoutPath = "/logout"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Code is the body of a two-factor request.
type Code struct {
	Code string `json:"code"`
}

// Init registers the login routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil || deps.Controller == nil || deps.Session == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	group := router.Group(Path)
	group.Post(handler.RootPath, s.Post)
	group.Post(TwoFactorPath, s.TwoFactor)
	group.Post(CancelPath, s.Cancel)

	router.Post(LogoutPath, s.Logout)

	return nil
}

// Post submits credentials.
func (s *Service) Post(c fiber.Ctx) error {
	var body Credentials
	if err := c.Bind().Body(&body); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	if err := s.deps.Controller.SubmitCredentials(c.Context(), body.Email, body.Password); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(handler.NewSessionView(s.deps))
}

// TwoFactor submits the verification code of a pending login.
func (s *Service) TwoFactor(c fiber.Ctx) error {
	var body Code
	if err := c.Bind().Body(&body); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	if err := s.deps.Controller.SubmitTwoFactorCode(c.Context(), body.Code); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(handler.NewSessionView(s.deps))
}

// Cancel abandons a running login.
func (s *Service) Cancel(c fiber.Ctx) error {
	s.deps.Controller.Cancel()
	return c.SendStatus(fiber.StatusNoContent)
}

// Logout ends the session. It succeeds from any state.
func (s *Service) Logout(c fiber.Ctx) error {
	s.deps.Controller.Logout(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) fail(c fiber.Ctx, err error) error {
	status := Status(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("login step failed")
	}

	return handler.Error(c, status, err.Error())
}

// Status maps a login flow error to its HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, authflow.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, authflow.ErrInvalidCredentials), errors.Is(err, authflow.ErrInvalidTwoFactorCode):
		return fiber.StatusUnauthorized
	case errors.Is(err, authflow.ErrAlreadyAuthenticated),
		errors.Is(err, authflow.ErrNotPending),
		errors.Is(err, authflow.ErrStale):
		return fiber.StatusConflict
	case errors.Is(err, authflow.ErrMalformedResponse),
		errors.Is(err, authflow.ErrMissingActorIDHint),
		errors.Is(err, authflow.ErrNetwork):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
