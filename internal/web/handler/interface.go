package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/atelier-market/admin-console/internal/authflow"
	"github.com/atelier-market/admin-console/internal/config"
	"github.com/atelier-market/admin-console/internal/gate"
	"github.com/atelier-market/admin-console/internal/notice"
	"github.com/atelier-market/admin-console/internal/session"
	"github.com/atelier-market/admin-console/internal/web/middleware/auth"
	"github.com/atelier-market/admin-console/internal/web/navigation"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilDepsMsg)

// Deps are the collaborators shared by the handlers.
type Deps struct {
	Config     *config.Config
	Session    session.Reader
	Controller *authflow.Controller
	Gate       *gate.Gate
	Guard      *auth.Guard
	Notices    *notice.Board
	Menu       []navigation.Section
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
