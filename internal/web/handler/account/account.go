// Package account serves the state of the console session.
package account

import (
	"github.com/gofiber/fiber/v3"

	"github.com/atelier-market/admin-console/internal/web/handler"
)

// Path is the path of the session endpoint.
const Path = "/session"

// Service is the session handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Init registers the session route.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil || deps.Session == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, s.Get)

	return nil
}

// Get returns the session view. It answers before the session is restored,
// with restored set to false.
func (s *Service) Get(c fiber.Ctx) error {
	return c.JSON(handler.NewSessionView(s.deps))
}
