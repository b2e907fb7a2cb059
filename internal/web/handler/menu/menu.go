// Package menu serves the navigation menu as allowed for the current session.
package menu

import (
	"github.com/gofiber/fiber/v3"

	"github.com/atelier-market/admin-console/internal/web/handler"
	"github.com/atelier-market/admin-console/internal/web/navigation"
)

const (
	// Path is the path of the menu endpoint.
	Path = "/menu"

	// QueryActive selects the active item for the breadcrumbs.
	QueryActive = "active"
)

// Service is the menu handler service.
type Service struct {
	handler.Service
	deps     *handler.Deps
	sections []navigation.Section
}

// Init registers the menu route. A nil deps.Menu selects the default menu.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil || deps.Gate == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps
	s.sections = deps.Menu

	if s.sections == nil {
		s.sections = navigation.Default()
	}

	router.Get(Path, s.Get)

	return nil
}

// Get returns the filtered menu.
func (s *Service) Get(c fiber.Ctx) error {
	return c.JSON(navigation.Filter(s.deps.Gate, s.sections, c.Query(QueryActive)))
}
