// Package permissions serves the permission catalog to administrators who may
// manage other administrators.
package permissions

import (
	"github.com/gofiber/fiber/v3"

	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/web/handler"
)

// Path is the path of the catalog endpoint.
const Path = "/permissions"

// Catalog is the JSON form of the permission catalog.
type Catalog struct {
	All               []permission.Permission            `json:"all"`
	Groups            map[string][]permission.Permission `json:"groups"`
	ModeratorDefaults []permission.Permission            `json:"moderatorDefaults"`
}

// NewCatalog builds the catalog view.
func NewCatalog() Catalog {
	groups := make(map[string][]permission.Permission)
	for _, name := range permission.Groups() {
		groups[name] = permission.ForGroup(name)
	}

	return Catalog{
		All:               permission.All(),
		Groups:            groups,
		ModeratorDefaults: permission.ModeratorDefaults(),
	}
}

// Service is the catalog handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Init registers the catalog route behind the admins.view guard.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil || deps.Guard == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, deps.Guard.RequirePermission(permission.AdminsView), s.Get)

	return nil
}

// Get returns the catalog.
func (s *Service) Get(c fiber.Ctx) error {
	return c.JSON(NewCatalog())
}
