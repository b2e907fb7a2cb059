// Package notices serves the recent user-visible notices.
package notices

import (
	"github.com/gofiber/fiber/v3"

	"github.com/atelier-market/admin-console/internal/notice"
	"github.com/atelier-market/admin-console/internal/web/handler"
)

// Path is the path of the notices endpoint.
const Path = "/notices"

// Service is the notices handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Init registers the notices route.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil || deps.Notices == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, s.Get)

	return nil
}

// Get returns the recent notices, oldest first.
func (s *Service) Get(c fiber.Ctx) error {
	items := s.deps.Notices.Recent()
	if items == nil {
		items = []notice.Notice{}
	}

	return c.JSON(fiber.Map{"notices": items})
}
