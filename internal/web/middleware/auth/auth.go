package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/gate"
	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

// LocalsActor is the fiber.Locals key holding the actor of an allowed request.
const LocalsActor = "actor"

const (
	msgPending      = "Session is being restored"
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden: You don't have permission to access this resource"
)

// Guard builds route guards on top of the authorization gate.
type Guard struct {
	session session.Reader
	gate    *gate.Gate
}

// New creates a guard. g must read sess.
func New(sess session.Reader, g *gate.Gate) *Guard {
	return &Guard{session: sess, gate: g}
}

// RequireAuthenticated lets authenticated sessions through.
func (g *Guard) RequireAuthenticated() fiber.Handler {
	return g.Require(gate.Requirement{})
}

// Require lets the request through when the gate allows req. The session must
// be authenticated in any case.
func (g *Guard) Require(req gate.Requirement) fiber.Handler {
	return func(c fiber.Ctx) error {
		decision := g.gate.Check(req)

		if decision == gate.Pending {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": msgPending})
		}

		if !g.session.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msgUnauthorized})
		}

		actor := g.session.Actor()

		if decision == gate.Deny {
			ev := log.Warn().Str("path", c.Path()).Strs("permissions", permission.NewSet(req.Permissions...).Strings())
			if actor != nil {
				ev = ev.Uint64("actor_id", actor.ID)
			}

			ev.Msg("actor lacks required permissions")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msgForbidden})
		}

		c.Locals(LocalsActor, actor)

		return c.Next()
	}
}

// RequirePermission requires a specific permission.
func (g *Guard) RequirePermission(p permission.Permission) fiber.Handler {
	return g.Require(gate.RequireAll(p))
}

// RequireAnyPermission requires at least one of the given permissions.
func (g *Guard) RequireAnyPermission(perms ...permission.Permission) fiber.Handler {
	return g.Require(gate.RequireAny(perms...))
}

// RequireAllPermissions requires all the given permissions.
func (g *Guard) RequireAllPermissions(perms ...permission.Permission) fiber.Handler {
	return g.Require(gate.RequireAll(perms...))
}

// RequireRole requires one of the given roles.
func (g *Guard) RequireRole(roles ...session.Role) fiber.Handler {
	return g.Require(gate.RequireRole(roles...))
}

// ActorFromLocals returns the actor stored by a guard, or nil.
func ActorFromLocals(c fiber.Ctx) *session.Actor {
	actor, _ := c.Locals(LocalsActor).(*session.Actor)
	return actor
}
