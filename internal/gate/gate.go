// Package gate is the single authorization decision point of the console.
// Menus, buttons and route guards describe what they need as a Requirement
// and render according to the Decision.
package gate

import (
	"context"

	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

// Decision is the outcome of an evaluation.
type Decision int

const (
	// Pending means the session is still being restored; render a placeholder.
	Pending Decision = iota
	// Allow permits the protected render or action.
	Allow
	// Deny refuses it.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "pending"
	}
}

// Mode combines a permission list.
type Mode int

const (
	// ModeAll requires every listed permission.
	ModeAll Mode = iota
	// ModeAny requires at least one listed permission.
	ModeAny
)

// Requirement describes what a protected surface needs. An empty Requirement
// allows everyone, including anonymous sessions.
type Requirement struct {
	Roles       []session.Role
	Permissions []permission.Permission
	Mode        Mode
}

// RequireRole builds a requirement on one of roles.
func RequireRole(roles ...session.Role) Requirement {
	return Requirement{Roles: roles}
}

// RequireAll builds a requirement on every one of perms.
func RequireAll(perms ...permission.Permission) Requirement {
	return Requirement{Permissions: perms, Mode: ModeAll}
}

// RequireAny builds a requirement on at least one of perms.
func RequireAny(perms ...permission.Permission) Requirement {
	return Requirement{Permissions: perms, Mode: ModeAny}
}

// Gate evaluates requirements against a session. It never writes to it.
type Gate struct {
	session session.Reader
}

// New creates a gate reading sess.
func New(sess session.Reader) *Gate {
	return &Gate{session: sess}
}

// Check evaluates req now. Before the session is restored it returns Pending
// rather than a Deny that would hide protected content prematurely.
func (g *Gate) Check(req Requirement) Decision {
	if !g.session.Restored() {
		return Pending
	}

	return g.decide(req)
}

// Evaluate waits for the session to be restored and evaluates req once. It
// returns Pending if ctx ends first.
func (g *Gate) Evaluate(ctx context.Context, req Requirement) Decision {
	select {
	case <-g.session.Ready():
		return g.decide(req)
	case <-ctx.Done():
		return Pending
	}
}

// Allowed reports whether req is currently allowed.
func (g *Gate) Allowed(req Requirement) bool {
	return g.Check(req) == Allow
}

func (g *Gate) decide(req Requirement) Decision {
	if len(req.Roles) > 0 && !g.session.HasRole(req.Roles...) {
		return Deny
	}

	if len(req.Permissions) > 0 {
		var granted bool

		if req.Mode == ModeAny {
			granted = g.session.IsGrantedAny(req.Permissions...)
		} else {
			granted = g.session.IsGrantedAll(req.Permissions...)
		}

		if !granted {
			return Deny
		}
	}

	return Allow
}
