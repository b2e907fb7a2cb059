// Package auth provides the route guards of the console web api.
//
// Every guard consults the authorization gate and answers:
//   - 503 while the session is still being restored
//   - 401 when nobody is logged in
//   - 403 when the gate denies the requirement
//
// Allowed requests carry the actor in fiber.Locals under LocalsActor.
//
// Usage:
//
//	guard := auth.New(sess, gate.New(sess))
//	api.Get("/permissions", guard.RequirePermission(permission.AdminsView), handler)
package auth
