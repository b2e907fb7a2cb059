// Package session holds the authoritative record of who is logged in to the
// console, what they may do, and the tokens proving it.
//
// A State is created once per process with New, hydrated with Restore, and
// mutated only by the auth flow controller and the token refresh daemon.
// Everything else reads it through the Reader interface.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atelier-market/admin-console/internal/permission"
)

const persistTimeout = 5 * time.Second

// Reader is the read-only view of a session.
type Reader interface {
	Actor() *Actor
	Permissions() []permission.Permission
	IsAuthenticated() bool
	RequiresTwoFactor() bool
	PendingEmail() string
	IsGranted(p permission.Permission) bool
	IsGrantedAny(perms ...permission.Permission) bool
	IsGrantedAll(perms ...permission.Permission) bool
	HasRole(roles ...Role) bool
	Ready() <-chan struct{}
	Restored() bool
}

// Persister stores the durable part of a session across restarts.
type Persister interface {
	// Load returns the stored snapshot or ErrNoSnapshot.
	Load(ctx context.Context) (Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
	// Clear removes the stored snapshot.
	Clear(ctx context.Context) error
}

// State is the process-wide session.
type State struct {
	mu            sync.RWMutex
	actor         *Actor
	perms         permission.Set
	tokens        Tokens
	authenticated bool
	requires2FA   bool
	pendingEmail  string
	version       uint64

	persister    Persister
	persistMu    sync.Mutex
	savedVersion uint64

	ready     chan struct{}
	readyOnce sync.Once

	subMu sync.Mutex
	subs  map[int]chan struct{}
	subID int
}

var _ Reader = (*State)(nil)

// New creates an empty session. A nil persister keeps the session in memory only.
func New(persister Persister) *State {
	return &State{
		persister: persister,
		ready:     make(chan struct{}),
		subs:      make(map[int]chan struct{}),
	}
}

// Restore hydrates the session from the persister and signals readiness.
// It never fails: an unreadable or inconsistent snapshot leaves the session empty.
func (s *State) Restore(ctx context.Context) {
	defer s.markReady()

	if s.persister == nil {
		return
	}

	snap, err := s.persister.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			log.Error().Err(err).Msg("failed to restore session")
		}

		return
	}

	if !snap.consistent() {
		log.Warn().Msg("discarding inconsistent persisted session")
		return
	}

	s.mu.Lock()
	// a login that finished before restoration wins over the stored state
	if s.version > 0 {
		s.mu.Unlock()
		return
	}

	if snap.Actor != nil {
		actor := *snap.Actor
		s.actor = &actor
	}

	s.perms = permissionsFor(s.actor, snap.Permissions)
	s.tokens = snap.Tokens
	s.authenticated = snap.Authenticated
	s.mu.Unlock()

	if snap.Actor != nil {
		log.Info().Uint64("actor_id", snap.Actor.ID).Str("role", string(snap.Actor.Role)).Msg("session restored")
	}

	s.notify()
}

// MarkRestored signals readiness without loading anything.
func (s *State) MarkRestored() {
	s.markReady()
}

func (s *State) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once restoration has completed.
func (s *State) Ready() <-chan struct{} {
	return s.ready
}

// Restored reports whether restoration has completed.
func (s *State) Restored() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// SetActor stores the actor and marks the session authenticated. For a
// SuperAdmin the stored permission set is always empty. For a Moderator a nil
// perms selects the catalog defaults; any non-nil list is stored as given.
// Pending two-factor state is cleared.
func (s *State) SetActor(actor Actor, perms []permission.Permission) {
	s.mutate(func() {
		s.setActorLocked(actor, perms)
	})
}

// SetTokens overwrites the token pair. It leaves the authenticated flag alone.
func (s *State) SetTokens(tokens Tokens) {
	s.mutate(func() {
		s.tokens = tokens
	})
}

// Establish applies SetActor and SetTokens as one indivisible step.
func (s *State) Establish(actor Actor, perms []permission.Permission, tokens Tokens) {
	s.mutate(func() {
		s.setActorLocked(actor, perms)
		s.tokens = tokens
	})
}

func (s *State) setActorLocked(actor Actor, perms []permission.Permission) {
	s.actor = &actor
	s.perms = permissionsFor(s.actor, perms)
	s.authenticated = true
	s.requires2FA = false
	s.pendingEmail = ""
}

func permissionsFor(actor *Actor, perms []permission.Permission) permission.Set {
	switch {
	case actor == nil, actor.Role == RoleSuperAdmin:
		return permission.NewSet()
	case perms == nil:
		return permission.NewSet(permission.ModeratorDefaults()...)
	default:
		return permission.NewSet(perms...)
	}
}

// BeginTwoFactor records that email is waiting for a two-factor code.
func (s *State) BeginTwoFactor(email string) error {
	s.mu.Lock()
	if s.actor != nil {
		s.mu.Unlock()
		return ErrActorPresent
	}

	s.requires2FA = true
	s.pendingEmail = email
	s.mu.Unlock()

	s.notify()

	return nil
}

// CancelTwoFactor clears the pending two-factor state only.
func (s *State) CancelTwoFactor() {
	s.mu.Lock()
	s.requires2FA = false
	s.pendingEmail = ""
	s.mu.Unlock()

	s.notify()
}

// Logout resets every field to its initial empty value. Calling it again is harmless.
func (s *State) Logout() {
	s.mutate(func() {
		s.actor = nil
		s.perms = permission.Set{}
		s.tokens = Tokens{}
		s.authenticated = false
		s.requires2FA = false
		s.pendingEmail = ""
	})
}

// mutate runs fn under the write lock, then persists and notifies.
func (s *State) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	version := s.version
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(version, snap)
	s.notify()
}

func (s *State) persist(version uint64, snap Snapshot) {
	if s.persister == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	// a newer snapshot was already written
	if version <= s.savedVersion {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if snap.IsZero() {
		err = s.persister.Clear(ctx)
	} else {
		err = s.persister.Save(ctx, snap)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to persist session")
		return
	}

	s.savedVersion = version
}

// Snapshot returns a copy of the durable fields.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Tokens:        s.tokens,
		Authenticated: s.authenticated,
	}

	// non-nil even when empty, so a restored Moderator keeps an explicit empty set
	if s.actor != nil {
		actor := *s.actor
		snap.Actor = &actor
		snap.Permissions = s.perms.Slice()
	}

	return snap
}

// Actor returns a copy of the current actor, or nil.
func (s *State) Actor() *Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.actor == nil {
		return nil
	}

	actor := *s.actor

	return &actor
}

// Permissions returns the stored permission set. It is empty for a SuperAdmin.
func (s *State) Permissions() []permission.Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.perms.Slice()
}

// Tokens returns the current token pair.
func (s *State) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tokens
}

// IsAuthenticated reports whether an actor is logged in.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.authenticated
}

// RequiresTwoFactor reports whether a login is waiting for its two-factor code.
func (s *State) RequiresTwoFactor() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.requires2FA
}

// PendingEmail returns the email of the login waiting for a two-factor code.
func (s *State) PendingEmail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pendingEmail
}

// IsGranted reports whether the actor holds p. Without an actor nothing is granted.
func (s *State) IsGranted(p permission.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.actor == nil:
		return false
	case s.actor.Role == RoleSuperAdmin:
		return true
	default:
		return s.perms.Has(p)
	}
}

// IsGrantedAny reports whether the actor holds at least one of perms.
func (s *State) IsGrantedAny(perms ...permission.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.actor == nil:
		return false
	case s.actor.Role == RoleSuperAdmin:
		return true
	}

	for _, p := range perms {
		if s.perms.Has(p) {
			return true
		}
	}

	return false
}

// IsGrantedAll reports whether the actor holds every one of perms.
func (s *State) IsGrantedAll(perms ...permission.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.actor == nil:
		return false
	case s.actor.Role == RoleSuperAdmin:
		return true
	}

	for _, p := range perms {
		if !s.perms.Has(p) {
			return false
		}
	}

	return true
}

// HasRole reports whether the actor has one of roles.
func (s *State) HasRole(roles ...Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.actor != nil && slices.Contains(roles, s.actor.Role)
}

// Subscribe returns a channel that receives a value after every change.
// Notifications coalesce; the returned func releases the subscription.
func (s *State) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.subID
	s.subID++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *State) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
