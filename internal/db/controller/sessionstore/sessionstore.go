// Package sessionstore persists the console session through gorm.
package sessionstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/atelier-market/admin-console/internal/db/models"
	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

const (
	nameQueryPattern = "name = ?"

	// DefaultName is the slot used by the console process.
	DefaultName = "console"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNameEmpty is returned when the store is created with an empty slot name.
	ErrNameEmpty = errors.New("session name cannot be empty")
)

// Store implements session.Persister over a single SessionRecord row.
type Store struct {
	db   *gorm.DB
	name string
}

var _ session.Persister = (*Store)(nil)

// New creates a store for the named session slot.
func New(db *gorm.DB, name string) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrNameEmpty
	}

	return &Store{db: db, name: name}, nil
}

// Load returns the stored snapshot, or session.ErrNoSnapshot when nothing is stored.
func (s *Store) Load(ctx context.Context) (session.Snapshot, error) {
	var record models.SessionRecord

	result := s.db.WithContext(ctx).Where(nameQueryPattern, s.name).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return session.Snapshot{}, session.ErrNoSnapshot
		}

		return session.Snapshot{}, result.Error
	}

	snap := session.Snapshot{
		Actor: record.Actor,
		Tokens: session.Tokens{
			AccessToken:  record.AccessToken,
			RefreshToken: record.RefreshToken,
		},
		Authenticated: record.Authenticated,
	}

	if record.Actor != nil {
		snap.Permissions = permission.FromStrings(record.Permissions)
	}

	if record.Expiry != nil {
		snap.Tokens.Expiry = *record.Expiry
	}

	return snap, nil
}

// Save creates or updates the stored snapshot.
func (s *Store) Save(ctx context.Context, snap session.Snapshot) error {
	db := s.db.WithContext(ctx)

	var record models.SessionRecord

	result := db.Where(nameQueryPattern, s.name).First(&record)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	record.Name = s.name
	record.Actor = snap.Actor
	record.Permissions = toStrings(snap.Permissions)
	record.AccessToken = snap.Tokens.AccessToken
	record.RefreshToken = snap.Tokens.RefreshToken
	record.Expiry = nil
	record.Authenticated = snap.Authenticated

	if !snap.Tokens.Expiry.IsZero() {
		expiry := snap.Tokens.Expiry
		record.Expiry = &expiry
	}

	return db.Save(&record).Error
}

// Clear removes the stored snapshot. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where(nameQueryPattern, s.name).Delete(&models.SessionRecord{}).Error
}

func toStrings(perms []permission.Permission) []string {
	if perms == nil {
		return nil
	}

	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}

	return out
}
