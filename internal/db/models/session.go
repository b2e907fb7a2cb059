package models

import (
	"time"

	"github.com/atelier-market/admin-console/internal/session"
)

// SessionRecord is the persisted form of the console session. There is one row
// per session name.
type SessionRecord struct {
	// ID is the unique identifier of the record.
	ID uint64 `gorm:"primaryKey"`
	// Name identifies the session slot.
	Name string `gorm:"uniqueIndex;size:64;not null"`
	// Actor is the authenticated administrator, stored as JSON. Nil when anonymous.
	Actor *session.Actor `gorm:"serializer:json"`
	// Permissions is the stored permission list, stored as JSON.
	Permissions []string `gorm:"serializer:json"`
	// AccessToken is the bearer token of the session.
	AccessToken string `gorm:"type:text"`
	// RefreshToken is exchanged for a new token pair by the refresh daemon.
	RefreshToken string `gorm:"type:text"`
	// Expiry is the access token expiry, nil when unknown.
	Expiry *time.Time
	// Authenticated mirrors the session flag.
	Authenticated bool
	// UpdatedAt is the timestamp of the last save (managed by GORM).
	UpdatedAt time.Time
}
