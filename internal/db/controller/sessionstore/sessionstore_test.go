package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelier-market/admin-console/internal/db/models"
	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.SessionRecord{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(setupTestDB(t), DefaultName)
	require.NoError(t, err)

	return store
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		sessionName   string
		expectedError error
	}{
		{name: "nil database", dbParam: nil, sessionName: DefaultName, expectedError: ErrDBNil},
		{name: "empty name", dbParam: db, sessionName: "", expectedError: ErrNameEmpty},
		{name: "successful create", dbParam: db, sessionName: DefaultName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := New(tc.dbParam, tc.sessionName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, store)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, store)
			}
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	store := newStore(t)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, session.ErrNoSnapshot)
}

func TestSaveLoad(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	expiry := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		snap session.Snapshot
	}{
		{
			name: "super admin",
			snap: session.Snapshot{
				Actor:         &session.Actor{ID: 1, Email: "root@atelier.test", Role: session.RoleSuperAdmin, CreatedAt: created},
				Permissions:   []permission.Permission{},
				Tokens:        session.Tokens{AccessToken: "AT1", RefreshToken: "RT1", Expiry: expiry},
				Authenticated: true,
			},
		},
		{
			name: "moderator with permissions",
			snap: session.Snapshot{
				Actor:         &session.Actor{ID: 42, Name: "Mia", Role: session.RoleModerator, TwoFactorEnabled: true},
				Permissions:   []permission.Permission{permission.DesignsView, permission.OrdersView},
				Tokens:        session.Tokens{AccessToken: "AT2", RefreshToken: "RT2"},
				Authenticated: true,
			},
		},
		{
			name: "moderator with explicit empty list",
			snap: session.Snapshot{
				Actor:         &session.Actor{ID: 7, Role: session.RoleModerator},
				Permissions:   []permission.Permission{},
				Tokens:        session.Tokens{AccessToken: "AT3"},
				Authenticated: true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore(t)

			require.NoError(t, store.Save(context.Background(), tc.snap))

			got, err := store.Load(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tc.snap.Actor.ID, got.Actor.ID)
			assert.Equal(t, tc.snap.Actor.Role, got.Actor.Role)
			assert.Equal(t, tc.snap.Actor.Email, got.Actor.Email)
			assert.True(t, tc.snap.Actor.CreatedAt.Equal(got.Actor.CreatedAt))
			assert.Equal(t, tc.snap.Actor.TwoFactorEnabled, got.Actor.TwoFactorEnabled)
			assert.NotNil(t, got.Permissions)
			assert.Equal(t, tc.snap.Permissions, got.Permissions)
			assert.Equal(t, tc.snap.Tokens.AccessToken, got.Tokens.AccessToken)
			assert.Equal(t, tc.snap.Tokens.RefreshToken, got.Tokens.RefreshToken)
			assert.True(t, tc.snap.Tokens.Expiry.Equal(got.Tokens.Expiry))
			assert.Equal(t, tc.snap.Authenticated, got.Authenticated)
		})
	}
}

func TestSave_Overwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first := session.Snapshot{
		Actor:         &session.Actor{ID: 1, Role: session.RoleSuperAdmin},
		Permissions:   []permission.Permission{},
		Tokens:        session.Tokens{AccessToken: "AT1", RefreshToken: "RT1", Expiry: time.Now().Add(time.Hour)},
		Authenticated: true,
	}
	second := first
	second.Tokens = session.Tokens{AccessToken: "AT2", RefreshToken: "RT2"}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	var count int64
	store.db.Model(&models.SessionRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AT2", got.Tokens.AccessToken)
	assert.True(t, got.Tokens.Expiry.IsZero(), "expiry of the previous pair is not kept")
}

func TestClear(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx), "clearing an empty store")

	require.NoError(t, store.Save(ctx, session.Snapshot{
		Actor:         &session.Actor{ID: 1, Role: session.RoleSuperAdmin},
		Tokens:        session.Tokens{AccessToken: "AT1"},
		Authenticated: true,
	}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, session.ErrNoSnapshot)
}

func TestSlotsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a, err := New(db, "a")
	require.NoError(t, err)
	b, err := New(db, "b")
	require.NoError(t, err)

	require.NoError(t, a.Save(ctx, session.Snapshot{
		Actor:         &session.Actor{ID: 1, Role: session.RoleSuperAdmin},
		Tokens:        session.Tokens{AccessToken: "AT1"},
		Authenticated: true,
	}))

	_, err = b.Load(ctx)
	require.ErrorIs(t, err, session.ErrNoSnapshot)

	require.NoError(t, b.Clear(ctx))

	_, err = a.Load(ctx)
	require.NoError(t, err)
}

func TestRestoreThroughStore(t *testing.T) {
	store := newStore(t)

	first := session.New(store)
	first.MarkRestored()
	first.Establish(
		session.Actor{ID: 42, Role: session.RoleModerator},
		[]permission.Permission{permission.DesignsView},
		session.Tokens{AccessToken: "AT2", RefreshToken: "RT2"},
	)

	second := session.New(store)
	second.Restore(context.Background())

	assert.True(t, second.Restored())
	assert.True(t, second.IsAuthenticated())
	assert.True(t, second.IsGranted(permission.DesignsView))
	assert.False(t, second.IsGranted(permission.DesignsDelete))

	first.Logout()

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, session.ErrNoSnapshot)
}
