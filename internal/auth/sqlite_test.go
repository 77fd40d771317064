package auth_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/auth"
	"github.com/dmitrijs2005/accountsetup/internal/logging"
	"github.com/dmitrijs2005/accountsetup/internal/profile"
	"github.com/dmitrijs2005/accountsetup/internal/storage"
	"github.com/dmitrijs2005/accountsetup/internal/storage/metadata"
	"github.com/dmitrijs2005/accountsetup/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T, db *sql.DB, key []byte, now func() time.Time) *auth.Store {
	t.Helper()
	meta := metadata.NewSQLiteRepository(db)
	return auth.New(auth.Deps{
		Vault:    vault.NewSQLiteVault(db, vault.DeriveKey(key)),
		Profiles: profile.NewStore(meta),
		Lockouts: meta,
		Tokens:   auth.NewJWTIssuer(key),
		Logger:   logging.Discard(),
	}, auth.Options{Now: now})
}

func TestSQLite_SessionAndLockSurviveRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "account.db")
	key := []byte("0123456789abcdef0123456789abcdef")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	db, err := storage.Open(ctx, path)
	require.NoError(t, err)

	s := newSQLiteStore(t, db, key, clock)
	require.NoError(t, s.Register(ctx, auth.Registration{
		Profile:  profile.User{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"},
		Password: []byte("Str0ng!pass"),
	}))
	userID := s.State().User.ID
	require.NoError(t, db.Close())

	// restart: session restored from the database
	db, err = storage.Open(ctx, path)
	require.NoError(t, err)
	s = newSQLiteStore(t, db, key, clock)
	require.NoError(t, s.CheckSession(ctx))
	require.True(t, s.State().IsAuthenticated)
	assert.Equal(t, userID, s.State().User.ID)

	require.NoError(t, s.Logout(ctx))
	for i := 0; i < auth.MaxLoginAttempts; i++ {
		_ = s.Login(ctx, "jane@example.com", []byte("wrong"))
	}
	require.True(t, s.State().IsAccountLocked)
	require.NoError(t, db.Close())

	// restart: still locked, not signed in
	db, err = storage.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s = newSQLiteStore(t, db, key, clock)
	require.NoError(t, s.CheckSession(ctx))

	st := s.State()
	assert.False(t, st.IsAuthenticated)
	assert.True(t, st.IsAccountLocked)
	assert.ErrorIs(t, s.Login(ctx, "jane@example.com", []byte("Str0ng!pass")), auth.ErrAccountLocked)

	now = now.Add(auth.LockDuration)
	require.NoError(t, s.Login(ctx, "jane@example.com", []byte("Str0ng!pass")))
	assert.True(t, s.State().IsAuthenticated)
}
