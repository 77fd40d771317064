// Package auth implements the account's login and lockout state machine:
// registration, login with a consecutive-failure lock, logout and session
// restore at start-up.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/logging"
	"github.com/dmitrijs2005/accountsetup/internal/profile"
	"github.com/dmitrijs2005/accountsetup/internal/storage/metadata"
	"github.com/dmitrijs2005/accountsetup/internal/vault"
	"github.com/google/uuid"
)

// DefaultIOTimeout bounds every vault and profile call.
const DefaultIOTimeout = 5 * time.Second

// ProfileStore persists the single profile of this install.
type ProfileStore interface {
	Save(ctx context.Context, u *profile.User) error
	Load(ctx context.Context) (*profile.User, error)
}

// Deps are the collaborators of a Store. Lockouts may be nil, in which case
// the lock fields live in memory only.
type Deps struct {
	Vault    vault.Vault
	Profiles ProfileStore
	Lockouts metadata.Repository
	Tokens   TokenIssuer
	Logger   logging.Logger
}

// Options tune the lock policy. Zero values take the package defaults.
type Options struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
	IOTimeout        time.Duration

	Now       func() time.Time
	NewUserID func() (string, error)
}

// Registration is the input of Register. Password is not retained.
type Registration struct {
	Profile  profile.User
	Password []byte
}

// Store owns the authentication state. The mutex makes State reads safe from
// another goroutine; running two operations at once is not supported.
type Store struct {
	vault    vault.Vault
	profiles ProfileStore
	lockouts metadata.Repository
	tokens   TokenIssuer
	logger   logging.Logger
	opts     Options

	mu    sync.Mutex
	state State
}

// NewUserID returns "user_" followed by a time-ordered UUID.
func NewUserID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate user id: %w", err)
	}
	return "user_" + id.String(), nil
}

func New(deps Deps, opts Options) *Store {
	if opts.MaxLoginAttempts <= 0 {
		opts.MaxLoginAttempts = MaxLoginAttempts
	}
	if opts.LockDuration <= 0 {
		opts.LockDuration = LockDuration
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = DefaultIOTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewUserID == nil {
		opts.NewUserID = NewUserID
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Store{
		vault:    deps.Vault,
		profiles: deps.Profiles,
		lockouts: deps.Lockouts,
		tokens:   deps.Tokens,
		logger:   logger.With("component", "auth"),
		opts:     opts,
		state:    State{IsLoading: true},
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// LockRemaining is the time left on the current lock, zero when unlocked or
// already expired. It is advisory: Login decides by comparing timestamps.
func (s *Store) LockRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAccountLocked {
		return 0
	}
	return lockRemaining(s.state.LockTime, s.opts.Now(), s.opts.LockDuration)
}

func (s *Store) ioContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.IOTimeout)
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// Register creates the account, replacing any previous one, and signs it in.
func (s *Store) Register(ctx context.Context, reg Registration) error {
	id, err := s.opts.NewUserID()
	if err != nil {
		s.logger.Error(ctx, "failed to generate user id", "error", err)
		return persistenceError("generate user id", err)
	}

	u := reg.Profile
	u.ID = id

	ioCtx, cancel := s.ioContext(ctx)
	defer cancel()

	if err := s.profiles.Save(ioCtx, &u); err != nil {
		s.logger.Error(ctx, "failed to save profile", "error", err)
		return persistenceError("save profile", err)
	}

	if err := s.vault.Set(ioCtx, vault.ServiceCredentials, u.Email, reg.Password); err != nil {
		s.logger.Error(ctx, "failed to store credentials, profile left in place", "error", err)
		return persistenceError("store credentials", err)
	}

	if err := s.startSession(ioCtx, u.ID); err != nil {
		s.logger.Error(ctx, "failed to start session after register", "error", err)
		return err
	}

	s.mu.Lock()
	s.state.User = &u
	s.state.IsAuthenticated = true
	s.clearLock()
	s.mu.Unlock()

	s.saveLockout(ctx)
	s.logger.Info(ctx, "account registered", "user_id", u.ID)
	return nil
}

// Login checks the identifier and password against the stored credentials.
//
// A locked account is rejected with ErrAccountLocked without reading the
// vault, unless the lock has expired, in which case it is cleared and the
// attempt proceeds.
func (s *Store) Login(ctx context.Context, identifier string, password []byte) error {
	locked, cleared := s.unlockIfExpired(s.opts.Now())
	if cleared {
		s.logger.Info(ctx, "lock expired, account unlocked")
		s.saveLockout(ctx)
	}
	if locked {
		return ErrAccountLocked
	}

	ioCtx, cancel := s.ioContext(ctx)
	creds, err := s.vault.Get(ioCtx, vault.ServiceCredentials)
	cancel()
	if err != nil {
		s.logger.Error(ctx, "failed to read credentials", "error", err)
		return persistenceError("read credentials", err)
	}

	if creds == nil || !credentialsMatch(creds, identifier, password) {
		if creds != nil {
			common.WipeByteArray(creds.Secret)
		}
		return s.recordFailure(ctx)
	}
	common.WipeByteArray(creds.Secret)

	ioCtx, cancel = s.ioContext(ctx)
	defer cancel()

	u, err := s.profiles.Load(ioCtx)
	switch {
	case errors.Is(err, common.ErrorCorrupt):
		s.logger.Error(ctx, "stored profile is corrupt", "error", err)
		return fmt.Errorf("%w: %v", ErrAccountDataCorrupt, err)
	case err != nil:
		s.logger.Error(ctx, "failed to load profile", "error", err)
		return persistenceError("load profile", err)
	case u == nil:
		s.logger.Error(ctx, "credentials matched but no profile is stored")
		return ErrAccountDataCorrupt
	}

	if err := s.startSession(ioCtx, u.ID); err != nil {
		s.logger.Error(ctx, "failed to start session", "error", err)
		return err
	}

	s.mu.Lock()
	s.state.User = u
	s.state.IsAuthenticated = true
	s.clearLock()
	s.mu.Unlock()

	s.saveLockout(ctx)
	s.logger.Info(ctx, "login succeeded", "user_id", u.ID)
	return nil
}

func credentialsMatch(creds *vault.Credentials, identifier string, password []byte) bool {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(identifier)) == 1
	passOK := subtle.ConstantTimeCompare(creds.Secret, password) == 1
	return userOK && passOK
}

func (s *Store) startSession(ctx context.Context, userID string) error {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return persistenceError("issue session token", err)
	}
	if err := s.vault.Set(ctx, vault.ServiceSession, vault.SessionUsername, []byte(token)); err != nil {
		return persistenceError("store session token", err)
	}
	return nil
}

// Logout ends the session. The in-memory session is cleared even when the
// token could not be deleted; the failure is still returned.
func (s *Store) Logout(ctx context.Context) error {
	ioCtx, cancel := s.ioContext(ctx)
	err := s.vault.Delete(ioCtx, vault.ServiceSession)
	cancel()

	s.mu.Lock()
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "failed to delete session token", "error", err)
		return persistenceError("delete session token", err)
	}
	s.logger.Info(ctx, "logged out")
	return nil
}

// CheckSession restores the state at start-up: the persisted lock fields,
// then the session if a valid token and a matching profile are stored.
// IsLoading is true for the duration of the call.
func (s *Store) CheckSession(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.loadLockout(ctx); err != nil {
		s.logger.Error(ctx, "failed to load lockout state", "error", err)
	}

	if _, cleared := s.unlockIfExpired(s.opts.Now()); cleared {
		s.logger.Info(ctx, "lock expired, account unlocked")
		s.saveLockout(ctx)
	}

	u, err := s.restoreSession(ctx)
	s.mu.Lock()
	s.state.User = u
	s.state.IsAuthenticated = u != nil
	s.mu.Unlock()
	return err
}

func (s *Store) restoreSession(ctx context.Context) (*profile.User, error) {
	ioCtx, cancel := s.ioContext(ctx)
	defer cancel()

	creds, err := s.vault.Get(ioCtx, vault.ServiceSession)
	if err != nil {
		s.logger.Error(ctx, "failed to read session token", "error", err)
		return nil, persistenceError("read session token", err)
	}
	if creds == nil {
		s.logger.Debug(ctx, "no stored session")
		return nil, nil
	}

	userID, err := s.tokens.Verify(string(creds.Secret))
	if err != nil {
		s.logger.Warn(ctx, "stored session token rejected", "error", err)
		return nil, nil
	}

	u, err := s.profiles.Load(ioCtx)
	if err != nil {
		s.logger.Error(ctx, "failed to load profile", "error", err)
		if errors.Is(err, common.ErrorCorrupt) {
			return nil, fmt.Errorf("%w: %v", ErrAccountDataCorrupt, err)
		}
		return nil, persistenceError("load profile", err)
	}
	if u == nil {
		s.logger.Warn(ctx, "session token present but no profile stored")
		return nil, nil
	}
	if u.ID != userID {
		s.logger.Warn(ctx, "session token belongs to another account", "token_user", userID, "profile_user", u.ID)
		return nil, nil
	}

	s.logger.Info(ctx, "session restored", "user_id", u.ID)
	return u, nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.state.IsLoading = v
	s.mu.Unlock()
}

// ResetFailedAttempts zeroes the counter and clears any lock.
func (s *Store) ResetFailedAttempts(ctx context.Context) {
	s.mu.Lock()
	s.clearLock()
	s.mu.Unlock()

	s.saveLockout(ctx)
}
