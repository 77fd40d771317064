package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/logging"
	"github.com/dmitrijs2005/accountsetup/internal/profile"
	"github.com/dmitrijs2005/accountsetup/internal/vault"
)

type fakeVault struct {
	mu        sync.Mutex
	items     map[string]vault.Credentials
	gets      map[string]int
	getErr    error
	setErr    error
	deleteErr error
}

func newFakeVault() *fakeVault {
	return &fakeVault{items: map[string]vault.Credentials{}, gets: map[string]int{}}
}

func (f *fakeVault) Set(_ context.Context, service, username string, secret []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.items[service] = vault.Credentials{Username: username, Secret: append([]byte(nil), secret...)}
	return nil
}

func (f *fakeVault) Get(_ context.Context, service string) (*vault.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets[service]++
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.items[service]
	if !ok {
		return nil, nil
	}
	return &vault.Credentials{Username: c.Username, Secret: append([]byte(nil), c.Secret...)}, nil
}

func (f *fakeVault) Delete(_ context.Context, service string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, service)
	return nil
}

func (f *fakeVault) getCount(service string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[service]
}

type memRepo struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// env is a store plus the collaborators tests poke at. A second store built
// from the same env sees the same persisted data, like a restarted process.
type env struct {
	vault  *fakeVault
	meta   *memRepo
	clock  *fakeClock
	tokens *JWTIssuer
}

func newEnv() *env {
	return &env{
		vault:  newFakeVault(),
		meta:   newMemRepo(),
		clock:  &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		tokens: NewJWTIssuer([]byte("test-signing-secret")),
	}
}

func (e *env) store(t *testing.T) *Store {
	t.Helper()
	return New(Deps{
		Vault:    e.vault,
		Profiles: profile.NewStore(e.meta),
		Lockouts: e.meta,
		Tokens:   e.tokens,
		Logger:   logging.Discard(),
	}, Options{
		Now:       e.clock.Now,
		NewUserID: func() (string, error) { return "user_test", nil },
	})
}

func testRegistration() Registration {
	return Registration{
		Profile: profile.User{
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "+1 555 010 0000",
			Country:   "US",
		},
		Password: []byte("Str0ng!pass"),
	}
}
