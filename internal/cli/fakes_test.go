package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/auth"
	"github.com/dmitrijs2005/accountsetup/internal/drafts"
	"github.com/dmitrijs2005/accountsetup/internal/logging"
	"github.com/dmitrijs2005/accountsetup/internal/profile"
)

type fakeAuth struct {
	state     auth.State
	remaining []time.Duration

	reg    *auth.Registration
	regErr error

	loginID   string
	loginPW   []byte
	loginErr  error
	loginUser *profile.User

	logoutErr error

	checkErr  error
	checkUser *profile.User

	calls []string
}

func (f *fakeAuth) Register(_ context.Context, reg auth.Registration) error {
	f.calls = append(f.calls, "register")
	reg.Password = append([]byte(nil), reg.Password...)
	f.reg = &reg
	if f.regErr != nil {
		return f.regErr
	}
	u := reg.Profile
	u.ID = "user_1"
	f.state.User, f.state.IsAuthenticated = &u, true
	return nil
}

func (f *fakeAuth) Login(_ context.Context, id string, pw []byte) error {
	f.calls = append(f.calls, "login")
	f.loginID, f.loginPW = id, append([]byte(nil), pw...)
	switch {
	case f.loginErr == nil:
		f.state.User, f.state.IsAuthenticated = f.loginUser, true
	case f.loginErr == auth.ErrLoginFailed:
		f.state.FailedLoginAttempts++
	}
	return f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.state.User, f.state.IsAuthenticated = nil, false
	return f.logoutErr
}

func (f *fakeAuth) CheckSession(context.Context) error {
	f.calls = append(f.calls, "check")
	if f.checkUser != nil {
		f.state.User, f.state.IsAuthenticated = f.checkUser, true
	}
	return f.checkErr
}

func (f *fakeAuth) State() auth.State { return f.state }

// LockRemaining yields the queued values in order, repeating the last one.
func (f *fakeAuth) LockRemaining() time.Duration {
	if len(f.remaining) == 0 {
		return 0
	}
	d := f.remaining[0]
	if len(f.remaining) > 1 {
		f.remaining = f.remaining[1:]
	}
	return d
}

type memDrafts struct {
	d       *drafts.Draft
	saves   int
	cleared bool
}

func (m *memDrafts) Save(_ context.Context, patch drafts.Draft) error {
	m.saves++
	if m.d == nil {
		m.d = &drafts.Draft{}
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.d.Email, patch.Email)
	set(&m.d.FirstName, patch.FirstName)
	set(&m.d.LastName, patch.LastName)
	set(&m.d.Phone, patch.Phone)
	set(&m.d.Country, patch.Country)
	set(&m.d.DateOfBirth, patch.DateOfBirth)
	set(&m.d.Address, patch.Address)
	set(&m.d.City, patch.City)
	set(&m.d.ZipCode, patch.ZipCode)
	return nil
}

func (m *memDrafts) Get(context.Context) (*drafts.Draft, error) {
	if m.d == nil {
		return nil, nil
	}
	d := *m.d
	return &d, nil
}

func (m *memDrafts) Clear(context.Context) error {
	m.d, m.cleared = nil, true
	return nil
}

func newTestApp(t *testing.T, f *fakeAuth, d *memDrafts, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return NewApp(f, d, logging.Discard(), auth.MaxLoginAttempts, in, &out), &out
}
