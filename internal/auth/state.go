package auth

import (
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/profile"
)

// State is the in-memory authentication state.
//
// Invariants: IsAccountLocked implies LockTime != nil; IsAuthenticated
// implies User != nil; FailedLoginAttempts goes back to 0 only when the lock
// clears or a login succeeds.
type State struct {
	User                *profile.User
	IsAuthenticated     bool
	IsLoading           bool
	FailedLoginAttempts int
	IsAccountLocked     bool
	LockTime            *time.Time
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.LockTime != nil {
		t := *s.LockTime
		out.LockTime = &t
	}
	return out
}
