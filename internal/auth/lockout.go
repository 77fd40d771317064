package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/common"
)

const (
	// MaxLoginAttempts is the number of consecutive failures that locks the account.
	MaxLoginAttempts = 5
	// LockDuration is how long a lock lasts before it clears on its own.
	LockDuration = 2 * time.Minute

	// LockoutKey is the metadata key of the persisted lockout record.
	LockoutKey = "@failed_login_attempts"
)

// lockoutRecord is the persisted form of the lock fields of State.
type lockoutRecord struct {
	Attempts int        `json:"attempts"`
	Locked   bool       `json:"locked"`
	LockTime *time.Time `json:"lockTime,omitempty"`
}

func lockExpired(lockTime *time.Time, now time.Time, d time.Duration) bool {
	return lockTime == nil || now.Sub(*lockTime) >= d
}

func lockRemaining(lockTime *time.Time, now time.Time, d time.Duration) time.Duration {
	if lockTime == nil {
		return 0
	}
	left := d - now.Sub(*lockTime)
	if left < 0 {
		return 0
	}
	return left
}

// clearLock resets the lock fields. Caller holds s.mu.
func (s *Store) clearLock() {
	s.state.FailedLoginAttempts = 0
	s.state.IsAccountLocked = false
	s.state.LockTime = nil
}

// unlockIfExpired clears an expired lock and reports whether the account is
// still locked afterwards, and whether a lock was cleared.
func (s *Store) unlockIfExpired(now time.Time) (locked, cleared bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsAccountLocked {
		return false, false
	}
	if lockExpired(s.state.LockTime, now, s.opts.LockDuration) {
		s.clearLock()
		return false, true
	}
	return true, false
}

// recordFailure bumps the counter and locks the account once it reaches the
// limit. It returns the error the caller should report.
func (s *Store) recordFailure(ctx context.Context) error {
	now := s.opts.Now()

	s.mu.Lock()
	s.state.FailedLoginAttempts++
	attempts := s.state.FailedLoginAttempts
	locked := attempts >= s.opts.MaxLoginAttempts
	s.state.IsAccountLocked = locked
	if locked {
		s.state.LockTime = &now
	} else {
		s.state.LockTime = nil
	}
	s.mu.Unlock()

	s.saveLockout(ctx)

	if locked {
		s.logger.Warn(ctx, "account locked", "attempts", attempts, "duration", s.opts.LockDuration)
		return ErrAccountLocked
	}
	s.logger.Info(ctx, "login failed", "attempts", attempts)
	return ErrLoginFailed
}

// saveLockout persists the lock fields. Failures are logged only: the
// in-memory state stays authoritative for this process.
func (s *Store) saveLockout(ctx context.Context) {
	if s.lockouts == nil {
		return
	}

	s.mu.Lock()
	rec := lockoutRecord{
		Attempts: s.state.FailedLoginAttempts,
		Locked:   s.state.IsAccountLocked,
	}
	if s.state.LockTime != nil {
		t := *s.state.LockTime
		rec.LockTime = &t
	}
	s.mu.Unlock()

	data, err := json.Marshal(rec)
	if err == nil {
		ioCtx, cancel := s.ioContext(ctx)
		err = s.lockouts.Set(ioCtx, LockoutKey, data)
		cancel()
	}
	if err != nil {
		s.logger.Error(ctx, "failed to persist lockout state", "error", err)
	}
}

// loadLockout restores the lock fields from storage, if a record exists.
func (s *Store) loadLockout(ctx context.Context) error {
	if s.lockouts == nil {
		return nil
	}

	ioCtx, cancel := s.ioContext(ctx)
	data, err := s.lockouts.Get(ioCtx, LockoutKey)
	cancel()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var rec lockoutRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode lockout record: %w: %v", common.ErrorCorrupt, err)
	}
	if rec.Attempts < 0 {
		rec.Attempts = 0
	}

	s.mu.Lock()
	s.state.FailedLoginAttempts = rec.Attempts
	s.state.IsAccountLocked = rec.Locked && rec.LockTime != nil
	s.state.LockTime = nil
	if s.state.IsAccountLocked {
		t := *rec.LockTime
		s.state.LockTime = &t
	}
	s.mu.Unlock()
	return nil
}
