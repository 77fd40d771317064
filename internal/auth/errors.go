package auth

import "errors"

var (
	// ErrLoginFailed means the identifier or password did not match, or no
	// account is registered on this install.
	ErrLoginFailed = errors.New("invalid email/username or password")
	// ErrAccountLocked means too many failed attempts; retry after the lock expires.
	ErrAccountLocked = errors.New("account locked due to too many failed attempts")
	// ErrPersistence wraps a failure of the credential vault or profile store.
	ErrPersistence = errors.New("credential storage unavailable")
	// ErrAccountDataCorrupt means the credentials matched but the stored
	// profile is missing or unreadable.
	ErrAccountDataCorrupt = errors.New("account data missing or corrupt")
	// ErrSessionInvalid is returned by token verification for tokens that
	// were not issued by this install.
	ErrSessionInvalid = errors.New("invalid session token")
)
