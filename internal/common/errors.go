// Package common defines shared sentinel errors and small helpers used across
// the accountsetup packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Stored bytes could not be decoded into the expected record.
	ErrorCorrupt = errors.New("corrupt record")

	// Install key material is missing or malformed.
	ErrInvalidKey = errors.New("invalid key")
)
