// Package validation holds the field rules applied to registration and login
// input. Every rule is a pure function returning an ErrorKind; None means the
// value passed.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies why a field value was rejected.
type ErrorKind string

const (
	None             ErrorKind = ""
	Required         ErrorKind = "REQUIRED"
	EmailInvalid     ErrorKind = "EMAIL_INVALID"
	PasswordWeak     ErrorKind = "PASSWORD_WEAK"
	PasswordMismatch ErrorKind = "PASSWORD_MISMATCH"
	PhoneInvalid     ErrorKind = "PHONE_INVALID"
	NameInvalid      ErrorKind = "NAME_INVALID"
	ZipCodeInvalid   ErrorKind = "ZIP_CODE_INVALID"
)

// PasswordMinLength is the minimum password length in characters.
const PasswordMinLength = 8

// PasswordSpecialChars is the symbol set a password must draw at least one
// character from.
const PasswordSpecialChars = "@$!%*?&"

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe   = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	nameRe    = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	zipCodeRe = regexp.MustCompile(`^[A-Za-z0-9\s-]+$`)

	// RE2 has no look-ahead, so the composition pattern is split into its
	// character-class requirements plus the leading-character check.
	passwordLeadRe    = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]`)
	passwordLowerRe   = regexp.MustCompile(`[a-z]`)
	passwordUpperRe   = regexp.MustCompile(`[A-Z]`)
	passwordDigitRe   = regexp.MustCompile(`\d`)
	passwordSpecialRe = regexp.MustCompile(`[@$!%*?&]`)
)

var messages = map[ErrorKind]string{
	Required:         "This field is required",
	EmailInvalid:     "Please enter a valid email address",
	PasswordWeak:     "Password must be at least 8 characters with uppercase, lowercase, number, and special character",
	PasswordMismatch: "Passwords do not match",
	PhoneInvalid:     "Please enter a valid phone number",
	NameInvalid:      "Please enter a valid name",
	ZipCodeInvalid:   "Please enter a valid ZIP code",
}

// Message is the user-facing text for k, or "" for None.
func (k ErrorKind) Message() string {
	return messages[k]
}

// OK reports whether k is the no-error sentinel.
func (k ErrorKind) OK() bool {
	return k == None
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// ValidateRequired rejects empty or whitespace-only values.
func ValidateRequired(value string) ErrorKind {
	if isBlank(value) {
		return Required
	}
	return None
}

func ValidateEmail(email string) ErrorKind {
	if isBlank(email) {
		return Required
	}
	if !emailRe.MatchString(email) {
		return EmailInvalid
	}
	return None
}

// ValidatePassword checks length first, then composition. Both failures
// report PasswordWeak.
func ValidatePassword(password string) ErrorKind {
	if isBlank(password) {
		return Required
	}
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return PasswordWeak
	}
	if !passwordComposed(password) {
		return PasswordWeak
	}
	return None
}

func passwordComposed(password string) bool {
	return passwordLeadRe.MatchString(password) &&
		passwordLowerRe.MatchString(password) &&
		passwordUpperRe.MatchString(password) &&
		passwordDigitRe.MatchString(password) &&
		passwordSpecialRe.MatchString(password)
}

// ValidateConfirmPassword requires confirm to be present and to equal
// password exactly.
func ValidateConfirmPassword(password, confirm string) ErrorKind {
	if isBlank(confirm) {
		return Required
	}
	if password != confirm {
		return PasswordMismatch
	}
	return None
}

// ValidatePhone accepts an optional leading '+', digits, spaces, hyphens and
// parentheses. Length and country codes are not checked.
func ValidatePhone(phone string) ErrorKind {
	if isBlank(phone) {
		return Required
	}
	if !phoneRe.MatchString(phone) {
		return PhoneInvalid
	}
	return None
}

// ValidateName accepts ASCII letters, spaces, apostrophes and hyphens.
func ValidateName(name string) ErrorKind {
	if isBlank(name) {
		return Required
	}
	if !nameRe.MatchString(name) {
		return NameInvalid
	}
	return None
}

func ValidateZipCode(zip string) ErrorKind {
	if isBlank(zip) {
		return Required
	}
	if !zipCodeRe.MatchString(zip) {
		return ZipCodeInvalid
	}
	return None
}
