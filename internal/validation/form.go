package validation

import (
	"errors"
	"fmt"
	"sort"
)

// Field names used as keys of FieldErrors.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldPhone           = "phone"
	FieldCountry         = "country"
	FieldDateOfBirth     = "dateOfBirth"
	FieldAddress         = "address"
	FieldCity            = "city"
	FieldZipCode         = "zipCode"
	FieldIdentifier      = "emailOrUsername"
)

// RegistrationForm is the raw input of the registration screen.
type RegistrationForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Country         string
	DateOfBirth     string
	Address         string
	City            string
	ZipCode         string
}

// FieldErrors maps a field name to the rule that rejected it. Passing fields
// are absent.
type FieldErrors map[string]ErrorKind

func (fe FieldErrors) add(field string, kind ErrorKind) {
	if kind != None {
		fe[field] = kind
	}
}

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Err joins the failures into one error, or returns nil when there are none.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	errs := make([]error, 0, len(fe))
	for _, f := range fe.Fields() {
		errs = append(errs, fmt.Errorf("%s: %s", f, fe[f].Message()))
	}
	return errors.Join(errs...)
}

// ValidateRegistration applies the registration screen's rules. City and ZIP
// code are optional; a non-empty ZIP code must match the ZIP pattern.
func ValidateRegistration(form RegistrationForm) FieldErrors {
	fe := ValidateProfile(form)
	fe.add(FieldPassword, ValidatePassword(form.Password))
	fe.add(FieldConfirmPassword, ValidateConfirmPassword(form.Password, form.ConfirmPassword))
	return fe
}

// ValidateProfile applies the registration rules except the two password
// fields, which are ignored.
func ValidateProfile(form RegistrationForm) FieldErrors {
	fe := FieldErrors{}
	fe.add(FieldEmail, ValidateEmail(form.Email))
	fe.add(FieldFirstName, ValidateName(form.FirstName))
	fe.add(FieldLastName, ValidateName(form.LastName))
	fe.add(FieldPhone, ValidatePhone(form.Phone))
	fe.add(FieldCountry, ValidateRequired(form.Country))
	fe.add(FieldAddress, ValidateRequired(form.Address))
	if !isBlank(form.ZipCode) {
		fe.add(FieldZipCode, ValidateZipCode(form.ZipCode))
	}
	return fe
}

// ValidateLogin requires an email-shaped identifier and a non-empty password.
func ValidateLogin(identifier, password string) FieldErrors {
	fe := FieldErrors{}
	fe.add(FieldIdentifier, ValidateEmail(identifier))
	fe.add(FieldPassword, ValidateRequired(password))
	return fe
}
