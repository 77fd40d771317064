package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountsetup/internal/auth"
	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/drafts"
	"github.com/dmitrijs2005/accountsetup/internal/profile"
	"github.com/dmitrijs2005/accountsetup/internal/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// registrationField is one prompt of the register command. A nil validate
// accepts anything, including an empty value.
type registrationField struct {
	label    string
	validate func(string) validation.ErrorKind
	value    func(d *drafts.Draft) *string
}

func optional(rule func(string) validation.ErrorKind) func(string) validation.ErrorKind {
	return func(v string) validation.ErrorKind {
		if v == "" {
			return validation.None
		}
		return rule(v)
	}
}

var registrationFields = []registrationField{
	{"Email", validation.ValidateEmail, func(d *drafts.Draft) *string { return &d.Email }},
	{"First name", validation.ValidateName, func(d *drafts.Draft) *string { return &d.FirstName }},
	{"Last name", validation.ValidateName, func(d *drafts.Draft) *string { return &d.LastName }},
	{"Phone", validation.ValidatePhone, func(d *drafts.Draft) *string { return &d.Phone }},
	{"Country", validation.ValidateRequired, func(d *drafts.Draft) *string { return &d.Country }},
	{"Date of birth (optional)", nil, func(d *drafts.Draft) *string { return &d.DateOfBirth }},
	{"Address", validation.ValidateRequired, func(d *drafts.Draft) *string { return &d.Address }},
	{"City (optional)", nil, func(d *drafts.Draft) *string { return &d.City }},
	{"ZIP code (optional)", optional(validation.ValidateZipCode), func(d *drafts.Draft) *string { return &d.ZipCode }},
}

// Register walks the user through the registration fields, re-prompting
// until each one is valid, then creates the account and signs in.
//
// Accepted fields are saved as a draft after each step, so an interrupted
// registration resumes with those values offered as defaults.
func (a *App) Register(ctx context.Context) error {
	if st := a.auth.State(); st.IsAuthenticated {
		fmt.Fprintf(a.out, "Already signed in as %s; logout first\n", st.User.DisplayName())
		return nil
	}

	draft := a.loadDraft(ctx)

	for _, f := range registrationFields {
		v, err := a.promptField(f, *f.value(&draft))
		if err != nil {
			return err
		}
		patch := drafts.Draft{}
		*f.value(&patch) = v
		*f.value(&draft) = v
		if err := a.drafts.Save(ctx, patch); err != nil {
			a.logger.Warn(ctx, "failed to save registration draft", "error", err)
		}
	}

	password, err := a.promptNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := validation.RegistrationForm{
		Email:       draft.Email,
		FirstName:   draft.FirstName,
		LastName:    draft.LastName,
		Phone:       draft.Phone,
		Country:     draft.Country,
		DateOfBirth: draft.DateOfBirth,
		Address:     draft.Address,
		City:        draft.City,
		ZipCode:     draft.ZipCode,
	}
	if err := validation.ValidateProfile(form).Err(); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	reg := auth.Registration{
		Profile: profile.User{
			Email:       draft.Email,
			FirstName:   draft.FirstName,
			LastName:    draft.LastName,
			Phone:       draft.Phone,
			Country:     draft.Country,
			DateOfBirth: draft.DateOfBirth,
			Address:     draft.Address,
			City:        draft.City,
			ZipCode:     draft.ZipCode,
		},
		Password: password,
	}
	if err := a.auth.Register(ctx, reg); err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}

	if err := a.drafts.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "failed to clear registration draft", "error", err)
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", a.auth.State().User.DisplayName())
	return nil
}

func (a *App) loadDraft(ctx context.Context) drafts.Draft {
	d, err := a.drafts.Get(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to load registration draft", "error", err)
		return drafts.Draft{}
	}
	if d == nil {
		return drafts.Draft{}
	}
	return *d
}

// promptField asks until the value passes f.validate. An empty answer takes def.
func (a *App) promptField(f registrationField, def string) (string, error) {
	prompt := f.label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", f.label, def)
	}

	for {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if v == "" {
			v = def
		}
		if f.validate == nil {
			return v, nil
		}
		kind := f.validate(v)
		if kind.OK() {
			return v, nil
		}
		fmt.Fprintln(a.out, kind.Message())
	}
}

// promptNewPassword asks for a password and its confirmation until both pass.
func (a *App) promptNewPassword() ([]byte, error) {
	for {
		password, err := getPassword(a.reader, a.ttyFd, "Password", a.out)
		if err != nil {
			return nil, err
		}
		if kind := validation.ValidatePassword(string(password)); !kind.OK() {
			fmt.Fprintln(a.out, kind.Message())
			common.WipeByteArray(password)
			continue
		}

		confirm, err := getPassword(a.reader, a.ttyFd, "Confirm password", a.out)
		if err != nil {
			common.WipeByteArray(password)
			return nil, err
		}
		kind := validation.ValidateConfirmPassword(string(password), string(confirm))
		common.WipeByteArray(confirm)
		if kind.OK() {
			return password, nil
		}
		fmt.Fprintln(a.out, kind.Message())
		common.WipeByteArray(password)
	}
}

// Login prompts for credentials and signs in. Lock and failure messages are
// printed here; the error is returned as well.
func (a *App) Login(ctx context.Context) error {
	if st := a.auth.State(); st.IsAuthenticated {
		fmt.Fprintf(a.out, "Already signed in as %s\n", st.User.DisplayName())
		return nil
	}

	identifier, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.ttyFd, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if fe := validation.ValidateLogin(identifier, string(password)); len(fe) > 0 {
		for _, f := range fe.Fields() {
			fmt.Fprintf(a.out, "%s: %s\n", f, fe[f].Message())
		}
		return fe.Err()
	}

	err = a.auth.Login(ctx, identifier, password)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Welcome, %s!\n", a.auth.State().User.DisplayName())
	case errors.Is(err, auth.ErrAccountLocked):
		fmt.Fprintf(a.out, "%s. Try again in %s\n", capitalize(err.Error()), formatCountdown(a.auth.LockRemaining()))
	case errors.Is(err, auth.ErrLoginFailed):
		left := a.maxAttempts - a.auth.State().FailedLoginAttempts
		fmt.Fprintf(a.out, "%s (%d attempts left)\n", capitalize(err.Error()), left)
	default:
		a.logger.Error(ctx, "login failed", "error", err)
		fmt.Fprintln(a.out, "Login unavailable:", err)
	}
	return err
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout failed", "error", err)
		fmt.Fprintln(a.out, "Signed out, but the stored session could not be removed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
