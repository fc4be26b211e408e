package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/client/client"
	"github.com/dmitrijs2005/securevault/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Signup prompts for a userid, an email and a password, shows the password
// strength and creates the account. It does not log the user in.
func (a *App) Signup(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Choose userid", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) > 0 {
		fmt.Fprintf(a.out, "Password strength: %s\n", PasswordStrength(string(password)))
	}
	if userID == "" || email == "" || len(password) == 0 {
		return fmt.Errorf("all fields required: %w", common.ErrorInvalidInput)
	}

	if err := a.client.Signup(ctx, userID, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created!")
	return nil
}

// Login shows the current CAPTCHA, prompts for credentials and the answer
// and authenticates. Whatever the outcome the server issues a new CAPTCHA,
// so the local session view is refreshed on failure.
func (a *App) Login(ctx context.Context) error {
	if a.session.CaptchaA == 0 {
		a.refreshSession(ctx)
	}

	fmt.Fprintf(a.out, "CAPTCHA: what is %d + %d?\n", a.session.CaptchaA, a.session.CaptchaB)

	userID, err := getSimpleText(a.reader, "Enter userid", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	answer, err := getSimpleText(a.reader, "Enter CAPTCHA answer", a.out)
	if err != nil {
		return err
	}

	s, err := a.client.Login(ctx, userID, string(password), answer)
	if err != nil {
		a.refreshSession(ctx)
		return err
	}

	a.session = *s
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.Identity)
	return nil
}

// Logout ends the session on the server and drops back to a guest session.
func (a *App) Logout(ctx context.Context) error {
	s, err := a.client.Logout(ctx)
	if err != nil {
		return err
	}
	a.session = *s
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// report prints a command failure. A rejected session token has already
// been replaced by a guest one, so the local view is reloaded.
func (a *App) report(ctx context.Context, err error) {
	switch {
	case client.IsSessionLost(err):
		a.refreshSession(ctx)
		printlnFn("Session expired, please log in again.")
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		printlnFn("Server unavailable:", err.Error())
	default:
		printlnFn("Error:", err.Error())
	}
}
