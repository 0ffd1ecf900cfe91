package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkfolio/internal/client/client"
	"github.com/dmitrijs2005/linkfolio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account and profile fields, creates the account
// and keeps the returned session. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	username, err := getSimpleText(a.reader, "Username (letters, digits, '_' or '-')", a.out)
	if err != nil {
		return err
	}

	displayName, err := getSimpleText(a.reader, "Display name (empty to use the username)", a.out)
	if err != nil {
		return err
	}

	res, err := a.api.Register(ctx, client.Registration{
		Email:       email,
		Password:    string(password),
		Username:    username,
		DisplayName: displayName,
	})
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			return fmt.Errorf("username or email already taken: %w", err)
		}
		return err
	}

	if err := a.saveSession(ctx, sessionFrom(email, res)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered as @%s\n", res.User.Username)
	return nil
}

// Login prompts for credentials and keeps the returned session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	if err := a.saveSession(ctx, sessionFrom(email, res)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as @%s\n", res.User.Username)
	return nil
}

// Logout revokes the refresh token on the server and forgets the local
// session. A server that already rejects the token does not block logout.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotSignedIn
	}

	err := a.api.Logout(ctx, a.session.AccessToken, a.session.RefreshToken)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.session = nil

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	return a.withAuth(ctx, func(token string) error {
		u, err := a.api.Me(ctx, token)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "@%s (%s) <%s>\n", u.Username, u.DisplayName, u.Email)
		return nil
	})
}
