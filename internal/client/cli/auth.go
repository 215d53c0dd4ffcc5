package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) credentials() (email, password string, err error) {
	email, err = GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", "", err
	}
	if email == "" {
		return "", "", fmt.Errorf("%w: email is required", errUsage)
	}
	password, err = GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *App) SignUp(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	if _, err := a.client.Auth.SignUp(ctx, email, password); err != nil {
		return err
	}
	a.printf("Account created, signed in as %s\n", email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	if _, err := a.client.Auth.SignIn(ctx, email, password); err != nil {
		return err
	}
	a.printf("Signed in as %s\n", email)
	return nil
}

func (a *App) Anonymous(ctx context.Context) error {
	if _, err := a.client.Auth.SignInAnonymously(ctx); err != nil {
		return err
	}
	a.printf("Signed in anonymously\n")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	s, err := a.client.Auth.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printf("Session refreshed, expires %s\n", time.Unix(s.ExpiresAt, 0).Format(time.RFC3339))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Auth.SignOut(ctx)
	a.printf("Signed out\n")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	auth := a.client.Auth
	s := auth.Session()
	if !s.SignedIn() {
		a.printf("Not signed in (%s)\n", auth.State())
		return nil
	}

	id := ""
	if s.User != nil {
		id = s.User.ID
	}
	a.printf("User: %s\nID: %s\nState: %s\n", displayName(s), id, auth.State())
	if s.ExpiresAt > 0 {
		a.printf("Expires: %s\n", time.Unix(s.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}
