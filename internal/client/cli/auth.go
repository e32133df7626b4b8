package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dormdeals/dormdeals/internal/client/api"
	"github.com/dormdeals/dormdeals/internal/common"
)

// Register prompts for account details and creates an account. A fresh
// account is not logged in automatically.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter your university email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Register(ctx, name, email, string(password))
	if !res.OK {
		a.reportFailure(res.Err)
		return res.Err
	}

	fmt.Fprintf(a.out, "Account created for %s. You can now log in.\n", res.User.Email)
	return nil
}

// Login prompts for credentials and establishes a session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter your university email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.OK {
		a.reportFailure(res.Err)
		return res.Err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", res.User.Name, res.User.University)
	return nil
}

// Logout tears the session down. Local state is dropped even when the server
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the current account summary.
func (a *App) WhoAmI(ctx context.Context) error {
	state := a.session.State()
	if !state.IsAuthenticated || state.User == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	u := state.User
	fmt.Fprintf(a.out, "%s <%s>, %s\n", u.Name, u.Email, u.University)
	return nil
}

// Universities lists the accepted university email domains.
func (a *App) Universities(ctx context.Context) error {
	list, err := a.client.Universities(ctx)
	if err != nil {
		a.reportFailure(err)
		return err
	}
	for _, u := range list {
		fmt.Fprintf(a.out, "%-40s %s\n", u.Name, u.Domain)
	}
	return nil
}

// reportFailure renders an unreachable server differently from a rejection,
// so the user knows whether retrying the same input can help.
func (a *App) reportFailure(err error) {
	if errors.Is(err, api.ErrUnavailable) {
		fmt.Fprintln(a.out, "Server is unavailable. Check your connection and try again.")
		return
	}
	fmt.Fprintf(a.out, "Request failed: %v\n", err)
}
