package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/quizdeck/internal/client/api"
	"github.com/dmitrijs2005/quizdeck/internal/client/gate"
)

// getSimpleText and getPassword are indirections over the input helpers so
// command tests can feed canned answers.
var (
	getSimpleText = GetSimpleText
	getPassword   = func(a *App) (string, error) { return GetPassword(a.out) }
)

// printAuthError renders an authentication or profile failure for the user.
// Validation errors are shown field by field so they can be corrected inline;
// everything else collapses to a single message.
func (a *App) printAuthError(err error) {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		if verr.Message != "" {
			fmt.Fprintln(a.out, verr.Message)
		}
		for _, fe := range verr.Fields {
			fmt.Fprintf(a.out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return
	}
	if errors.Is(err, api.ErrUnavailable) {
		fmt.Fprintln(a.out, "Server is unavailable, please try again later.")
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}

// Login prompts for credentials and signs the user in. On success the UI
// moves to the landing route for the user's role.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email:", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		a.printAuthError(err)
		return nil
	}

	st := a.session.State()
	if st.User == nil {
		return nil
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", st.User.Email)
	a.navigate(ctx, gate.LandingFor(st.User))
	return nil
}

// Register prompts for a name, email and password and creates an account.
// A successful registration signs the user in immediately.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name:", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email:", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a)
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, name, email, password); err != nil {
		a.printAuthError(err)
		return nil
	}

	st := a.session.State()
	if st.User == nil {
		return nil
	}
	fmt.Fprintf(a.out, "Welcome, %s! Your account is ready.\n", st.User.Name)
	a.navigate(ctx, gate.LandingFor(st.User))
	return nil
}

// Logout drops the session and returns to the login view.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	a.navigate(ctx, gate.RouteLogin)
	return nil
}

// Profile lets the user change their display name and email. Empty answers
// keep the current values.
func (a *App) Profile(ctx context.Context) error {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "You need to sign in first.")
		return nil
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("New name [%s]:", st.User.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = st.User.Name
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("New email [%s]:", st.User.Email), a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = st.User.Email
	}

	updated, err := a.session.UpdateProfile(ctx, name, email)
	if err != nil {
		a.printAuthError(err)
		if !a.session.State().Authenticated() {
			a.navigate(ctx, gate.RouteLogin)
		}
		return nil
	}

	fmt.Fprintf(a.out, "Profile updated: %s <%s>.\n", updated.Name, updated.Email)
	return nil
}

// Refresh re-verifies the stored token against the server and reports the
// resulting session state.
func (a *App) Refresh(ctx context.Context) error {
	a.session.Refresh(ctx)
	a.waitResolved(ctx)
	return a.WhoAmI(ctx)
}

// WhoAmI prints the current identity, if any.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>, role %s\n", st.User.Name, st.User.Email, st.User.Role)
	return nil
}

// GoHome navigates to the student home view.
func (a *App) GoHome(ctx context.Context) error {
	a.navigate(ctx, gate.RouteStudentHome)
	return nil
}

// GoAdmin navigates to the admin panel. Non-admins are bounced back to their
// landing route by the gate.
func (a *App) GoAdmin(ctx context.Context) error {
	a.navigate(ctx, gate.RouteAdminHome)
	return nil
}
