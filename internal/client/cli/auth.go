package cli

import (
	"context"
	"fmt"
	"time"
)

// Login prompts for credentials and signs in. On success the session
// resolver picks the identity up through the SIGNED_IN event; here we only
// report the outcome.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	ident, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Sign-in failed: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", ident.Email)
	a.promptForNameIfNeeded(ctx)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.SignUp(ctx, email, password); err != nil {
		fmt.Fprintf(a.out, "Sign-up failed: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Account created. Check your inbox if email confirmation is enabled.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		fmt.Fprintf(a.out, "Sign-out failed: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	st := a.session.State()
	switch {
	case st.Loading:
		fmt.Fprintln(a.out, "Still resolving the session...")
	case !st.Present:
		fmt.Fprintln(a.out, "Not signed in.")
	default:
		name := st.Identity.DisplayName
		if name == "" {
			name = "(no display name set)"
		}
		fmt.Fprintf(a.out, "%s <%s>\n", name, st.Identity.Email)
		if st.Identity.AvatarURL != "" {
			fmt.Fprintf(a.out, "avatar: %s\n", st.Identity.AvatarURL)
		}
	}
	return nil
}

// SetName stores a display name via the identity provider.
func (a *App) SetName(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Display name", a.out)
	if err != nil {
		return err
	}
	if err := a.session.SetDisplayName(ctx, name); err != nil {
		fmt.Fprintf(a.out, "Could not set display name: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Display name updated.")
	return nil
}

// SetAvatar records a new profile-picture URL.
func (a *App) SetAvatar(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		var err error
		rawURL, err = GetSimpleText(a.reader, "Avatar URL", a.out)
		if err != nil {
			return err
		}
	}
	if err := a.session.SetAvatarURL(ctx, rawURL); err != nil {
		fmt.Fprintf(a.out, "Could not set avatar: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Avatar updated.")
	return nil
}

// Accounts lists previously used accounts, most recent first.
func (a *App) Accounts(ctx context.Context) error {
	accs := a.registry.List(ctx)
	if len(accs) == 0 {
		fmt.Fprintln(a.out, "No known accounts on this machine.")
		return nil
	}
	for _, acc := range accs {
		last := time.UnixMilli(acc.LastLogin).Local().Format("2006-01-02 15:04")
		fmt.Fprintf(a.out, "%s  (last login %s)\n", acc.Email, last)
	}
	return nil
}

// promptForNameIfNeeded nudges the user when the resolved identity has no
// display name from any source.
func (a *App) promptForNameIfNeeded(ctx context.Context) {
	if !a.session.State().NeedsDisplayName {
		return
	}
	fmt.Fprintln(a.out, "You have no display name yet; set one with 'setname'.")
}
