package cli

import (
	"context"
	"os"

	"github.com/vetsoap/vetsoap-go/internal/common"
)

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := promptText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}

	printlnFn("Password:")
	password, err := readSecret()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignIn(ctx, email, string(password)); err != nil {
		printlnFn("Sign-in failed:", err)
		return err
	}

	printlnFn("Signed in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		printlnFn("Sign-out failed:", err)
		return err
	}
	printlnFn("Signed out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.users.Me(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn(user.Email, "-", user.FullName)
	return nil
}

// Biometrics toggles the quick-unlock opt-in: "biometrics on" installs a
// passcode and enables the lock, "biometrics off" disables it.
func (a *App) Biometrics(ctx context.Context, args []string) error {
	if len(args) == 0 {
		enabled, err := a.creds.BiometricEnabled(ctx)
		if err != nil {
			return err
		}
		if enabled {
			printlnFn("Biometric lock is on.")
		} else {
			printlnFn("Biometric lock is off.")
		}
		return nil
	}

	switch args[0] {
	case "on":
		printlnFn("Choose an unlock passcode:")
		passcode, err := readSecret()
		if err != nil {
			return err
		}
		defer common.WipeByteArray(passcode)
		if len(passcode) < 4 {
			printlnFn("Passcode must be at least 4 characters.")
			return nil
		}

		a.termAuth.SetPasscode(passcode)
		if err := a.bio.SetEnabled(ctx, true); err != nil {
			printlnFn("Error:", err)
			return err
		}
		printlnFn("Biometric lock enabled.")
	case "off":
		if err := a.bio.SetEnabled(ctx, false); err != nil {
			printlnFn("Error:", err)
			return err
		}
		printlnFn("Biometric lock disabled.")
	default:
		printlnFn("Usage: biometrics [on|off]")
	}
	return nil
}
