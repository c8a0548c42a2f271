package biometrix

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// TerminalAuthenticator is the desktop stand-in for a platform biometric
// prompt: it asks for the unlock passcode on the terminal without echo and
// compares its digest in constant time.
type TerminalAuthenticator struct {
	digest [sha256.Size]byte
	set    bool
}

func NewTerminalAuthenticator() *TerminalAuthenticator {
	return &TerminalAuthenticator{}
}

// SetPasscode installs the passcode challenges are checked against. Until it
// is called the authenticator reports itself unavailable.
func (a *TerminalAuthenticator) SetPasscode(passcode []byte) {
	a.digest = sha256.Sum256(passcode)
	a.set = true
}

func (a *TerminalAuthenticator) Available(context.Context) (bool, error) {
	return a.set && term.IsTerminal(int(os.Stdin.Fd())), nil
}

func (a *TerminalAuthenticator) Authenticate(_ context.Context, reason string) (bool, error) {
	fmt.Printf("%s\nEnter passcode: ", reason)
	entered, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return false, err
	}

	candidate := sha256.Sum256(entered)
	return subtle.ConstantTimeCompare(candidate[:], a.digest[:]) == 1, nil
}
