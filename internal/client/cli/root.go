package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// commands is the surface the dispatch loop needs. *App satisfies it; tests
// use a stub.
type commands interface {
	isLoggedIn() bool
	guarded(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Record(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Retry(ctx context.Context, args []string) error
	Note(ctx context.Context, args []string) error
	Templates(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Biometrics(ctx context.Context, args []string) error
}

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(signed in)"
	}
	return ""
}

func (a *App) root(ctx context.Context) {
	printlnFn("Welcome to VetSOAP CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("vet %s> ", a.getStatus())
		if !scanner.Scan() {
			return
		}
		if !dispatch(ctx, a, scanner.Text()) {
			return
		}
	}
}

// dispatch runs one command line. It returns false when the loop should
// exit.
func dispatch(ctx context.Context, a commands, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	if cmd == "exit" || cmd == "quit" {
		printlnFn("Bye!")
		return false
	}

	// A locked app only accepts the unlock challenge.
	if !a.guarded(ctx) {
		return true
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: record, upload, (l)ist, show, watch, retry, note, templates, whoami, biometrics, logout, exit")
		} else {
			printlnFn("Available commands: login, exit")
		}
	case "login":
		_ = a.Login(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "record":
		_ = a.Record(ctx)
	case "upload":
		_ = a.Upload(ctx, args)
	case "l", "list":
		_ = a.List(ctx)
	case "show":
		_ = a.Show(ctx, args)
	case "watch":
		_ = a.Watch(ctx, args)
	case "retry":
		_ = a.Retry(ctx, args)
	case "note":
		_ = a.Note(ctx, args)
	case "templates":
		_ = a.Templates(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "biometrics":
		_ = a.Biometrics(ctx, args)
	default:
		printlnFn("Unknown command:", cmd)
	}
	return true
}

// guarded records activity and, when the app is locked, runs the unlock
// challenge. It reports whether the command may proceed.
func (a *App) guarded(ctx context.Context) bool {
	a.watchdog.Touch()

	if !a.lock.Locked() {
		return true
	}

	ok, err := a.lock.Unlock(ctx)
	if err != nil {
		printlnFn("Unlock failed:", err)
		return false
	}
	if !ok {
		printlnFn("Unlock cancelled. The session stays locked.")
		return false
	}
	return true
}
