package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the set of commands the REPL dispatches to. App implements
// it; tests substitute a fake to observe dispatch without real subsystems.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Refresh(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	GoHome(ctx context.Context) error
	GoAdmin(ctx context.Context) error
}

func printHelp(w io.Writer, loggedIn bool) {
	fmt.Fprintln(w, "Available commands:")
	if loggedIn {
		fmt.Fprintln(w, "  home     go to your quiz list")
		fmt.Fprintln(w, "  admin    open the admin panel (admins only)")
		fmt.Fprintln(w, "  whoami   show the signed-in identity")
		fmt.Fprintln(w, "  profile  update your name and email")
		fmt.Fprintln(w, "  refresh  re-check the session with the server")
		fmt.Fprintln(w, "  logout   sign out")
	} else {
		fmt.Fprintln(w, "  login     sign in with email and password")
		fmt.Fprintln(w, "  register  create a new account")
		fmt.Fprintln(w, "  refresh   re-check the session with the server")
	}
	fmt.Fprintln(w, "  help     show this message")
	fmt.Fprintln(w, "  exit     quit")
}

// runREPL reads commands from scanner and dispatches them to e until the
// user exits, input ends or ctx is cancelled. statusFn supplies the prompt
// prefix, re-evaluated before every prompt so it tracks the session.
func runREPL(ctx context.Context, e execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	fmt.Fprintln(w, "Type 'help' to list commands.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Fprintf(w, "%s > ", statusFn())
		if !scanner.Scan() {
			return
		}

		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		var err error

		switch cmd {
		case "":
			continue
		case "help":
			printHelp(w, e.isLoggedIn())
		case "login":
			err = e.Login(ctx)
		case "register":
			err = e.Register(ctx)
		case "logout":
			err = e.Logout(ctx)
		case "profile":
			err = e.Profile(ctx)
		case "refresh":
			err = e.Refresh(ctx)
		case "whoami":
			err = e.WhoAmI(ctx)
		case "home":
			err = e.GoHome(ctx)
		case "admin":
			err = e.GoAdmin(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintf(w, "Unknown command: %s\n", cmd)
		}

		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
}
