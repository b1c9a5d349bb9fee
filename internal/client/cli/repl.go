package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	BiometricLogin(ctx context.Context) error
	BiometricStatus(ctx context.Context) error
	EnableBiometric(ctx context.Context, args []string) error
	DisableBiometric(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the wallet CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                  show available commands
//	  - login                 sign in with email and password
//	  - biologin              sign in with biometrics
//	  - bio                   biometric status
//	  - exit | quit           leave the program
//
//	Logged in:
//	  - help                  show available commands
//	  - whoami                show the current user
//	  - bio                   biometric status
//	  - bioenable [password]  enable biometric login
//	  - biodisable            disable biometric login
//	  - logout                log out
//	  - exit | quit           leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("wallet %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, bio, bioenable [password], biodisable, logout, exit")
			} else {
				printlnFn("Available commands: login, biologin, bio, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "biologin":
			_ = a.BiometricLogin(ctx)

		case "bio":
			_ = a.BiometricStatus(ctx)

		case "bioenable":
			_ = a.EnableBiometric(ctx, args)

		case "biodisable":
			_ = a.DisableBiometric(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
