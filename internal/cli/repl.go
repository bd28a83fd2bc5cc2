package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	SetPasscode(ctx context.Context) error
	ClearPasscode(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	AddProject(ctx context.Context) error
	ListProjects(ctx context.Context) error
	OpenProject(ctx context.Context, id string) error
	AddEntry(ctx context.Context) error
	Timeline(ctx context.Context, filterDate string) error
	ShowPhoto(ctx context.Context, key string) error
}

// runREPL reads a line from scanner, parses the first token as the command,
// and dispatches to methods on 'a'. Unknown commands are reported back to
// the user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Locked sessions accept: help, setpass, unlock, exit.
// Unlocked sessions additionally accept: addproject, projects, open <id>,
// addentry, timeline [YYYY-MM-DD], photo <key>, lock.
//
// Errors from command handlers are ignored here; handlers report their own
// failures. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fl> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: addproject, projects, open <id>, addentry, timeline [YYYY-MM-DD], photo <key>, clearpass, lock, exit")
			} else {
				printlnFn("Available commands: setpass, unlock, exit")
			}

		case "setpass":
			_ = a.SetPasscode(ctx)

		case "clearpass":
			_ = a.ClearPasscode(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "addproject":
			_ = a.AddProject(ctx)

		case "projects":
			_ = a.ListProjects(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <project id>")
				continue
			}
			_ = a.OpenProject(ctx, args[0])

		case "addentry":
			_ = a.AddEntry(ctx)

		case "timeline":
			filterDate := ""
			if len(args) > 0 {
				filterDate = args[0]
			}
			_ = a.Timeline(ctx, filterDate)

		case "photo":
			if len(args) == 0 {
				printlnFn("Usage: photo <key>")
				continue
			}
			_ = a.ShowPhoto(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command: " + cmd)
		}
	}
}
