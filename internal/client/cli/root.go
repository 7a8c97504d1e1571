package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Accounts(ctx context.Context) error
	SetName(ctx context.Context) error
	SetAvatar(ctx context.Context, rawURL string) error
	Heading(ctx context.Context, text string) error
	Content(ctx context.Context) error
	Image(ctx context.Context, rawURL string) error
	Upload(ctx context.Context, path string) error
	Show(ctx context.Context) error
	Save(ctx context.Context) error
	Publish(ctx context.Context) error
	List(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and dispatches
// to methods on 'a'. The loop exits on scanner EOF or "exit"/"quit". Command
// handlers report their own errors; the loop only keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Nannuru publisher (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("nn %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: heading <text>, content, image <url>, upload <file>, show, save, publish, (l)ist, whoami, setname, avatar <url>, accounts, logout, exit")
			} else {
				printlnFn("Available commands: login, register, accounts, show, heading <text>, content, image <url>, save, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "setname":
			_ = a.SetName(ctx)

		case "avatar":
			_ = a.SetAvatar(ctx, rest)

		case "accounts":
			_ = a.Accounts(ctx)

		case "heading":
			_ = a.Heading(ctx, rest)

		case "content":
			_ = a.Content(ctx)

		case "image":
			_ = a.Image(ctx, rest)

		case "upload":
			_ = a.Upload(ctx, rest)

		case "show":
			_ = a.Show(ctx)

		case "save":
			_ = a.Save(ctx)

		case "publish":
			_ = a.Publish(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
