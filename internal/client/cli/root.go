package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if a.session == nil || a.session.Username == "" {
		return ""
	}
	return fmt.Sprintf("(@%s)", a.session.Username)
}

func (a *App) help() {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: whoami, search [term] [page], avatar <file>, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: register, login, search [term] [page], exit")
	}
}

// Exec runs one command line. It reports whether the REPL should stop.
func (a *App) Exec(ctx context.Context, line string) (stop bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "help":
		a.help()
	case "register":
		err = a.Register(ctx)
	case "login":
		err = a.Login(ctx)
	case "logout":
		err = a.Logout(ctx)
	case "whoami":
		err = a.Whoami(ctx)
	case "search":
		err = a.Search(ctx, args)
	case "avatar":
		err = a.Avatar(ctx, args)
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}

	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return false
}

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to linkctl (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "linkctl %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if strings.TrimSpace(line) != "" && a.Exec(ctx, line) {
			return
		}
		if err != nil {
			return
		}
	}
}
