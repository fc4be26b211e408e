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
	isLoggedIn() bool
	isAdmin() bool
	report(ctx context.Context, err error)

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Files(ctx context.Context, search string) error
	Download(ctx context.Context, name, dest string) error
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, name string) error
	Account(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Support(ctx context.Context) error
	Admin(ctx context.Context, owner string) error
}

// Commands that need a logged-in session.
var loginRequired = map[string]bool{
	"upload":   true,
	"files":    true,
	"download": true,
	"rename":   true,
	"delete":   true,
	"account":  true,
	"export":   true,
	"logout":   true,
	"admin":    true,
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// runREPL starts a simple read-eval-print loop for the SecureVault CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// The reader is shared with the command prompts. The loop exits on EOF or
// when the user types "exit" or "quit".
//
//	Always:
//	  - help                            show available commands
//	  - signup                          create an account
//	  - login                           authenticate (answers a CAPTCHA)
//	  - support                         send a support request
//	  - exit | quit                     leave the program
//
//	Logged in:
//	  - upload <path>                   upload a local file
//	  - files [search]                  list own files
//	  - download <name> [dest]          save a file locally
//	  - rename <old> <new>              rename a file
//	  - delete <name>                   delete a file
//	  - account                         profile, usage and recent activity
//	  - export [pdf|csv] [all] [dest]   export the activity log
//	  - logout                          log out
//
//	Admin:
//	  - admin [owner]                   list users with files, or one user's files
//
// Command errors are handed to a.report and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sv %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if loginRequired[cmd] && !a.isLoggedIn() {
			printlnFn("Login required.")
			continue
		}

		err = nil
		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn("Available commands: upload, files, download, rename, delete, account, export, support, admin, logout, exit")
			case a.isLoggedIn():
				printlnFn("Available commands: upload, files, download, rename, delete, account, export, support, logout, exit")
			default:
				printlnFn("Available commands: signup, login, support, exit")
			}

		case "signup":
			err = a.Signup(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "upload":
			err = a.Upload(ctx, arg(args, 0))
		case "files":
			err = a.Files(ctx, strings.Join(args, " "))
		case "download":
			err = a.Download(ctx, arg(args, 0), arg(args, 1))
		case "rename":
			err = a.Rename(ctx, arg(args, 0), arg(args, 1))
		case "delete":
			err = a.Delete(ctx, arg(args, 0))
		case "account":
			err = a.Account(ctx)
		case "export":
			err = a.Export(ctx, args)
		case "support":
			err = a.Support(ctx)

		case "admin":
			if !a.isAdmin() {
				printlnFn("Admin only.")
				continue
			}
			err = a.Admin(ctx, arg(args, 0))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			a.report(ctx, err)
		}
	}
}
