// Command vaultctl runs offline maintenance against a SecureVault database:
//
//	vaultctl reset-passwords [-out passwords.csv] [server flags]
//	vaultctl reset-password -user userid [server flags]
//	vaultctl export-db [-o db_exports] [server flags]
//	vaultctl export-activity [-format pdf|text|csv] [-user userid] [-out file] [server flags]
//
// Server flags, the config file and SECUREVAULT_* variables select the
// database exactly as for the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/filex"
	"github.com/dmitrijs2005/securevault/internal/flagx"
	"github.com/dmitrijs2005/securevault/internal/server"
	"github.com/dmitrijs2005/securevault/internal/server/config"
	"github.com/dmitrijs2005/securevault/internal/server/export"
	"github.com/dmitrijs2005/securevault/internal/server/maintenance"
)

const usage = `usage: vaultctl <command> [flags]

commands:
  reset-passwords   give every account a random password, write them to -out
  reset-password    give -user a random password and print it once
  export-db         dump users and activity_log as CSV into -o
  export-activity   write the activity report (-format pdf|text|csv, -user, -out)
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("unknown command")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "reset-passwords":
		return resetPasswords(ctx, rest, stdout, stderr)
	case "reset-password":
		return resetPassword(ctx, rest, stdout, stderr)
	case "export-db":
		return exportDB(ctx, rest, stdout, stderr)
	case "export-activity":
		return exportActivity(ctx, rest, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: %s", errUsage, cmd)
	}
}

func commandFlags(name string, args []string, own []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	define(fs)
	return fs.Parse(flagx.FilterArgs(args, own))
}

func openApp(ctx context.Context, args []string, logs io.Writer, adjust func(*config.Config)) (*server.App, error) {
	cfg := config.LoadConfigFrom(args)
	if adjust != nil {
		adjust(cfg)
	}
	return server.NewApp(ctx, cfg, logs)
}

func resetPasswords(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	out := maintenance.PasswordsFile
	if err := commandFlags("reset-passwords", args, []string{"-out"}, func(fs *flag.FlagSet) {
		fs.StringVar(&out, "out", out, "output CSV")
	}); err != nil {
		return err
	}

	app, err := openApp(ctx, args, stderr, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := maintenance.ResetPasswords(ctx, app.Credentials(), out)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(stdout, "No users found in users table.")
		return nil
	}

	fmt.Fprintf(stdout, "Updated %d users. Plaintext mapping saved to: %s\n", n, out)
	fmt.Fprintln(stdout, "DON'T SHARE that CSV publicly. Use it only for testing.")
	return nil
}

func resetPassword(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var user string
	if err := commandFlags("reset-password", args, []string{"-user"}, func(fs *flag.FlagSet) {
		fs.StringVar(&user, "user", user, "userid")
	}); err != nil {
		return err
	}
	if user == "" {
		return fmt.Errorf("-user is required: %w", common.ErrorInvalidInput)
	}

	app, err := openApp(ctx, args, stderr, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	password, err := common.GeneratePassword(maintenance.PasswordLength)
	if err != nil {
		return err
	}
	password, err = app.Credentials().ResetPassword(ctx, user, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "New password for %s: %s\n", user, password)
	return nil
}

func exportDB(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	app, err := openApp(ctx, args, stderr, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	paths, err := maintenance.ExportTables(ctx, app.DB(), app.ExportDir(), maintenance.Tables)
	if err != nil {
		return err
	}
	for i, p := range paths {
		fmt.Fprintf(stdout, "Exported %s → %s\n", maintenance.Tables[i], p)
	}
	return nil
}

func exportActivity(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	format, user, out := "pdf", "", ""
	if err := commandFlags("export-activity", args, []string{"-format", "-user", "-out"}, func(fs *flag.FlagSet) {
		fs.StringVar(&format, "format", format, "pdf, text or csv")
		fs.StringVar(&user, "user", user, "only this userid")
		fs.StringVar(&out, "out", out, "output file")
	}); err != nil {
		return err
	}

	switch format {
	case "pdf", "text", "csv":
	default:
		return fmt.Errorf("format %q: %w", format, common.ErrorInvalidInput)
	}

	app, err := openApp(ctx, args, stderr, func(c *config.Config) {
		if format != "csv" {
			c.DocumentRenderer = format
		}
	})
	if err != nil {
		return err
	}
	defer app.Close()

	scope := export.All()
	if user != "" {
		scope = export.Of(user)
	}

	var (
		content []byte
		ext     = "csv"
	)
	if format == "csv" {
		content, err = app.Exporter().CSV(ctx, app.AdminSession(), scope)
		if err != nil {
			return err
		}
	} else {
		doc, err := app.Exporter().Document(ctx, app.AdminSession(), scope)
		if err != nil {
			return err
		}
		if doc.Substituted {
			fmt.Fprintln(stdout, "Document renderer unavailable, exported CSV instead.")
		}
		content, ext = doc.Content, doc.Extension
	}

	if out == "" {
		out = "activity_log." + ext
	}
	if err := filex.WriteFileAtomic(out, content, 0o640); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Activity exported successfully →", out)
	return nil
}
