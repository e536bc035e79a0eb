package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/app"
	"github.com/matheus3301/bookadmin/internal/config"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/profile"
	"github.com/matheus3301/bookadmin/internal/session"
	"github.com/matheus3301/bookadmin/internal/store"
	"go.uber.org/fx"
)

var errUsage = errors.New("usage")

// env is what every command runs against.
type env struct {
	out     io.Writer
	jsonOut bool
	cfg     *config.Config

	mgr    *session.Manager
	tables *app.Tables
	im     *importer.Importer
	db     *store.DB
	client *api.Client
}

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	debug := flag.Bool("debug", false, "log debug lines to stderr")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the command")
	flag.Usage = printUsage
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	e := &env{out: os.Stdout, jsonOut: *jsonFlag, cfg: cfg}
	params := app.Params{Profile: name, Config: cfg, Console: true, Debug: *debug}
	err = app.Run(ctx, params, func(ctx context.Context) error {
		return dispatch(ctx, e, args)
	}, fx.Populate(&e.mgr, &e.tables, &e.im, &e.db, &e.client))

	switch {
	case errors.Is(err, errUsage):
		printUsage()
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, e *env, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, e, rest)
	case "register":
		return cmdRegister(ctx, e, rest)
	case "logout":
		return cmdLogout(ctx, e)
	case "whoami":
		return cmdWhoami(e)
	case "users":
		return cmdUsers(ctx, e, rest)
	case "books":
		return cmdBooks(ctx, e, rest)
	case "categories":
		return cmdCategories(ctx, e)
	case "upload":
		return cmdUpload(ctx, e, rest)
	case "store":
		return cmdStore(ctx, e, rest)
	case "imports":
		return cmdImports(e, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		return errUsage
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: bookctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <email>                 Sign in (password from --password, $BOOKADMIN_PASSWORD or prompt)")
	fmt.Fprintln(os.Stderr, "  register                      Create a USER account (--name --email --phone --password)")
	fmt.Fprintln(os.Stderr, "  logout                        Sign out and forget the token")
	fmt.Fprintln(os.Stderr, "  whoami                        Show the signed-in account")
	fmt.Fprintln(os.Stderr, "  users list [flags]            List users (--page --size --filter f=v --sort --from --to)")
	fmt.Fprintln(os.Stderr, "  users create                  Create a user (--name --email --phone --password)")
	fmt.Fprintln(os.Stderr, "  users update <id>             Edit a user (--name --phone)")
	fmt.Fprintln(os.Stderr, "  users delete <id>             Delete a user")
	fmt.Fprintln(os.Stderr, "  users import <file>           Bulk create users from .xlsx/.xls (--dry-run)")
	fmt.Fprintln(os.Stderr, "  users template <file>         Write an empty import spreadsheet")
	fmt.Fprintln(os.Stderr, "  users export <file> [flags]   Write one page of users to .xlsx")
	fmt.Fprintln(os.Stderr, "  books list [flags]            List books")
	fmt.Fprintln(os.Stderr, "  books get <id>                Show a book and a QR code of its cover")
	fmt.Fprintln(os.Stderr, "  books create                  Create a book (--title --author --price --quantity --category --thumbnail --slider)")
	fmt.Fprintln(os.Stderr, "  books update <id>             Change the given book fields, keep the others")
	fmt.Fprintln(os.Stderr, "  books delete <id>             Delete a book")
	fmt.Fprintln(os.Stderr, "  categories                    List book categories")
	fmt.Fprintln(os.Stderr, "  upload <file>                 Upload a JPG/PNG image (--folder)")
	fmt.Fprintln(os.Stderr, "  store [flags]                 Browse the storefront (--category --min --max --sort --page --size)")
	fmt.Fprintln(os.Stderr, "  imports [batch-id]            Show local import history (--limit) or one batch")
}

func (e *env) requireAdmin() error {
	if err := e.mgr.RequireAdmin(); err != nil {
		return fmt.Errorf("%w (run bookctl login first)", err)
	}
	return nil
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *env) outputJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
