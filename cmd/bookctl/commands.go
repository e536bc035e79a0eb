package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/qrtext"
	"github.com/matheus3301/bookadmin/internal/query"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/table"
	"golang.org/x/term"
)

const dateLayout = "2006-01-02 15:04"

func cmdLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("login")
	password := fs.String("password", os.Getenv("BOOKADMIN_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	email := fs.Arg(0)
	if *password == "" {
		p, err := readPassword()
		if err != nil {
			return err
		}
		*password = p
	}

	acc, err := e.mgr.Login(ctx, email, *password)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(acc)
	}
	e.printf("Signed in as %s (%s).\n", acc.FullName, acc.Role)
	if acc.Role != api.RoleAdmin {
		e.printf("This account is not an administrator; admin commands will be refused.\n")
	}
	return nil
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func cmdRegister(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("register")
	var in api.RegisterInput
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Password, "password", os.Getenv("BOOKADMIN_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := e.client.Register(ctx, in)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(u)
	}
	e.printf("Registered %s. Sign in with bookctl login %s.\n", u.Email, u.Email)
	return nil
}

func cmdLogout(ctx context.Context, e *env) error {
	if err := e.mgr.Logout(ctx); err != nil {
		e.printf("Signed out locally; the backend reported: %v\n", err)
		return nil
	}
	e.printf("Signed out.\n")
	return nil
}

func cmdWhoami(e *env) error {
	acc := e.mgr.Account()
	if e.jsonOut {
		return e.outputJSON(struct {
			Session string       `json:"session"`
			Account *api.Account `json:"account,omitempty"`
		}{string(e.mgr.Current()), acc})
	}
	if acc == nil {
		e.printf("Not signed in (%s).\n", e.mgr.Current())
		return nil
	}
	e.printf("Name:    %s\n", acc.FullName)
	e.printf("Email:   %s\n", acc.Email)
	e.printf("Role:    %s\n", acc.Role)
	e.printf("Backend: %s\n", e.client.BaseURL())
	return nil
}

func cmdUsers(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if args[0] == "template" {
		return cmdUsersTemplate(e, args[1:])
	}
	if err := e.requireAdmin(); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		return cmdUsersList(ctx, e, args[1:])
	case "create":
		return cmdUsersCreate(ctx, e, args[1:])
	case "update":
		return cmdUsersUpdate(ctx, e, args[1:])
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		if err := e.client.DeleteUser(ctx, args[1]); err != nil {
			return err
		}
		e.printf("Deleted user %s.\n", args[1])
		return nil
	case "import":
		return cmdUsersImport(ctx, e, args[1:])
	case "export":
		return cmdUsersExport(ctx, e, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown users subcommand: %s\n", args[0])
		return errUsage
	}
}

// fetch loads st into c and returns the settled snapshot.
func fetch[T any](ctx context.Context, c *table.Controller[T], st query.State) (table.Snapshot[T], error) {
	if err := c.Load(ctx, st); err != nil {
		return table.Snapshot[T]{}, err
	}
	return c.Snapshot(), nil
}

func cmdUsersList(ctx context.Context, e *env, args []string) error {
	st, _, err := parseListArgs(query.Users, e.cfg.PageSize, args)
	if err != nil {
		return err
	}
	snap, err := fetch(ctx, e.tables.Users, st)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(api.Page[api.User]{Result: snap.Rows, Meta: snap.Meta})
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tROLE\tCREATED")
	for _, u := range snap.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, u.Phone, u.Role, u.CreatedAt.Local().Format(dateLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printMeta(e, snap.Meta)
	return nil
}

func printMeta(e *env, m api.Meta) {
	e.printf("page %d/%d, %d total\n", m.Current, max(m.Pages, 1), m.Total)
}

func cmdUsersCreate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("users create")
	var in api.CreateUserInput
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Password, "password", e.cfg.ImportPassword, "initial password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := e.client.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(u)
	}
	e.printf("Created user %s (%s).\n", u.Email, u.ID)
	return nil
}

func cmdUsersUpdate(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := newFlagSet("users update")
	in := api.UpdateUserInput{ID: args[0]}
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := e.client.UpdateUser(ctx, in); err != nil {
		return err
	}
	e.printf("Updated user %s.\n", in.ID)
	return nil
}

func cmdUsersImport(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("users import")
	dryRun := fs.Bool("dry-run", false, "parse and preview without submitting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	path := fs.Arg(0)
	if err := importer.CheckFileName(path); err != nil {
		return err
	}

	batch, err := e.im.Load(path)
	if err != nil {
		return err
	}
	if *dryRun {
		if e.jsonOut {
			return e.outputJSON(batch.Records)
		}
		tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FULL NAME\tEMAIL\tPHONE")
		for _, r := range batch.Records {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.FullName, r.Email, r.Phone)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		e.printf("Read %d users from %s. Nothing was submitted.\n", len(batch.Records), filepath.Base(path))
		return nil
	}

	res, err := e.im.Submit(ctx, *batch)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(res)
	}
	e.printf("%s\n", res.Summary())
	return nil
}

func cmdUsersTemplate(e *env, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return writeSheetFile(args[0], func(f *os.File) error {
		return importer.WriteTemplate(f)
	}, e)
}

func cmdUsersExport(ctx context.Context, e *env, args []string) error {
	st, rest, err := parseListArgs(query.Users, e.cfg.PageSize, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errUsage
	}
	snap, err := fetch(ctx, e.tables.Users, st)
	if err != nil {
		return err
	}
	return writeSheetFile(rest[0], func(f *os.File) error {
		return importer.WriteUsers(f, snap.Rows)
	}, e)
}

func writeSheetFile(path string, write func(*os.File) error, e *env) error {
	if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
		return fmt.Errorf("%s: output must be an .xlsx file", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	e.printf("Wrote %s.\n", path)
	return nil
}

func cmdBooks(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if args[0] == "get" {
		if len(args) != 2 {
			return errUsage
		}
		return cmdBooksGet(ctx, e, args[1])
	}
	if err := e.requireAdmin(); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		return cmdBooksList(ctx, e, args[1:])
	case "create":
		return cmdBooksCreate(ctx, e, args[1:])
	case "update":
		return cmdBooksUpdate(ctx, e, args[1:])
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		if err := e.client.DeleteBook(ctx, args[1]); err != nil {
			return err
		}
		e.printf("Deleted book %s.\n", args[1])
		return nil
	default:
		fmt.Fprintf(os.Stderr, "unknown books subcommand: %s\n", args[0])
		return errUsage
	}
}

func cmdBooksList(ctx context.Context, e *env, args []string) error {
	st, _, err := parseListArgs(query.Books, e.cfg.PageSize, args)
	if err != nil {
		return err
	}
	snap, err := fetch(ctx, e.tables.Books, st)
	if err != nil {
		return err
	}
	return printBooks(e, snap)
}

func printBooks(e *env, snap table.Snapshot[api.Book]) error {
	if e.jsonOut {
		return e.outputJSON(api.Page[api.Book]{Result: snap.Rows, Meta: snap.Meta})
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE\tSTOCK\tSOLD")
	for _, b := range snap.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n", b.ID, b.MainText, b.Author, b.Category, b.Price, b.Quantity, b.Sold)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printMeta(e, snap.Meta)
	return nil
}

func cmdBooksGet(ctx context.Context, e *env, id string) error {
	b, err := e.client.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(b)
	}
	e.printf("Title:     %s\n", b.MainText)
	e.printf("Author:    %s\n", b.Author)
	e.printf("Category:  %s\n", b.Category)
	e.printf("Price:     %d\n", b.Price)
	e.printf("Stock:     %d (sold %d)\n", b.Quantity, b.Sold)
	e.printf("Updated:   %s\n", b.UpdatedAt.Local().Format(dateLayout))
	if b.Thumbnail == "" {
		return nil
	}
	cover := e.client.ImageURL("book", b.Thumbnail)
	e.printf("Cover:     %s\n", cover)
	qr, err := qrtext.Render(cover, "  ")
	if err != nil {
		return fmt.Errorf("render cover QR: %w", err)
	}
	e.printf("\n%s", qr)
	return nil
}

// bookFlags binds the book form to fs.
func bookFlags(fs *flag.FlagSet, in *api.BookInput, slider *stringList) {
	fs.StringVar(&in.MainText, "title", in.MainText, "title")
	fs.StringVar(&in.Author, "author", in.Author, "author")
	fs.Int64Var(&in.Price, "price", in.Price, "price")
	fs.IntVar(&in.Quantity, "quantity", in.Quantity, "stock")
	fs.StringVar(&in.Category, "category", in.Category, "category")
	fs.StringVar(&in.Thumbnail, "thumbnail", in.Thumbnail, "uploaded cover file name")
	fs.Var(slider, "slider", "uploaded slider file name, repeatable")
}

func cmdBooksCreate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("books create")
	var in api.BookInput
	var slider stringList
	bookFlags(fs, &in, &slider)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Slider = slider
	b, err := e.client.CreateBook(ctx, in)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(b)
	}
	e.printf("Created book %q (%s).\n", b.MainText, b.ID)
	return nil
}

// cmdBooksUpdate edits the fields named on the command line and keeps the rest.
func cmdBooksUpdate(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id := args[0]
	cur, err := e.client.GetBook(ctx, id)
	if err != nil {
		return err
	}
	in := api.BookInput{
		MainText:  cur.MainText,
		Author:    cur.Author,
		Price:     cur.Price,
		Quantity:  cur.Quantity,
		Category:  cur.Category,
		Thumbnail: cur.Thumbnail,
		Slider:    cur.Slider,
	}
	fs := newFlagSet("books update")
	var slider stringList
	bookFlags(fs, &in, &slider)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if len(slider) > 0 {
		in.Slider = slider
	}
	if err := e.client.UpdateBook(ctx, id, in); err != nil {
		return err
	}
	e.printf("Updated book %s.\n", id)
	return nil
}

func cmdCategories(ctx context.Context, e *env) error {
	cats, err := e.client.Categories(ctx)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(cats)
	}
	for _, c := range cats {
		e.printf("%s\n", c)
	}
	return nil
}

func cmdUpload(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("upload")
	folder := fs.String("folder", "book", "destination folder")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	if err := e.requireAdmin(); err != nil {
		return err
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	name, err := e.client.UploadImage(ctx, *folder, filepath.Base(f.Name()), f)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(map[string]string{"fileUploaded": name, "url": e.client.ImageURL(*folder, name)})
	}
	e.printf("Uploaded %s as %s.\n", filepath.Base(f.Name()), name)
	return nil
}

func cmdStore(ctx context.Context, e *env, args []string) error {
	bounds := query.PriceRange{Min: e.cfg.PriceMin, Max: e.cfg.PriceMax}
	st, err := parseStoreArgs(bounds, e.cfg.StorePageSize, args)
	if err != nil {
		return err
	}
	snap, err := fetch(ctx, e.tables.Storefront, st)
	if err != nil {
		return err
	}
	return printBooks(e, snap)
}

func cmdImports(e *env, args []string) error {
	fs := newFlagSet("imports")
	limit := fs.Int("limit", 20, "entries to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 1 {
		en, err := e.db.GetImport(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("import %s: %w", fs.Arg(0), err)
		}
		if e.jsonOut {
			return e.outputJSON(en)
		}
		e.printf("Batch:   %s\n", en.BatchID)
		e.printf("File:    %s\n", en.SourceFile)
		e.printf("When:    %s\n", en.CreatedAt.Local().Format(dateLayout))
		e.printf("Total:   %d (ok %d, failed %d)\n", en.Total, en.CountSuccess, en.CountFail)
		e.printf("Status:  %s\n", importStatus(*en))
		return nil
	}

	entries, err := e.db.ListImports(*limit)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return e.outputJSON(entries)
	}
	if len(entries) == 0 {
		e.printf("No imports recorded.\n")
		return nil
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BATCH\tWHEN\tFILE\tTOTAL\tOK\tFAILED\tSTATUS")
	for _, en := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n", en.BatchID, en.CreatedAt.Local().Format(dateLayout),
			filepath.Base(en.SourceFile), en.Total, en.CountSuccess, en.CountFail, importStatus(en))
	}
	return tw.Flush()
}

func importStatus(en store.ImportEntry) string {
	if en.ErrorMessage != "" {
		return en.Status + ": " + en.ErrorMessage
	}
	return en.Status
}
