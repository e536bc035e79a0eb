package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/app"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/query"
	"github.com/matheus3301/bookadmin/internal/session"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/table"
	"github.com/matheus3301/bookadmin/internal/tui/keys"
	"github.com/matheus3301/bookadmin/internal/tui/model"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/matheus3301/bookadmin/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page names.
const (
	pageUsers   = "users"
	pageBooks   = "books"
	pageImport  = "import"
	pageHistory = "history"
	pageLogin   = "login"
	pageDetails = "details"
	pageHelp    = "help"
)

// bookImageFolder is the upload folder for covers and slider images.
const bookImageFolder = "book"

// Deps are the services the console drives.
type Deps struct {
	Profile  string
	Backend  string
	Session  *session.Manager
	Tables   *app.Tables
	Importer *importer.Importer
	Store    *store.DB
	Client   *api.Client
	Logger   *zap.Logger
}

// App is the console shell.
type App struct {
	app    *tview.Application
	theme  *ui.Theme
	root   *tview.Flex
	pages  *ui.Pages
	prompt *ui.Prompt
	menu   *ui.Menu
	crumbs *ui.Crumbs
	info   *ui.ProfileInfo
	bar    *ui.FlashBar
	status *views.StatusBar

	users   *views.EntityTable[api.User]
	books   *views.EntityTable[api.Book]
	imports *views.ImportView
	history *views.HistoryView
	login   *views.LoginView
	details *views.DetailView
	help    *views.HelpView

	deps     Deps
	flash    *ui.FlashModel
	vm       *model.ViewModel
	registry *keys.Registry
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp builds the console over d.
func NewApp(d Deps) *App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	flash := ui.NewFlashModel()
	logger := d.Logger.Named("tui")

	a := &App{
		app:    tview.NewApplication(),
		theme:  theme,
		pages:  ui.NewPages(),
		prompt: ui.NewPrompt(theme),
		menu:   ui.NewMenu(theme),
		crumbs: ui.NewCrumbs(theme),
		info:   ui.NewProfileInfo(theme),
		bar:    ui.NewFlashBar(theme),
		status: views.NewStatusBar(theme),

		users:   views.NewEntityTable(pageUsers, "Users", views.UserColumns, theme),
		books:   views.NewEntityTable(pageBooks, "Books", views.BookColumns, theme),
		imports: views.NewImportView(theme),
		history: views.NewHistoryView(theme),
		login:   views.NewLoginView(theme),
		details: views.NewDetailView(theme, func(name string) string {
			return d.Client.ImageURL(bookImageFolder, name)
		}),
		help: views.NewHelpView(theme),

		deps:     d,
		flash:    flash,
		registry: keys.NewRegistry(),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	a.vm = model.New(d.Session, d.Importer, d.Store, flash, map[string]model.Pager{
		pageUsers: d.Tables.Users,
		pageBooks: d.Tables.Books,
	}, logger)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	r := a.registry
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: ':', Hint: "Command", Handler: func() { a.showPrompt(ui.PromptCommand) }})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: '/', Hint: "Filter", Handler: func() { a.showPrompt(ui.PromptFilter) }})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: '1', Hint: "Users", Handler: func() { a.showRoot(pageUsers) }})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: '2', Hint: "Books", Handler: func() { a.showRoot(pageBooks) }})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: 'i', Hint: "Import", Handler: func() { a.showRoot(pageImport) }})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: 'h', Hint: "History", Handler: func() { a.showRoot(pageHistory) }})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: 'L', Hint: "Logout", Handler: a.logout})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: '?', Hint: "Help", Handler: a.showHelp})
	r.Global(&keys.Action{Key: tcell.KeyRune, Rune: 'q', Hint: "Quit", Handler: a.quitOrBack})
	r.Global(&keys.Action{Key: tcell.KeyEscape, Handler: a.back})

	for _, page := range []string{pageUsers, pageBooks} {
		r.Page(page, &keys.Action{Key: tcell.KeyEnter, Hint: "Details", Handler: func() { a.openDetails(page) }})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: 's', Hint: "Sort", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.ToggleSort(ctx, page) })
		}})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: 'n', Hint: "Next page", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.NextPage(ctx, page) })
		}})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: 'p', Hint: "Prev page", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.PrevPage(ctx, page) })
		}})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: '+', Hint: "More rows", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.ResizePage(ctx, page, 1) })
		}})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: '-', Hint: "Fewer rows", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.ResizePage(ctx, page, -1) })
		}})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: 'r', Hint: "Refresh", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.Refresh(ctx, page) })
		}})
		r.Page(page, &keys.Action{Key: tcell.KeyRune, Rune: 'c', Hint: "Clear filters", Handler: func() {
			a.async(func(ctx context.Context) { _ = a.vm.ClearFilters(ctx, page) })
		}})
	}

	r.Page(pageImport, &keys.Action{Key: tcell.KeyCtrlS, Hint: "Submit", Handler: a.submitImport})
	r.Page(pageImport, &keys.Action{Key: tcell.KeyCtrlX, Hint: "Discard", Handler: a.discardImport})
	r.Page(pageImport, &keys.Action{Key: tcell.KeyTab, Hint: "Switch pane", Handler: a.toggleImportFocus})
	r.Page(pageHistory, &keys.Action{Key: tcell.KeyRune, Rune: 'r', Hint: "Reload", Handler: a.loadHistory})
}

func (a *App) setupCallbacks() {
	a.deps.Tables.Users.OnChange(func(s table.Snapshot[api.User]) {
		a.app.QueueUpdateDraw(func() {
			a.users.Update(s)
			a.status.Update(a.statusData())
		})
	})
	a.deps.Tables.Books.OnChange(func(s table.Snapshot[api.Book]) {
		a.app.QueueUpdateDraw(func() {
			a.books.Update(s)
			a.status.Update(a.statusData())
		})
	})

	a.pages.SetOnChange(func(_ []string, top ui.Component) {
		if top != nil {
			a.app.SetFocus(top.Target())
		}
		a.refreshChrome()
	})

	a.prompt.SetSuggestions(func(mode ui.PromptMode) []string {
		if mode == ui.PromptCommand {
			return Commands
		}
		return a.vm.Suggestions(a.currentTable())
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(text)
			return
		}
		tbl := a.currentTable()
		a.async(func(ctx context.Context) { _ = a.vm.ApplyFilter(ctx, tbl, text) })
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.imports.SetOnLoad(a.loadImport)
	a.login.SetOnSubmit(func(username, password string) {
		a.async(func(ctx context.Context) {
			err := a.vm.Login(ctx, username, password)
			a.app.QueueUpdateDraw(func() {
				switch {
				case err != nil:
					a.login.ShowMessage(err.Error(), true)
				case a.deps.Session.RequireAdmin() != nil:
					a.login.ShowMessage("This account has no admin rights", true)
				}
			})
		})
	})
}

func (a *App) setupLayout() {
	for _, c := range []ui.Component{a.users, a.books, a.imports, a.history, a.login, a.details, a.help} {
		a.pages.Add(c)
	}

	header := tview.NewFlex().
		AddItem(a.info, 44, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 26, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.bar, 1, 0, false).
		AddItem(a.status, 1, 0, false)
	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if a.app.GetFocus() == a.prompt.InputField {
			return ev
		}
		page := a.pages.Current()
		if a.typing(page) {
			if ev.Key() == tcell.KeyRune || ev.Key() == tcell.KeyEnter {
				return ev
			}
			if ev.Key() == tcell.KeyTab && page != pageImport {
				return ev
			}
		}
		if a.registry.HandleEvent(page, ev) {
			return nil
		}
		return ev
	})
}

// typing reports whether keys should reach a text field instead of bindings.
func (a *App) typing(page string) bool {
	if page == pageLogin {
		return true
	}
	_, ok := a.app.GetFocus().(*tview.InputField)
	return ok
}

// Run shows the console until the user quits.
func (a *App) Run() error {
	defer a.cancel()
	go a.watchSession()
	go a.watchFlash()

	a.syncSession()
	if a.deps.Session.RequireAdmin() == nil {
		a.async(func(ctx context.Context) { _ = a.vm.RefreshAll(ctx) })
	}
	a.logger.Info("console started", zap.String("session", string(a.vm.SessionState())))
	return a.app.Run()
}

// Stop ends Run.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) async(fn func(ctx context.Context)) {
	go fn(a.ctx)
}

func (a *App) watchSession() {
	ch, unsubscribe := a.deps.Session.Subscribe(8)
	defer unsubscribe()
	for {
		select {
		case <-a.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			a.app.QueueUpdateDraw(a.syncSession)
		}
	}
}

func (a *App) watchFlash() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.flash.Watch():
		case <-tick.C:
		}
		msg, ok := a.flash.Current()
		a.app.QueueUpdateDraw(func() { a.bar.Update(msg, ok) })
	}
}

// syncSession moves between the login page and the tables as the session
// gains or loses admin rights.
func (a *App) syncSession() {
	admin := a.deps.Session.RequireAdmin() == nil
	switch {
	case admin && (a.pages.Current() == pageLogin || a.pages.Root() == ""):
		a.pages.Reset(pageUsers)
	case !admin && a.pages.Current() != pageLogin:
		a.showLogin()
	default:
		a.refreshChrome()
	}
}

func (a *App) showLogin() {
	if acc := a.vm.Account(); acc != nil {
		a.login.SetUsername(acc.Email)
	}
	a.login.Reset()
	a.pages.Reset(pageLogin)
}

// showRoot replaces the page stack with page. Pages other than login need an
// admin session.
func (a *App) showRoot(page string) {
	if err := a.deps.Session.RequireAdmin(); err != nil {
		a.flash.Err(err)
		a.showLogin()
		return
	}
	a.pages.Reset(page)
	if page == pageHistory {
		a.loadHistory()
	}
}

func (a *App) back() {
	if a.pages.Pop() == "" && a.pages.Current() != pageUsers && a.pages.Current() != pageLogin {
		a.showRoot(pageUsers)
	}
}

func (a *App) quitOrBack() {
	if a.pages.Pop() == "" {
		a.Stop()
	}
}

func (a *App) showHelp() {
	sections := []views.HelpSection{{Title: "Everywhere", Hints: a.toHints(a.registry.Hinted(""))}}
	for _, page := range []string{pageUsers, pageImport, pageHistory} {
		title := "Tables"
		if page != pageUsers {
			title = "Page " + page
		}
		sections = append(sections, views.HelpSection{Title: title, Hints: a.toHints(a.registry.PageHinted(page))})
	}
	a.help.Update(sections)
	a.pages.Push(pageHelp)
}

func (a *App) showPrompt(mode ui.PromptMode) {
	text := ""
	if mode == ui.PromptFilter {
		tbl := a.currentTable()
		if tbl == "" {
			a.flash.Warn("Filters apply to the users and books tables")
			return
		}
		text = a.vm.FilterText(tbl)
	}
	a.prompt.Activate(mode, text)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt.InputField)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	if c, ok := a.pages.Get(a.pages.Current()); ok {
		a.app.SetFocus(c.Target())
	}
}

// currentTable is the table under any overlay, or "" off the tables.
func (a *App) currentTable() string {
	switch root := a.pages.Root(); root {
	case pageUsers, pageBooks:
		return root
	}
	return ""
}

func (a *App) openDetails(page string) {
	switch page {
	case pageUsers:
		u, ok := a.users.Selected()
		if !ok {
			return
		}
		a.details.ShowUser(u)
	case pageBooks:
		b, ok := a.books.Selected()
		if !ok {
			return
		}
		a.details.ShowBook(b)
	}
	a.pages.Push(pageDetails)
}

func (a *App) runCommand(line string) {
	cmd := ParseCommand(line)
	switch cmd.Name {
	case "users":
		a.showRoot(pageUsers)
	case "books":
		a.showRoot(pageBooks)
	case "history":
		a.showRoot(pageHistory)
	case "import":
		a.showRoot(pageImport)
		if path := cmd.Rest(); path != "" && a.pages.Current() == pageImport {
			a.imports.SetPath(path)
			a.loadImport(path)
		}
	case "template":
		a.writeTemplate(cmd.Rest())
	case "login":
		a.showLogin()
	case "logout":
		a.logout()
	case "help":
		a.showHelp()
	case "quit":
		a.Stop()
	case "refresh", "clear", "filter", "range", "sort", "page", "pagesize":
		tbl := a.currentTable()
		if tbl == "" {
			a.flash.Warn(fmt.Sprintf(":%s works on the users and books tables", cmd.Name))
			return
		}
		a.tableCommand(tbl, cmd)
	default:
		a.flash.Warn(fmt.Sprintf("Unknown command %q, see :help", cmd.Name))
	}
}

func (a *App) tableCommand(tbl string, cmd Command) {
	var op func(ctx context.Context) error
	switch cmd.Name {
	case "refresh":
		op = func(ctx context.Context) error { return a.vm.Refresh(ctx, tbl) }
	case "clear":
		op = func(ctx context.Context) error { return a.vm.ClearFilters(ctx, tbl) }
	case "filter":
		text := cmd.Rest()
		op = func(ctx context.Context) error { return a.vm.ApplyFilter(ctx, tbl, text) }
	case "range":
		var start, end string
		switch len(cmd.Args) {
		case 0:
		case 2:
			start, end = cmd.Args[0], cmd.Args[1]
		default:
			a.flash.Err(model.ErrInvalidRange)
			return
		}
		op = func(ctx context.Context) error { return a.vm.SetDateRange(ctx, tbl, start, end) }
	case "sort":
		dir := query.Descending
		switch cmd.Rest() {
		case "asc", "ascend":
			dir = query.Ascending
		case "desc", "descend":
		default:
			a.flash.Warn("usage: :sort asc|desc")
			return
		}
		op = func(ctx context.Context) error { return a.vm.SetSortDirection(ctx, tbl, dir) }
	case "page", "pagesize":
		n, err := cmd.IntArg()
		if err != nil {
			a.flash.Err(err)
			return
		}
		if cmd.Name == "page" {
			op = func(ctx context.Context) error { return a.vm.SetPage(ctx, tbl, n) }
		} else {
			op = func(ctx context.Context) error { return a.vm.SetPageSize(ctx, tbl, n) }
		}
	}
	a.async(func(ctx context.Context) { _ = op(ctx) })
}

func (a *App) loadImport(path string) {
	a.async(func(ctx context.Context) {
		batch, err := a.vm.LoadImport(path)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.imports.ShowError(err)
			} else {
				a.imports.ShowBatch(*batch)
				a.app.SetFocus(a.imports.Preview())
			}
			a.status.Update(a.statusData())
		})
	})
}

func (a *App) submitImport() {
	a.async(func(ctx context.Context) {
		res, err := a.vm.SubmitImport(ctx)
		if err != nil {
			return
		}
		a.app.QueueUpdateDraw(func() { a.finishImport(*res) })
	})
}

// finishImport records the outcome on the import page and closes it. The
// flash carries the summary to the users table.
func (a *App) finishImport(res importer.Result) {
	a.imports.ShowResult(res)
	a.imports.SetPath("")
	a.pages.Reset(pageUsers)
	a.status.Update(a.statusData())
}

func (a *App) discardImport() {
	a.vm.ClearPending()
	a.imports.Reset()
	a.app.SetFocus(a.imports.Input())
	a.status.Update(a.statusData())
}

func (a *App) toggleImportFocus() {
	if a.app.GetFocus() == a.imports.Input() {
		a.app.SetFocus(a.imports.Preview())
		return
	}
	a.app.SetFocus(a.imports.Input())
}

func (a *App) writeTemplate(path string) {
	if path == "" {
		a.flash.Warn("usage: :template <file.xlsx>")
		return
	}
	if err := importer.CheckFileName(path); err != nil {
		a.flash.Err(err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		a.flash.Err(err)
		return
	}
	err = importer.WriteTemplate(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.flash.Err(err)
		return
	}
	a.flash.Info("Import template written to " + path)
}

func (a *App) loadHistory() {
	a.async(func(context.Context) {
		entries, err := a.vm.Imports()
		if err != nil {
			return
		}
		a.app.QueueUpdateDraw(func() { a.history.Update(entries) })
	})
}

func (a *App) logout() {
	a.async(func(ctx context.Context) {
		_ = a.vm.Logout(ctx)
		a.app.QueueUpdateDraw(a.imports.Reset)
	})
}

func (a *App) refreshChrome() {
	a.menu.Update(a.toHints(a.registry.Hinted(a.pages.Current())))
	a.crumbs.Update(a.pages.Stack())

	d := ui.ProfileData{
		Profile: a.deps.Profile,
		Backend: a.deps.Backend,
		Session: string(a.vm.SessionState()),
	}
	if acc := a.vm.Account(); acc != nil {
		d.Account, d.Role = acc.Email, acc.Role
	}
	a.info.Update(d)
	a.status.Update(a.statusData())
}

func (a *App) statusData() views.StatusData {
	d := views.StatusData{
		Profile: a.deps.Profile,
		Session: string(a.vm.SessionState()),
		Table:   a.currentTable(),
	}
	if b, ok := a.vm.Pending(); ok {
		d.Pending = len(b.Records)
	}
	var meta api.Meta
	switch d.Table {
	case pageUsers:
		s := a.deps.Tables.Users.Snapshot()
		meta, d.Phase, d.Loaded = s.Meta, s.Phase, s.Loaded
	case pageBooks:
		s := a.deps.Tables.Books.Snapshot()
		meta, d.Phase, d.Loaded = s.Meta, s.Phase, s.Loaded
	}
	d.Page, d.Pages, d.Total = meta.Current, meta.Pages, meta.Total
	return d
}

func (a *App) toHints(actions []*keys.Action) []ui.MenuHint {
	hints := make([]ui.MenuHint, len(actions))
	for i, act := range actions {
		hints[i] = ui.MenuHint{
			Key:         act.KeyName(),
			Description: act.Hint,
			Numeric:     act.Key == tcell.KeyRune && act.Rune >= '0' && act.Rune <= '9',
		}
	}
	return hints
}
