package model

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/query"
	"github.com/matheus3301/bookadmin/internal/session"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/table"
	"go.uber.org/zap"
)

var (
	ErrUnknownTable   = errors.New("unknown table")
	ErrNoPendingBatch = errors.New("no spreadsheet loaded")
	ErrInvalidRange   = errors.New("date range must be two YYYY-MM-DD days, start first")
)

// Limits for the console's lookups in the local store.
const (
	historyLimit    = 50
	suggestionLimit = 10
)

// Pager is the non-generic face of a table controller.
type Pager interface {
	Spec() query.Spec
	State() query.State
	Refresh(ctx context.Context) error
	SetFilters(ctx context.Context, filters map[string]string) error
	ClearFilters(ctx context.Context) error
	SetSort(ctx context.Context, sort *query.Sort) error
	SetDateRange(ctx context.Context, r *query.DateRange) error
	SetPage(ctx context.Context, n int) error
	SetPageSize(ctx context.Context, n int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
}

// Session is the part of the session manager the console drives.
type Session interface {
	Current() session.State
	Account() *api.Account
	RequireAdmin() error
	Login(ctx context.Context, username, password string) (*api.Account, error)
	Logout(ctx context.Context) error
}

// Importer parses and submits spreadsheets.
type Importer interface {
	Load(path string) (*importer.Batch, error)
	Submit(ctx context.Context, batch importer.Batch) (*importer.Result, error)
}

// Store is the local history the console reads and feeds.
type Store interface {
	ListImports(limit int) ([]store.ImportEntry, error)
	RememberFilter(table, field, value string) error
	RecentFilters(table, field string, limit int) ([]string, error)
}

// Notifier shows flash messages.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Err(err error)
}

// ViewModel holds the console's state and actions, independent of widgets.
// Every action reports its outcome through the notifier as well as its
// return value.
type ViewModel struct {
	session  Session
	importer Importer
	store    Store
	flash    Notifier
	tables   map[string]Pager
	logger   *zap.Logger

	mu      sync.Mutex
	pending *importer.Batch
}

// New creates a view model over the given tables, keyed by name.
func New(sess Session, im Importer, st Store, flash Notifier, tables map[string]Pager, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		session:  sess,
		importer: im,
		store:    st,
		flash:    flash,
		tables:   maps.Clone(tables),
		logger:   logger,
	}
}

// Table returns the pager registered as name.
func (vm *ViewModel) Table(name string) (Pager, error) {
	p, ok := vm.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return p, nil
}

// TableNames lists the registered tables, sorted.
func (vm *ViewModel) TableNames() []string {
	return slices.Sorted(maps.Keys(vm.tables))
}

// RefreshAll refetches every table. The first error is returned after all ran.
func (vm *ViewModel) RefreshAll(ctx context.Context) error {
	var first error
	for _, name := range vm.TableNames() {
		if err := vm.tables[name].Refresh(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Refresh refetches one table.
func (vm *ViewModel) Refresh(ctx context.Context, table string) error {
	return vm.withTable(table, func(p Pager) error { return p.Refresh(ctx) })
}

// ApplyFilter parses text in filter prompt syntax and replaces the table's
// filters with it. Applied values are remembered for autocomplete.
func (vm *ViewModel) ApplyFilter(ctx context.Context, table, text string) error {
	return vm.withTable(table, func(p Pager) error {
		filters, err := ParseFilter(p.Spec(), text)
		if err != nil {
			return err
		}
		for field, value := range filters {
			if err := vm.store.RememberFilter(table, field, value); err != nil {
				vm.logger.Warn("failed to remember filter", zap.String("table", table), zap.Error(err))
			}
		}
		if len(filters) == 0 {
			return p.ClearFilters(ctx)
		}
		return p.SetFilters(ctx, filters)
	})
}

// ClearFilters drops filters and the date range of a table.
func (vm *ViewModel) ClearFilters(ctx context.Context, table string) error {
	return vm.withTable(table, func(p Pager) error { return p.ClearFilters(ctx) })
}

// FilterText is the table's current filters in prompt syntax.
func (vm *ViewModel) FilterText(table string) string {
	p, err := vm.Table(table)
	if err != nil {
		return ""
	}
	return FormatFilter(p.Spec(), p.State().Filters)
}

// Suggestions returns recently applied filters for table in prompt syntax.
func (vm *ViewModel) Suggestions(table string) []string {
	p, err := vm.Table(table)
	if err != nil {
		return nil
	}
	var out []string
	for _, field := range p.Spec().FilterFields {
		values, err := vm.store.RecentFilters(table, field, suggestionLimit)
		if err != nil {
			vm.logger.Warn("failed to read recent filters", zap.String("table", table), zap.Error(err))
			continue
		}
		for _, v := range values {
			out = append(out, field+"="+v)
		}
	}
	return out
}

// ToggleSort flips the direction of the table's effective sort.
func (vm *ViewModel) ToggleSort(ctx context.Context, table string) error {
	return vm.withTable(table, func(p Pager) error {
		s := p.Spec().EffectiveSort(p.State())
		if s.Direction == query.Ascending {
			s.Direction = query.Descending
		} else {
			s.Direction = query.Ascending
		}
		return p.SetSort(ctx, &s)
	})
}

// SetSortDirection keeps the effective sort field and sets its direction.
func (vm *ViewModel) SetSortDirection(ctx context.Context, table string, dir query.Direction) error {
	return vm.withTable(table, func(p Pager) error {
		s := p.Spec().EffectiveSort(p.State())
		s.Direction = dir
		return p.SetSort(ctx, &s)
	})
}

// SetDateRange filters the table to [start, end]. Empty bounds clear the range.
func (vm *ViewModel) SetDateRange(ctx context.Context, table, start, end string) error {
	return vm.withTable(table, func(p Pager) error {
		if start == "" && end == "" {
			return p.SetDateRange(ctx, nil)
		}
		r := query.DateRange{Start: start, End: end}
		if !r.Valid() {
			return ErrInvalidRange
		}
		return p.SetDateRange(ctx, &r)
	})
}

// SetPage jumps to page n.
func (vm *ViewModel) SetPage(ctx context.Context, table string, n int) error {
	return vm.withTable(table, func(p Pager) error { return p.SetPage(ctx, n) })
}

// SetPageSize changes the page size.
func (vm *ViewModel) SetPageSize(ctx context.Context, table string, n int) error {
	return vm.withTable(table, func(p Pager) error { return p.SetPageSize(ctx, n) })
}

// ResizePage grows or shrinks the page size by delta, never below 1.
func (vm *ViewModel) ResizePage(ctx context.Context, table string, delta int) error {
	return vm.withTable(table, func(p Pager) error {
		return p.SetPageSize(ctx, max(p.State().PageSize+delta, 1))
	})
}

// NextPage advances one page.
func (vm *ViewModel) NextPage(ctx context.Context, table string) error {
	return vm.withTable(table, func(p Pager) error { return p.NextPage(ctx) })
}

// PrevPage goes back one page.
func (vm *ViewModel) PrevPage(ctx context.Context, table string) error {
	return vm.withTable(table, func(p Pager) error { return p.PrevPage(ctx) })
}

// LoadImport parses the spreadsheet at path and holds it for confirmation.
// A rejected file drops any batch held before.
func (vm *ViewModel) LoadImport(path string) (*importer.Batch, error) {
	batch, err := vm.importer.Load(path)

	vm.mu.Lock()
	vm.pending = batch
	vm.mu.Unlock()

	if err != nil {
		vm.flash.Err(err)
		return nil, err
	}
	vm.flash.Info(fmt.Sprintf("Read %d users from %s. Submit to import them.", len(batch.Records), filepath.Base(path)))
	return batch, nil
}

// Pending returns the batch waiting for confirmation, if any.
func (vm *ViewModel) Pending() (importer.Batch, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.pending == nil {
		return importer.Batch{}, false
	}
	return importer.Batch{Source: vm.pending.Source, Records: slices.Clone(vm.pending.Records)}, true
}

// ClearPending discards the batch waiting for confirmation.
func (vm *ViewModel) ClearPending() {
	vm.mu.Lock()
	vm.pending = nil
	vm.mu.Unlock()
}

// SubmitImport sends the pending batch. On any outcome from the backend the
// batch is released; a failed request keeps it so it can be retried.
func (vm *ViewModel) SubmitImport(ctx context.Context) (*importer.Result, error) {
	batch, ok := vm.Pending()
	if !ok {
		vm.flash.Err(ErrNoPendingBatch)
		return nil, ErrNoPendingBatch
	}
	if err := vm.session.RequireAdmin(); err != nil {
		vm.flash.Err(err)
		return nil, err
	}

	res, err := vm.importer.Submit(ctx, batch)
	if err != nil {
		vm.flash.Err(err)
		return nil, err
	}

	vm.ClearPending()
	if res.CountFail > 0 {
		vm.flash.Warn(res.Summary())
	} else {
		vm.flash.Info(res.Summary())
	}
	return res, nil
}

// Imports returns the latest recorded imports, newest first.
func (vm *ViewModel) Imports() ([]store.ImportEntry, error) {
	entries, err := vm.store.ListImports(historyLimit)
	if err != nil {
		vm.flash.Err(err)
		return nil, err
	}
	return entries, nil
}

// SessionState is the current session state.
func (vm *ViewModel) SessionState() session.State {
	return vm.session.Current()
}

// Account is the signed-in account, or nil.
func (vm *ViewModel) Account() *api.Account {
	return vm.session.Account()
}

// Login signs in and refetches every table.
func (vm *ViewModel) Login(ctx context.Context, username, password string) error {
	acc, err := vm.session.Login(ctx, username, password)
	if err != nil {
		vm.flash.Err(err)
		return err
	}
	if acc.Role != api.RoleAdmin {
		vm.flash.Warn(fmt.Sprintf("Signed in as %s, who is not an admin.", acc.Email))
		return nil
	}
	vm.flash.Info("Signed in as " + acc.FullName)
	if err := vm.RefreshAll(ctx); err != nil {
		vm.flash.Err(err)
	}
	return nil
}

// Logout ends the session. The local session is always gone afterwards; a
// failed remote logout is only reported.
func (vm *ViewModel) Logout(ctx context.Context) error {
	vm.ClearPending()
	if err := vm.session.Logout(ctx); err != nil {
		vm.flash.Warn("Signed out locally; the server did not confirm: " + err.Error())
		return err
	}
	vm.flash.Info("Signed out")
	return nil
}

// withTable runs fn on the named table and flashes any error.
func (vm *ViewModel) withTable(name string, fn func(Pager) error) error {
	p, err := vm.Table(name)
	if err == nil {
		err = fn(p)
	}
	if err != nil && !errors.Is(err, table.ErrSuperseded) {
		vm.flash.Err(err)
	}
	return err
}
