package model

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/query"
	"github.com/matheus3301/bookadmin/internal/session"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/table"
)

type flashCall struct {
	level string
	text  string
}

type fakeFlash struct{ calls []flashCall }

func (f *fakeFlash) Info(msg string) { f.calls = append(f.calls, flashCall{"info", msg}) }
func (f *fakeFlash) Warn(msg string) { f.calls = append(f.calls, flashCall{"warn", msg}) }
func (f *fakeFlash) Err(err error)   { f.calls = append(f.calls, flashCall{"error", err.Error()}) }

func (f *fakeFlash) last(t *testing.T) flashCall {
	t.Helper()
	if len(f.calls) == 0 {
		t.Fatal("no flash message")
	}
	return f.calls[len(f.calls)-1]
}

type fakeSession struct {
	state     session.State
	account   *api.Account
	loginErr  error
	logoutErr error
}

func (s *fakeSession) Current() session.State { return s.state }
func (s *fakeSession) Account() *api.Account  { return s.account }

func (s *fakeSession) RequireAdmin() error {
	if s.account == nil {
		return session.ErrNotAuthenticated
	}
	if s.account.Role != api.RoleAdmin {
		return session.ErrNotAdmin
	}
	return nil
}

func (s *fakeSession) Login(_ context.Context, username, _ string) (*api.Account, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	role := api.RoleAdmin
	if strings.HasPrefix(username, "reader") {
		role = api.RoleUser
	}
	s.account = &api.Account{Email: username, FullName: "Admin", Role: role}
	s.state = session.Authenticated
	return s.account, nil
}

func (s *fakeSession) Logout(context.Context) error {
	s.account = nil
	s.state = session.Anonymous
	return s.logoutErr
}

type fakeImporter struct {
	loadErr   error
	records   []importer.Record
	outcome   api.ImportOutcome
	submitErr error
	submitted []importer.Batch
}

func (f *fakeImporter) Load(path string) (*importer.Batch, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return &importer.Batch{Source: path, Records: f.records}, nil
}

func (f *fakeImporter) Submit(_ context.Context, b importer.Batch) (*importer.Result, error) {
	f.submitted = append(f.submitted, b)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &importer.Result{Source: b.Source, Total: len(b.Records), ImportOutcome: f.outcome}, nil
}

type fakeStore struct {
	remembered []string
	recent     map[string][]string
	imports    []store.ImportEntry
}

func (s *fakeStore) ListImports(limit int) ([]store.ImportEntry, error) {
	return s.imports[:min(limit, len(s.imports))], nil
}

func (s *fakeStore) RememberFilter(tbl, field, value string) error {
	s.remembered = append(s.remembered, tbl+"."+field+"="+value)
	return nil
}

func (s *fakeStore) RecentFilters(tbl, field string, _ int) ([]string, error) {
	return s.recent[tbl+"."+field], nil
}

type harness struct {
	vm       *ViewModel
	flash    *fakeFlash
	session  *fakeSession
	importer *fakeImporter
	store    *fakeStore
	queries  map[string][]string
	fetchErr error
}

func (h *harness) lastQuery(t *testing.T, tbl string) string {
	t.Helper()
	q := h.queries[tbl]
	if len(q) == 0 {
		t.Fatalf("no fetch on %s", tbl)
	}
	return q[len(q)-1]
}

func fetcher[T any](h *harness, name string) table.FetchFunc[T] {
	return func(_ context.Context, rawQuery string) (*api.Page[T], error) {
		h.queries[name] = append(h.queries[name], rawQuery)
		if h.fetchErr != nil {
			return nil, h.fetchErr
		}
		return &api.Page[T]{Meta: api.Meta{Current: 1, PageSize: 5, Pages: 3, Total: 12}}, nil
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		flash:    &fakeFlash{},
		session:  &fakeSession{state: session.Authenticated, account: &api.Account{Email: "admin@bookstore.dev", Role: api.RoleAdmin}},
		importer: &fakeImporter{},
		store:    &fakeStore{recent: map[string][]string{}},
		queries:  map[string][]string{},
	}
	tables := map[string]Pager{
		"users": table.New(query.Users, 5, fetcher[api.User](h, "users"), nil),
		"books": table.New(query.Books, 5, fetcher[api.Book](h, "books"), nil),
	}
	h.vm = New(h.session, h.importer, h.store, h.flash, tables, nil)
	return h
}

func TestApplyFilter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.vm.ApplyFilter(ctx, "users", "tran"); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "users"); got != "current=1&pageSize=5&fullName=/tran/i&sort=-createdAt" {
		t.Errorf("query = %q", got)
	}
	if !slices.Equal(h.store.remembered, []string{"users.fullName=tran"}) {
		t.Errorf("remembered = %v", h.store.remembered)
	}
	if got := h.vm.FilterText("users"); got != "fullName=tran" {
		t.Errorf("FilterText() = %q", got)
	}

	if err := h.vm.ApplyFilter(ctx, "users", ""); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "users"); got != "current=1&pageSize=5&sort=-createdAt" {
		t.Errorf("query after clearing = %q", got)
	}
}

func TestApplyFilterRejectsUnknownField(t *testing.T) {
	h := newHarness(t)
	err := h.vm.ApplyFilter(context.Background(), "books", "isbn=123")
	if !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v, want ErrUnknownFilter", err)
	}
	if len(h.queries["books"]) != 0 {
		t.Error("rejected filter was sent")
	}
	if h.flash.last(t).level != "error" {
		t.Errorf("flash = %+v, want error", h.flash.last(t))
	}
}

func TestUnknownTable(t *testing.T) {
	h := newHarness(t)
	if err := h.vm.NextPage(context.Background(), "orders"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}
	if got := h.vm.TableNames(); !slices.Equal(got, []string{"books", "users"}) {
		t.Errorf("TableNames() = %v", got)
	}
}

func TestToggleSort(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.vm.ToggleSort(ctx, "books"); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "books"); !strings.HasSuffix(got, "&sort=createdAt") {
		t.Errorf("first toggle query = %q", got)
	}
	if err := h.vm.ToggleSort(ctx, "books"); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "books"); !strings.HasSuffix(got, "&sort=-createdAt") {
		t.Errorf("second toggle query = %q", got)
	}
	if err := h.vm.SetSortDirection(ctx, "books", query.Ascending); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "books"); !strings.HasSuffix(got, "&sort=createdAt") {
		t.Errorf("ascending query = %q", got)
	}
}

func TestSetDateRange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		start, end string
		wantErr    error
		wantPart   string
	}{
		{"2024-02-01", "2024-01-01", ErrInvalidRange, ""},
		{"2024-01-01", "tomorrow", ErrInvalidRange, ""},
		{"2024-01-01", "2024-01-31", nil, "&createdAt>=2024-01-01&createdAt<=2024-01-31&"},
		{"", "", nil, ""},
	}
	for _, tt := range tests {
		err := h.vm.SetDateRange(ctx, "users", tt.start, tt.end)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("SetDateRange(%q, %q) err = %v, want %v", tt.start, tt.end, err, tt.wantErr)
		}
		if err != nil {
			continue
		}
		got := h.lastQuery(t, "users")
		if tt.wantPart != "" && !strings.Contains(got, tt.wantPart) {
			t.Errorf("query = %q, want %q in it", got, tt.wantPart)
		}
		if tt.wantPart == "" && strings.Contains(got, "createdAt>=") {
			t.Errorf("query = %q, want no range", got)
		}
	}
}

func TestResizePage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.vm.ResizePage(ctx, "users", 1); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "users"); !strings.HasPrefix(got, "current=1&pageSize=6&") {
		t.Errorf("query = %q", got)
	}
	if err := h.vm.ResizePage(ctx, "users", -10); err != nil {
		t.Fatal(err)
	}
	if got := h.lastQuery(t, "users"); !strings.HasPrefix(got, "current=1&pageSize=1&") {
		t.Errorf("query = %q", got)
	}
}

func TestFetchErrorFlashed(t *testing.T) {
	h := newHarness(t)
	h.fetchErr = errors.New("connection refused")
	if err := h.vm.Refresh(context.Background(), "books"); err == nil {
		t.Fatal("Refresh() succeeded")
	}
	if got := h.flash.last(t); got.level != "error" || got.text != "connection refused" {
		t.Errorf("flash = %+v", got)
	}
}

func threeRecords() []importer.Record {
	return []importer.Record{
		{FullName: "A", Email: "a@x.com", Phone: "1"},
		{FullName: "B", Email: "b@x.com", Phone: "2"},
		{FullName: "C", Email: "a@x.com", Phone: "3"},
	}
}

func TestImportPartialSuccess(t *testing.T) {
	h := newHarness(t)
	h.importer.records = threeRecords()
	h.importer.outcome = api.ImportOutcome{CountSuccess: 2, CountFail: 1}

	if _, err := h.vm.LoadImport("/tmp/users.xlsx"); err != nil {
		t.Fatal(err)
	}
	if got := h.flash.last(t); got.level != "info" || !strings.Contains(got.text, "3 users from users.xlsx") {
		t.Errorf("load flash = %+v", got)
	}

	res, err := h.vm.SubmitImport(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.CountSuccess != 2 || res.CountFail != 1 {
		t.Errorf("result = %+v", res)
	}
	want := flashCall{"warn", "Successfully imported 2 users. Failed to import 1 users."}
	if got := h.flash.last(t); got != want {
		t.Errorf("flash = %+v, want %+v", got, want)
	}
	if _, ok := h.vm.Pending(); ok {
		t.Error("batch still pending after submit")
	}
	if len(h.importer.submitted) != 1 || len(h.importer.submitted[0].Records) != 3 {
		t.Errorf("submitted = %+v", h.importer.submitted)
	}
}

func TestImportFullSuccessIsInfo(t *testing.T) {
	h := newHarness(t)
	h.importer.records = threeRecords()[:2]
	h.importer.outcome = api.ImportOutcome{CountSuccess: 2}

	if _, err := h.vm.LoadImport("users.xlsx"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.vm.SubmitImport(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := h.flash.last(t); got.level != "info" {
		t.Errorf("flash = %+v, want info", got)
	}
}

func TestImportTransportErrorKeepsBatch(t *testing.T) {
	h := newHarness(t)
	h.importer.records = threeRecords()
	h.importer.submitErr = errors.New("bulk create: timeout")

	if _, err := h.vm.LoadImport("users.xlsx"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.vm.SubmitImport(context.Background()); err == nil {
		t.Fatal("SubmitImport() succeeded")
	}
	if got := h.flash.last(t); got.level != "error" {
		t.Errorf("flash = %+v, want error", got)
	}
	batch, ok := h.vm.Pending()
	if !ok || len(batch.Records) != 3 {
		t.Errorf("pending = %+v, %v; want the batch kept", batch, ok)
	}
}

func TestImportRejectedFileDropsPending(t *testing.T) {
	h := newHarness(t)
	h.importer.records = threeRecords()
	if _, err := h.vm.LoadImport("good.xlsx"); err != nil {
		t.Fatal(err)
	}

	h.importer.loadErr = importer.ErrUnreadableSpreadsheet
	if _, err := h.vm.LoadImport("bad.xlsx"); !errors.Is(err, importer.ErrUnreadableSpreadsheet) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := h.vm.Pending(); ok {
		t.Error("old batch survived a rejected file")
	}
	if _, err := h.vm.SubmitImport(context.Background()); !errors.Is(err, ErrNoPendingBatch) {
		t.Errorf("submit err = %v, want ErrNoPendingBatch", err)
	}
	if len(h.importer.submitted) != 0 {
		t.Error("nothing should have been submitted")
	}
}

func TestImportRequiresAdmin(t *testing.T) {
	h := newHarness(t)
	h.session.account.Role = api.RoleUser
	h.importer.records = threeRecords()
	if _, err := h.vm.LoadImport("users.xlsx"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.vm.SubmitImport(context.Background()); !errors.Is(err, session.ErrNotAdmin) {
		t.Errorf("err = %v, want ErrNotAdmin", err)
	}
	if len(h.importer.submitted) != 0 {
		t.Error("non-admin batch was submitted")
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.session.state = session.Anonymous
	ctx := context.Background()

	if err := h.vm.Login(ctx, "reader@bookstore.dev", "x"); err != nil {
		t.Fatal(err)
	}
	if got := h.flash.last(t); got.level != "warn" {
		t.Errorf("non-admin flash = %+v, want warn", got)
	}
	if len(h.queries["users"]) != 0 {
		t.Error("tables fetched for a non-admin")
	}

	if err := h.vm.Login(ctx, "admin@bookstore.dev", "x"); err != nil {
		t.Fatal(err)
	}
	if len(h.queries["users"]) != 1 || len(h.queries["books"]) != 1 {
		t.Errorf("fetches after login = %v", h.queries)
	}
	if h.vm.SessionState() != session.Authenticated {
		t.Errorf("state = %s", h.vm.SessionState())
	}

	h.session.loginErr = errors.New("Invalid username or password")
	if err := h.vm.Login(ctx, "admin@bookstore.dev", "bad"); err == nil {
		t.Fatal("Login() succeeded")
	}
	if got := h.flash.last(t); got.level != "error" {
		t.Errorf("flash = %+v, want error", got)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.importer.records = threeRecords()
	if _, err := h.vm.LoadImport("users.xlsx"); err != nil {
		t.Fatal(err)
	}

	h.session.logoutErr = errors.New("network down")
	if err := h.vm.Logout(context.Background()); err == nil {
		t.Fatal("Logout() hid the remote error")
	}
	if got := h.flash.last(t); got.level != "warn" {
		t.Errorf("flash = %+v, want warn", got)
	}
	if h.vm.Account() != nil || h.vm.SessionState() != session.Anonymous {
		t.Error("session not torn down locally")
	}
	if _, ok := h.vm.Pending(); ok {
		t.Error("pending batch survived logout")
	}
}

func TestSuggestionsAndImports(t *testing.T) {
	h := newHarness(t)
	h.store.recent["books.author"] = []string{"Tolstoy", "Hawking"}
	h.store.recent["books.mainText"] = []string{"war"}
	h.store.imports = []store.ImportEntry{{BatchID: "b1"}, {BatchID: "b2"}}

	want := []string{"mainText=war", "author=Tolstoy", "author=Hawking"}
	if got := h.vm.Suggestions("books"); !slices.Equal(got, want) {
		t.Errorf("Suggestions() = %v, want %v", got, want)
	}
	if got := h.vm.Suggestions("nope"); got != nil {
		t.Errorf("Suggestions(unknown) = %v", got)
	}

	entries, err := h.vm.Imports()
	if err != nil || len(entries) != 2 {
		t.Errorf("Imports() = %v, %v", entries, err)
	}
}
