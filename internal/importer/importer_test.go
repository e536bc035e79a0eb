package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/bus"
)

type fakeCreator struct {
	got     []api.BulkUser
	outcome *api.ImportOutcome
	err     error
}

func (f *fakeCreator) BulkCreateUsers(_ context.Context, users []api.BulkUser) (*api.ImportOutcome, error) {
	f.got = users
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type historyCall struct {
	op      string
	batchID string
	success int
	fail    int
	errMsg  string
}

type fakeHistory struct {
	calls []historyCall
	err   error
}

func (h *fakeHistory) BeginImport(batchID, _ string, total int) error {
	h.calls = append(h.calls, historyCall{op: "begin", batchID: batchID, success: total})
	return h.err
}

func (h *fakeHistory) CompleteImport(batchID string, s, f int) error {
	h.calls = append(h.calls, historyCall{op: "complete", batchID: batchID, success: s, fail: f})
	return h.err
}

func (h *fakeHistory) FailImport(batchID, errMsg string) error {
	h.calls = append(h.calls, historyCall{op: "fail", batchID: batchID, errMsg: errMsg})
	return h.err
}

func threeRecords() Batch {
	return Batch{
		Source: "users.xlsx",
		Records: []Record{
			{FullName: "A", Email: "a@x.com", Phone: "1"},
			{FullName: "B", Email: "b@x.com", Phone: "2"},
			{FullName: "C", Email: "a@x.com", Phone: "3"},
		},
	}
}

func recv(t *testing.T, ch <-chan bus.Event) bus.Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return bus.Event{}
	}
}

func TestSubmitPartialSuccess(t *testing.T) {
	creator := &fakeCreator{outcome: &api.ImportOutcome{CountSuccess: 2, CountFail: 1}}
	history := &fakeHistory{}
	b := bus.New()
	importCh, unsubImport := b.Subscribe("import.", 4)
	defer unsubImport()
	usersCh, unsubUsers := b.Subscribe("users.", 4)
	defer unsubUsers()

	im := New(creator, history, b, "123456", nil)
	res, err := im.Submit(context.Background(), threeRecords())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(creator.got) != 3 {
		t.Fatalf("bulk request size = %d, want 3", len(creator.got))
	}
	for i, u := range creator.got {
		if u.Password != "123456" {
			t.Errorf("user %d password = %q, want %q", i, u.Password, "123456")
		}
	}
	if creator.got[2].Email != "a@x.com" {
		t.Errorf("duplicate emails must be sent as-is, got %q", creator.got[2].Email)
	}

	want := "Successfully imported 2 users. Failed to import 1 users."
	if got := res.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
	if res.Total != 3 || res.BatchID == "" {
		t.Errorf("result = %+v", res)
	}

	if len(history.calls) != 2 || history.calls[0].op != "begin" || history.calls[1].op != "complete" {
		t.Fatalf("history calls = %+v", history.calls)
	}
	if c := history.calls[1]; c.success != 2 || c.fail != 1 || c.batchID != res.BatchID {
		t.Errorf("complete call = %+v", c)
	}

	evt := recv(t, importCh)
	if evt.Kind != bus.ImportCompleted {
		t.Errorf("event kind = %q, want %q", evt.Kind, bus.ImportCompleted)
	}
	if r, ok := evt.Payload.(Result); !ok || r.CountSuccess != 2 {
		t.Errorf("event payload = %#v", evt.Payload)
	}
	if evt := recv(t, usersCh); evt.Kind != bus.UsersChanged {
		t.Errorf("event kind = %q, want %q", evt.Kind, bus.UsersChanged)
	}
}

func TestSubmitFailure(t *testing.T) {
	boom := &api.APIError{StatusCode: 500, Message: "internal"}
	creator := &fakeCreator{err: boom}
	history := &fakeHistory{}
	b := bus.New()
	ch, unsub := b.Subscribe("", 4)
	defer unsub()

	im := New(creator, history, b, "123456", nil)
	res, err := im.Submit(context.Background(), threeRecords())
	if res != nil {
		t.Errorf("Submit() result = %+v, want nil", res)
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Fatalf("Submit() error = %v, want wrapped APIError", err)
	}

	if len(history.calls) != 2 || history.calls[1].op != "fail" {
		t.Fatalf("history calls = %+v", history.calls)
	}
	if evt := recv(t, ch); evt.Kind != bus.ImportFailed {
		t.Errorf("event kind = %q, want %q", evt.Kind, bus.ImportFailed)
	}
	select {
	case evt := <-ch:
		t.Errorf("unexpected event %q after failure", evt.Kind)
	default:
	}
}

func TestSubmitEmptyBatch(t *testing.T) {
	creator := &fakeCreator{}
	im := New(creator, nil, nil, "123456", nil)
	_, err := im.Submit(context.Background(), Batch{Source: "empty.xlsx"})
	if !errors.Is(err, ErrNothingToImport) {
		t.Fatalf("Submit() error = %v, want ErrNothingToImport", err)
	}
	if creator.got != nil {
		t.Error("empty batch must not reach the backend")
	}
}

func TestSubmitHistoryErrorsIgnored(t *testing.T) {
	creator := &fakeCreator{outcome: &api.ImportOutcome{CountSuccess: 3}}
	history := &fakeHistory{err: errors.New("disk full")}
	im := New(creator, history, nil, "pw", nil)

	res, err := im.Submit(context.Background(), threeRecords())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.CountSuccess != 3 {
		t.Errorf("CountSuccess = %d, want 3", res.CountSuccess)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.xlsx")
	buf := workbook(t, [][]any{{"fullName", "email"}, {"Kim", "k@x.com"}})
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	im := New(&fakeCreator{}, nil, nil, "pw", nil)
	batch, err := im.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if batch.Source != path || len(batch.Records) != 1 {
		t.Errorf("Load() = %+v", batch)
	}

	if _, err := im.Load(filepath.Join(dir, "users.txt")); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("Load(txt) error = %v, want ErrUnsupportedFile", err)
	}
}
