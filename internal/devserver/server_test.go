package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/bookadmin/internal/api"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

type envelopeBody struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

func newSeeded(t *testing.T) *Server {
	t.Helper()
	return New(Options{Seed: true, Now: func() time.Time { return fixedNow }})
}

func do(t *testing.T, s *Server, method, target, token string, body any) (int, envelopeBody) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelopeBody
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: unexpected json %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, env
}

func adminToken(t *testing.T, s *Server) string {
	t.Helper()
	code, env := do(t, s, http.MethodPost, "/api/v1/auth/login", "", api.LoginInput{
		Username: DefaultAdmin.Email,
		Password: DefaultAdmin.Password,
	})
	if code != http.StatusCreated {
		t.Fatalf("login status = %d, want 201", code)
	}
	var res api.LoginResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if res.AccessToken == "" || res.User.Role != api.RoleAdmin {
		t.Fatalf("login result = %+v", res)
	}
	return res.AccessToken
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newSeeded(t)
	code, env := do(t, s, http.MethodPost, "/api/v1/auth/login", "", api.LoginInput{
		Username: DefaultAdmin.Email,
		Password: "nope",
	})
	if code != http.StatusBadRequest || env.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d/%d, want 400", code, env.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newSeeded(t)
	code, env := do(t, s, http.MethodGet, "/api/v1/user?current=1&pageSize=5", "", nil)
	if code != http.StatusUnauthorized || env.Error != "Unauthorized" {
		t.Errorf("status = %d, error = %q, want 401 Unauthorized", code, env.Error)
	}
	code, _ = do(t, s, http.MethodGet, "/api/v1/user", "bogus", nil)
	if code != http.StatusUnauthorized {
		t.Errorf("bogus token status = %d, want 401", code)
	}
}

func TestNonAdminForbidden(t *testing.T) {
	s := newSeeded(t)
	code, env := do(t, s, http.MethodPost, "/api/v1/auth/login", "", api.LoginInput{
		Username: "reader@bookstore.dev",
		Password: DefaultAdmin.Password,
	})
	if code != http.StatusCreated {
		t.Fatalf("login status = %d", code)
	}
	var res api.LoginResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	code, _ = do(t, s, http.MethodGet, "/api/v1/user", res.AccessToken, nil)
	if code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", code)
	}
	code, _ = do(t, s, http.MethodGet, "/api/v1/auth/account", res.AccessToken, nil)
	if code != http.StatusOK {
		t.Errorf("account status = %d, want 200", code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newSeeded(t)
	tok := adminToken(t, s)
	if code, _ := do(t, s, http.MethodPost, "/api/v1/auth/logout", tok, nil); code != http.StatusCreated {
		t.Fatalf("logout status = %d", code)
	}
	if code, _ := do(t, s, http.MethodGet, "/api/v1/auth/account", tok, nil); code != http.StatusUnauthorized {
		t.Errorf("account after logout = %d, want 401", code)
	}
}

func listBooks(t *testing.T, s *Server, query string) api.Page[api.Book] {
	t.Helper()
	code, env := do(t, s, http.MethodGet, "/api/v1/book?"+query, "", nil)
	if code != http.StatusOK {
		t.Fatalf("GET /book?%s status = %d, message %s", query, code, env.Message)
	}
	var page api.Page[api.Book]
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	return page
}

func TestListBooksQueryGrammar(t *testing.T) {
	s := newSeeded(t)

	tests := []struct {
		name      string
		query     string
		wantTotal int
		wantFirst string
	}{
		{"case-insensitive match", "current=1&pageSize=5&mainText=%2Fwar%2Fi&sort=-createdAt", 2, "The Art of War"},
		{"author match", "current=1&pageSize=5&author=%2Fhawking%2Fi&sort=-createdAt", 1, "A Brief History of Time"},
		{"category facet", "current=1&pageSize=12&category=History&category=Travel&sort=-sold", 3, "A Brief History of Time"},
		{"price range", "current=1&pageSize=12&price>=200000&price<=300000&sort=price", 3, "Maus"},
		{"sort ascending", "current=1&pageSize=12&sort=price", 12, "The Outsiders"},
		{"popular", "current=1&pageSize=12&sort=-sold", 12, "The Art of War"},
		{"date range", "current=1&pageSize=12&createdAt>=2025-03-12&createdAt<=2025-03-14&sort=createdAt", 2, "Ways of Seeing"},
		{"unknown field ignored", "current=1&pageSize=12&shelf=A&sort=-sold", 12, "The Art of War"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := listBooks(t, s, tt.query)
			if page.Meta.Total != tt.wantTotal {
				t.Fatalf("total = %d, want %d", page.Meta.Total, tt.wantTotal)
			}
			if len(page.Result) == 0 || page.Result[0].MainText != tt.wantFirst {
				t.Errorf("first = %+v, want %q", page.Result, tt.wantFirst)
			}
		})
	}
}

func TestListPagination(t *testing.T) {
	s := newSeeded(t)
	page := listBooks(t, s, "current=3&pageSize=5&sort=-createdAt")
	want := api.Meta{Current: 3, PageSize: 5, Pages: 3, Total: 12}
	if page.Meta != want {
		t.Errorf("meta = %+v, want %+v", page.Meta, want)
	}
	if len(page.Result) != 2 {
		t.Errorf("rows on last page = %d, want 2", len(page.Result))
	}

	page = listBooks(t, s, "current=9&pageSize=5")
	if len(page.Result) != 0 || page.Meta.Total != 12 {
		t.Errorf("past the end = %d rows, total %d", len(page.Result), page.Meta.Total)
	}

	code, _ := do(t, s, http.MethodGet, "/api/v1/book?current=0", "", nil)
	if code != http.StatusBadRequest {
		t.Errorf("current=0 status = %d, want 400", code)
	}
}

func TestBulkCreateCountsDuplicates(t *testing.T) {
	s := newSeeded(t)
	tok := adminToken(t, s)

	batch := []api.BulkUser{
		{FullName: "A", Email: "a@x.com", Phone: "1", Password: "123456"},
		{FullName: "B", Email: "b@x.com", Phone: "2", Password: "123456"},
		{FullName: "C", Email: "A@x.com", Phone: "3", Password: "123456"},
		{FullName: "D", Email: "", Phone: "4", Password: "123456"},
	}
	code, env := do(t, s, http.MethodPost, "/api/v1/user/bulk-create", tok, batch)
	if code != http.StatusCreated {
		t.Fatalf("status = %d", code)
	}
	var out api.ImportOutcome
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatal(err)
	}
	if out != (api.ImportOutcome{CountSuccess: 2, CountFail: 2}) {
		t.Errorf("outcome = %+v, want {2 2}", out)
	}

	code, env = do(t, s, http.MethodGet, "/api/v1/user?current=1&pageSize=10&email=%2Fx%5C.com%2Fi&sort=-createdAt", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	var page api.Page[api.User]
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Meta.Total != 2 {
		t.Errorf("imported users = %d, want 2", page.Meta.Total)
	}
}

func TestCreateBookValidation(t *testing.T) {
	s := newSeeded(t)
	tok := adminToken(t, s)

	code, env := do(t, s, http.MethodPost, "/api/v1/book", tok, api.BookInput{MainText: "Only a title"})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	var msgs []string
	if err := json.Unmarshal(env.Message, &msgs); err != nil || len(msgs) == 0 {
		t.Errorf("message = %s, want a list of field errors", env.Message)
	}

	code, env = do(t, s, http.MethodPost, "/api/v1/book", tok, api.BookInput{
		MainText: "Dune", Author: "Frank Herbert", Price: 99000, Quantity: 3,
		Category: "SciFi", Thumbnail: "t.png", Slider: []string{"s.png"},
	})
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, message %s", code, env.Message)
	}
	code, env = do(t, s, http.MethodGet, "/api/v1/database/category", "", nil)
	if code != http.StatusOK || !strings.Contains(string(env.Data), "SciFi") {
		t.Errorf("categories = %s, want new category listed", env.Data)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newSeeded(t)
	code, env := do(t, s, http.MethodGet, "/api/v1/nope", "", nil)
	if code != http.StatusNotFound || env.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d/%d, want 404", code, env.StatusCode)
	}
}

func TestParseListQuery(t *testing.T) {
	q, err := parseListQuery("current=2&pageSize=500&mainText=%2Fa%2Fi&createdAt>=2024-01-01&createdAt<=2024-02-01&category=X&category=Y&sort=-createdAt")
	if err != nil {
		t.Fatal(err)
	}
	if q.current != 2 || q.pageSize != maxPageSize || q.sort != "-createdAt" {
		t.Errorf("query = %+v", q)
	}
	if q.lower["createdAt"] != "2024-01-01" || q.upper["createdAt"] != "2024-02-01" {
		t.Errorf("bounds = %v / %v", q.lower, q.upper)
	}
	if _, ok := q.match["mainText"]; !ok {
		t.Error("mainText pattern missing")
	}
	if got := q.equal["category"]; len(got) != 2 {
		t.Errorf("category = %v, want both values", got)
	}

	if _, err := parseListQuery("pageSize=abc"); err == nil {
		t.Error("non-numeric pageSize should fail")
	}
}
