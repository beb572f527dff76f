package ui

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/internal/store"
	"github.com/wojciechkepka/notor/pkg/model"
)

func testUI(t *testing.T) (http.Handler, *store.SQLiteStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	codec := auth.NewCodec([]byte("test-secret"))
	gate := auth.NewGate(codec, st, logger)
	issuer := auth.NewIssuer(codec, st, st, logger)

	u := New(st, gate, issuer, logger, Config{})
	r := chi.NewRouter()
	u.RegisterRoutes(r)
	return r, st
}

func createUIUser(t *testing.T, st *store.SQLiteStore, username, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := st.CreateUser(context.Background(), &model.NewUser{
		Username: username,
		Email:    username + "@test",
		Role:     model.RoleUser,
	}, hash); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func uiLogin(t *testing.T, h http.Handler, username, password string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "pass": {password}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login: status=%d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("login redirect = %q, want /", loc)
	}
	return w.Result().Cookies()
}

func TestLoginPage(t *testing.T) {
	h, _ := testUI(t)
	req := httptest.NewRequest("GET", "/login", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<form") {
		t.Error("login page has no form")
	}
}

func TestLoginPostBadCredentials(t *testing.T) {
	h, st := testUI(t)
	createUIUser(t, st, "alice", "hunter2")

	form := url.Values{"username": {"alice"}, "pass": {"wrong"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Errorf("redirect = %q, want /login?error=...", loc)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.BearerCookie && c.Value != "" {
			t.Error("failed login set a session cookie")
		}
	}
}

func TestIndexRequiresSession(t *testing.T) {
	h, _ := testUI(t)
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

func TestIndexWithSession(t *testing.T) {
	h, st := testUI(t)
	createUIUser(t, st, "alice", "hunter2")
	cookies := uiLogin(t, h, "alice", "hunter2")

	if _, err := st.CreateNote(context.Background(), "alice", &model.NewNote{Title: "groceries"}); err != nil {
		t.Fatalf("create note: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "groceries") {
		t.Error("index does not show the note")
	}
	if !strings.Contains(body, "alice") {
		t.Error("index does not show the username")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	h, st := testUI(t)
	createUIUser(t, st, "alice", "hunter2")
	cookies := uiLogin(t, h, "alice", "hunter2")

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("logout: status=%d, want 303", w.Code)
	}

	// The stored record is gone, so the old cookie no longer authorizes.
	req = httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Errorf("index after logout: status=%d, want redirect", w.Code)
	}
}

func TestNoteViewOwnership(t *testing.T) {
	h, st := testUI(t)
	createUIUser(t, st, "alice", "hunter2")
	createUIUser(t, st, "bob", "hunter2")

	note, err := st.CreateNote(context.Background(), "alice", &model.NewNote{Title: "private"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	cookies := uiLogin(t, h, "bob", "hunter2")
	req := httptest.NewRequest("GET", "/notes/"+strconv.FormatInt(note.ID, 10), nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user note view: status=%d, want 404", w.Code)
	}
}
