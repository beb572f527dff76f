package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wojciechkepka/notor/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// memCreds is an in-memory CredentialStore.
type memCreds struct {
	claims map[string]model.Claims
}

func newMemCreds() *memCreds {
	return &memCreds{claims: make(map[string]model.Claims)}
}

func (m *memCreds) PutClaims(ctx context.Context, c model.Claims) error {
	m.claims[c.Sub] = c
	return nil
}

func (m *memCreds) GetClaims(ctx context.Context, sub string) (*model.Claims, error) {
	c, ok := m.claims[sub]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCreds) DeleteClaims(ctx context.Context, sub string) error {
	delete(m.claims, sub)
	return nil
}

// memUsers is an in-memory UserStore.
type memUsers struct {
	users map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*model.User)}
}

func (m *memUsers) GetUser(ctx context.Context, username string) (*model.User, error) {
	return m.users[username], nil
}

func (m *memUsers) add(t *testing.T, username, password string, role model.UserRole) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	m.users[username] = &model.User{
		ID:       int64(len(m.users) + 1),
		Username: username,
		PassHash: string(hash),
		Role:     role,
	}
}

// testGate returns a gate, its credential store, and a token freshly issued
// and stored for the given user.
func testGate(t *testing.T, username string, role model.UserRole) (*Gate, *memCreds, string) {
	t.Helper()
	codec := NewCodec([]byte("test-secret"))
	creds := newMemCreds()
	gate := NewGate(codec, creds, testLogger())

	claims, token, err := codec.Issue(username, role, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := creds.PutClaims(context.Background(), claims); err != nil {
		t.Fatalf("store claims: %v", err)
	}
	return gate, creds, token
}

func TestAuthorizeSuccess(t *testing.T) {
	gate, _, token := testGate(t, "alice", model.RoleUser)

	sub, err := gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(token))
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if sub != "alice" {
		t.Errorf("subject = %q, want alice", sub)
	}
}

func TestAuthorizeAdminSatisfiesUserRoute(t *testing.T) {
	gate, _, token := testGate(t, "root", model.RoleAdmin)

	sub, err := gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(token))
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if sub != "root" {
		t.Errorf("subject = %q, want root", sub)
	}
}

func TestAuthorizeUserRejectedOnAdminRoute(t *testing.T) {
	gate, _, token := testGate(t, "alice", model.RoleUser)

	_, err := gate.Authorize(context.Background(), model.RoleAdmin, TokenCredentials(token))
	if !errors.Is(err, ErrUnauthorizedAccess) {
		t.Errorf("err = %v, want ErrUnauthorizedAccess", err)
	}
}

func TestAuthorizeMissingCredential(t *testing.T) {
	gate, _, _ := testGate(t, "alice", model.RoleUser)

	_, err := gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(""))
	if !errors.Is(err, ErrAuthHeaderMissing) {
		t.Errorf("err = %v, want ErrAuthHeaderMissing", err)
	}
}

func TestAuthorizeNoSession(t *testing.T) {
	gate, creds, token := testGate(t, "alice", model.RoleUser)
	creds.DeleteClaims(context.Background(), "alice")

	_, err := gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(token))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestAuthorizeRevokedBySecondLogin(t *testing.T) {
	gate, creds, token := testGate(t, "alice", model.RoleUser)

	// A later login replaces the stored record; the old token now fails
	// the equality check even though its signature still verifies.
	newClaims, _, err := gate.codec.Issue("alice", model.RoleUser, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := creds.PutClaims(context.Background(), newClaims); err != nil {
		t.Fatalf("store claims: %v", err)
	}

	_, err = gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(token))
	if !errors.Is(err, ErrInvalidAuthToken) {
		t.Errorf("err = %v, want ErrInvalidAuthToken", err)
	}
}

func TestAuthorizeExpired(t *testing.T) {
	gate, _, token := testGate(t, "alice", model.RoleUser)
	gate.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }

	_, err := gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(token))
	if !errors.Is(err, ErrAuthTokenExpired) {
		t.Errorf("err = %v, want ErrAuthTokenExpired", err)
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))
	creds := newMemCreds()
	gate := NewGate(codec, creds, testLogger())

	_, token, err := codec.Issue("alice", model.UserRole("superuser"), time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = gate.Authorize(context.Background(), model.RoleUser, TokenCredentials(token))
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("err = %v, want ErrInvalidRole", err)
	}
}

func TestHeaderCredentials(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc123", "abc123", nil},
		{"missing", "", "", ErrAuthHeaderMissing},
		{"no prefix", "abc123", "", ErrInvalidAuthHeader},
		{"wrong scheme", "Basic abc123", "", ErrInvalidAuthHeader},
		{"lowercase scheme", "bearer abc123", "", ErrInvalidAuthHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			got, err := HeaderCredentials(h).Token()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCookieCredentials(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	if _, err := CookieCredentials(req).Token(); !errors.Is(err, ErrAuthHeaderMissing) {
		t.Errorf("no cookie: err = %v, want ErrAuthHeaderMissing", err)
	}

	req.AddCookie(&http.Cookie{Name: BearerCookie, Value: "abc123"})
	got, err := CookieCredentials(req).Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got != "abc123" {
		t.Errorf("token = %q, want abc123", got)
	}
}
