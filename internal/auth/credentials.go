package auth

import (
	"net/http"
	"strings"
)

const (
	// BearerCookie is the name of the session token cookie set on login.
	BearerCookie = "Bearer"
	// UsernameCookie carries the username in cleartext for UI display.
	UsernameCookie = "Username"

	bearerPrefix = "Bearer "
)

// CredentialSource supplies the raw bearer token from some transport field.
// The gate only ever needs this one named lookup.
type CredentialSource interface {
	Token() (string, error)
}

// HeaderCredentials reads the token from an "Authorization: Bearer <token>"
// header. Used by the JSON API.
func HeaderCredentials(h http.Header) CredentialSource {
	return headerSource{h}
}

type headerSource struct {
	h http.Header
}

func (s headerSource) Token() (string, error) {
	raw := s.h.Get("Authorization")
	if raw == "" {
		return "", ErrAuthHeaderMissing
	}
	if !strings.HasPrefix(raw, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	return strings.TrimPrefix(raw, bearerPrefix), nil
}

// CookieCredentials reads the token from the Bearer cookie. Used by the
// HTML-facing routes.
func CookieCredentials(r *http.Request) CredentialSource {
	return cookieSource{r}
}

type cookieSource struct {
	r *http.Request
}

func (s cookieSource) Token() (string, error) {
	ck, err := s.r.Cookie(BearerCookie)
	if err != nil || ck.Value == "" {
		return "", ErrAuthHeaderMissing
	}
	return ck.Value, nil
}

// TokenCredentials wraps an already-extracted token string.
func TokenCredentials(token string) CredentialSource {
	return tokenSource(token)
}

type tokenSource string

func (s tokenSource) Token() (string, error) {
	if s == "" {
		return "", ErrAuthHeaderMissing
	}
	return string(s), nil
}
