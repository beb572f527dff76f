package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/pkg/model"
)

// handleLogin processes POST /api/v1/auth. On success the signed token is
// returned in the body and also set as a pair of cookies for browser
// clients: the Bearer token cookie and a cleartext Username display cookie,
// both SameSite=Strict with max-age equal to the token TTL.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid request body",
		})
		return
	}

	token, err := s.issuer.Login(r.Context(), creds.Username, creds.Pass)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			// One answer for unknown user and wrong password.
			respondError(w, reqID, http.StatusForbidden, &model.APIError{
				Code:    model.ErrUnauthorized,
				Message: auth.ErrInvalidPassword.Error(),
			})
			return
		}
		s.respondAuthError(w, r, err)
		return
	}

	setSessionCookies(w, creds.Username, token, s.issuer.TTL(), s.config.Secure)
	respondOK(w, reqID, model.Token{Token: token})
}

// setSessionCookies sets the token and username cookies on a login response.
func setSessionCookies(w http.ResponseWriter, username, token string, ttl time.Duration, secure bool) {
	maxAge := int(ttl.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     auth.BearerCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.UsernameCookie,
		Value:    username,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
