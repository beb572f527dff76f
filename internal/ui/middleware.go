package ui

import (
	"context"
	"net/http"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/pkg/model"
)

// Context keys for authenticated request data.
type contextKey string

const subjectContextKey contextKey = "subject"

// SubjectFromContext retrieves the authenticated username from the request
// context.
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectContextKey).(string)
	return sub
}

// AuthMiddleware authorizes the request through the cookie variant of the
// gate and adds the subject to the request context. Without a valid session
// the browser is sent to the login page.
func (u *UI) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := u.gate.Authorize(r.Context(), model.RoleUser, auth.CookieCredentials(r))
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), subjectContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
