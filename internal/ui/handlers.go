package ui

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/internal/store"
	"github.com/wojciechkepka/notor/pkg/model"
)

// UI serves the server-rendered HTML views.
type UI struct {
	store  store.Store
	gate   *auth.Gate
	issuer *auth.Issuer
	logger *slog.Logger
	secure bool
}

// Config holds UI configuration.
type Config struct {
	Secure bool // Use secure cookies for HTTPS
}

// New creates a new UI handler.
func New(st store.Store, gate *auth.Gate, issuer *auth.Issuer, logger *slog.Logger, cfg Config) *UI {
	return &UI{
		store:  st,
		gate:   gate,
		issuer: issuer,
		logger: logger.With("component", "ui"),
		secure: cfg.Secure,
	}
}

// HandleLogin renders the login page.
func (u *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	// Already logged in? Straight to the notes index.
	if _, err := u.gate.Authorize(r.Context(), model.RoleUser, auth.CookieCredentials(r)); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	u.render(w, "login", map[string]any{
		"Title": "Notor - login",
		"Error": r.URL.Query().Get("error"),
	})
}

// HandleLoginPost processes the login form.
func (u *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=Invalid+request", http.StatusSeeOther)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("pass")

	token, err := u.issuer.Login(r.Context(), username, password)
	if err != nil {
		u.logger.Warn("login failed", "username", username, "error", err)
		http.Redirect(w, r, "/login?error="+url.QueryEscape("Invalid credentials"), http.StatusSeeOther)
		return
	}

	u.setSessionCookies(w, username, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout revokes the session record and clears both cookies, so any
// outstanding token for the user stops authorizing immediately.
func (u *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := u.issuer.Logout(r.Context(), subject); err != nil {
		u.logger.Error("logout failed", "username", subject, "error", err)
	}
	u.clearSessionCookies(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleIndex renders the notes index with tags.
func (u *UI) HandleIndex(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())

	notes, err := u.store.ListNotes(r.Context(), subject, model.ListOptions{})
	if err != nil {
		u.renderError(w, "Failed to load notes", err)
		return
	}

	withTags := make([]*model.NoteWithTags, 0, len(notes))
	for _, note := range notes {
		tags, err := u.store.NoteTags(r.Context(), note.ID)
		if err != nil {
			u.renderError(w, "Failed to load tags", err)
			return
		}
		withTags = append(withTags, &model.NoteWithTags{Note: note, Tags: tags})
	}

	u.render(w, "index", map[string]any{
		"Title":    "Notor - index",
		"Username": subject,
		"Notes":    withTags,
	})
}

// HandleNote renders a single note with its tags.
func (u *UI) HandleNote(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		u.HandleNotFound(w, r)
		return
	}

	note, err := u.store.GetNote(r.Context(), id)
	if err != nil {
		u.renderError(w, "Failed to load note", err)
		return
	}
	if note == nil || !u.ownedBy(r, note.UserID, subject) {
		u.HandleNotFound(w, r)
		return
	}

	tags, err := u.store.NoteTags(r.Context(), note.ID)
	if err != nil {
		u.renderError(w, "Failed to load tags", err)
		return
	}

	u.render(w, "note", map[string]any{
		"Title":    "Notor - " + note.Title,
		"Username": subject,
		"Note":     note,
		"Tags":     tags,
	})
}

// HandleTag renders a tag and the notes carrying it.
func (u *UI) HandleTag(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		u.HandleNotFound(w, r)
		return
	}

	tag, err := u.store.GetTag(r.Context(), id)
	if err != nil {
		u.renderError(w, "Failed to load tag", err)
		return
	}
	if tag == nil || !u.ownedBy(r, tag.UserID, subject) {
		u.HandleNotFound(w, r)
		return
	}

	notes, err := u.store.ListNotes(r.Context(), subject, model.ListOptions{TagID: tag.ID})
	if err != nil {
		u.renderError(w, "Failed to load notes", err)
		return
	}

	u.render(w, "tag", map[string]any{
		"Title":    "Notor - " + tag.Name,
		"Username": subject,
		"Tag":      tag,
		"Notes":    notes,
	})
}

// HandleNotFound renders the 404 page.
func (u *UI) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	u.render(w, "404", map[string]any{
		"Title": "Notor - not found",
		"URL":   r.URL.Path,
	})
}

// ownedBy reports whether the given user id resolves to the subject.
func (u *UI) ownedBy(r *http.Request, userID int64, subject string) bool {
	owner, err := u.store.GetUserByID(r.Context(), userID)
	if err != nil || owner == nil {
		return false
	}
	return owner.Username == subject
}

func (u *UI) setSessionCookies(w http.ResponseWriter, username, token string) {
	maxAge := int(u.issuer.TTL().Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     auth.BearerCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   u.secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.UsernameCookie,
		Value:    username,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   u.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (u *UI) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.BearerCookie, auth.UsernameCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}

// render writes a template, logging failures server-side.
func (u *UI) render(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderTemplate(w, name, data); err != nil {
		u.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (u *UI) renderError(w http.ResponseWriter, msg string, err error) {
	u.logger.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
