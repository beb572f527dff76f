package ui

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all UI routes on the given router.
func (u *UI) RegisterRoutes(r chi.Router) {
	// Public routes (no auth required).
	r.Get("/login", u.HandleLogin)
	r.Post("/login", u.HandleLoginPost)

	// Protected routes (auth required).
	r.Group(func(r chi.Router) {
		r.Use(u.AuthMiddleware)

		r.Get("/", u.HandleIndex)
		r.Get("/logout", u.HandleLogout)
		r.Get("/notes/{id}", u.HandleNote)
		r.Get("/tags/{id}", u.HandleTag)
	})

	r.NotFound(u.HandleNotFound)
}
