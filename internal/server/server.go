package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/internal/config"
	"github.com/wojciechkepka/notor/internal/store"
	"github.com/wojciechkepka/notor/internal/ui"
	"github.com/wojciechkepka/notor/pkg/model"
)

// Server is the Notor REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	gate      *auth.Gate
	issuer    *auth.Issuer
	ui        *ui.UI
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, gate *auth.Gate, issuer *auth.Issuer, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
		gate:      gate,
		issuer:    issuer,
	}

	s.ui = ui.New(st, gate, issuer, logger, ui.Config{Secure: cfg.Secure})

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	// API routes (JSON)
	r.Route("/api/v1", func(r chi.Router) {
		// Health
		r.Get("/health", s.handleHealth)

		// Login
		r.Post("/auth", s.handleLogin)

		// Protected resources. Notes and tags require the user role;
		// admins pass through the same gate.
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(model.RoleUser))

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", s.handleListNotes)
				r.Post("/", s.handleCreateNote)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetNote)
					r.Put("/", s.handleUpdateNote)
					r.Delete("/", s.handleDeleteNote)
					r.Get("/tags", s.handleNoteTags)
					r.Post("/tags/{name}", s.handleTagNote)
					r.Delete("/tags/{name}", s.handleUntagNote)
				})
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", s.handleListTags)
				r.Post("/", s.handleCreateTag)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetTag)
					r.Delete("/", s.handleDeleteTag)
				})
			})
		})

		// Account management, admin only
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(model.RoleAdmin))

			r.Post("/users", s.handleCreateUser)
			r.Delete("/users/{username}", s.handleDeleteUser)
		})
	})
}
