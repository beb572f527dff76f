package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/pkg/model"
)

// handleCreateUser registers a new account. Admin only; the password is
// bcrypt-hashed before it reaches the store.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var nu model.NewUser
	if err := json.NewDecoder(r.Body).Decode(&nu); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid request body",
		})
		return
	}
	if nu.Username == "" || nu.Pass == "" {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "username and pass are required",
		})
		return
	}
	if nu.Role == "" {
		nu.Role = model.RoleUser
	}
	if _, err := model.ParseRole(string(nu.Role)); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: err.Error(),
		})
		return
	}

	existing, err := s.store.GetUser(r.Context(), nu.Username)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if existing != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "username is taken",
		})
		return
	}

	hash, err := auth.HashPassword(nu.Pass)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), &nu, hash)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondCreated(w, reqID, user)
}

// handleDeleteUser removes an account and revokes its session.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	username := chi.URLParam(r, "username")

	user, err := s.store.GetUser(r.Context(), username)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if user == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("user"))
		return
	}

	if err := s.store.DeleteClaims(r.Context(), username); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if err := s.store.DeleteUser(r.Context(), username); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondOK(w, reqID, nil)
}
