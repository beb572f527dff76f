package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/pkg/model"
)

// parseListOptions reads limit and tag_id query parameters.
func parseListOptions(r *http.Request) model.ListOptions {
	var opts model.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("tag_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			opts.TagID = n
		}
	}
	return opts
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// ownedNote loads a note and verifies it belongs to the authenticated
// subject. A note owned by another user is rejected the same way a role
// mismatch is, not reported as missing.
func (s *Server) ownedNote(w http.ResponseWriter, r *http.Request, id int64) *model.Note {
	reqID := RequestIDFromContext(r.Context())

	note, err := s.store.GetNote(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return nil
	}
	if note == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("note"))
		return nil
	}

	owner, err := s.store.GetUserByID(r.Context(), note.UserID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return nil
	}
	if owner == nil || owner.Username != SubjectFromContext(r.Context()) {
		s.respondAuthError(w, r, auth.ErrUnauthorizedAccess)
		return nil
	}

	return note
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	subject := SubjectFromContext(r.Context())

	notes, err := s.store.ListNotes(r.Context(), subject, parseListOptions(r))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	respondOK(w, reqID, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	subject := SubjectFromContext(r.Context())

	var nn model.NewNote
	if err := json.NewDecoder(r.Body).Decode(&nn); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid request body",
		})
		return
	}
	if nn.Title == "" {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "title is required",
		})
		return
	}

	note, err := s.store.CreateNote(r.Context(), subject, &nn)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondCreated(w, reqID, note)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid note id",
		})
		return
	}

	note := s.ownedNote(w, r, id)
	if note == nil {
		return
	}
	respondOK(w, reqID, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid note id",
		})
		return
	}
	if s.ownedNote(w, r, id) == nil {
		return
	}

	var nn model.NewNote
	if err := json.NewDecoder(r.Body).Decode(&nn); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid request body",
		})
		return
	}

	if err := s.store.UpdateNote(r.Context(), id, &nn); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondOK(w, reqID, nil)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid note id",
		})
		return
	}
	if s.ownedNote(w, r, id) == nil {
		return
	}

	if err := s.store.DeleteNote(r.Context(), id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondOK(w, reqID, nil)
}

func (s *Server) handleNoteTags(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid note id",
		})
		return
	}
	if s.ownedNote(w, r, id) == nil {
		return
	}

	tags, err := s.store.NoteTags(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	respondOK(w, reqID, tags)
}

// handleTagNote attaches a tag by name, creating the tag first if the user
// has no tag with that name yet.
func (s *Server) handleTagNote(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	subject := SubjectFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid note id",
		})
		return
	}
	if s.ownedNote(w, r, id) == nil {
		return
	}
	name := chi.URLParam(r, "name")

	tag, err := s.store.FindTag(r.Context(), subject, name)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if tag == nil {
		tag, err = s.store.CreateTag(r.Context(), subject, &model.NewTag{Name: name})
		if err != nil {
			s.respondStoreError(w, r, err)
			return
		}
	}

	if err := s.store.TagNote(r.Context(), id, tag.ID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondOK(w, reqID, tag)
}

func (s *Server) handleUntagNote(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	subject := SubjectFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid note id",
		})
		return
	}
	if s.ownedNote(w, r, id) == nil {
		return
	}
	name := chi.URLParam(r, "name")

	tag, err := s.store.FindTag(r.Context(), subject, name)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if tag == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("tag"))
		return
	}

	if err := s.store.UntagNote(r.Context(), id, tag.ID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondOK(w, reqID, nil)
}
