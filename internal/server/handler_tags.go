package server

import (
	"encoding/json"
	"net/http"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/pkg/model"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	subject := SubjectFromContext(r.Context())

	tags, err := s.store.ListTags(r.Context(), subject, parseListOptions(r))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	respondOK(w, reqID, tags)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	subject := SubjectFromContext(r.Context())

	var nt model.NewTag
	if err := json.NewDecoder(r.Body).Decode(&nt); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid request body",
		})
		return
	}
	if nt.Name == "" {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "name is required",
		})
		return
	}

	tag, err := s.store.CreateTag(r.Context(), subject, &nt)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondCreated(w, reqID, tag)
}

// ownedTag loads a tag and verifies it belongs to the authenticated subject.
func (s *Server) ownedTag(w http.ResponseWriter, r *http.Request, id int64) *model.Tag {
	reqID := RequestIDFromContext(r.Context())

	tag, err := s.store.GetTag(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return nil
	}
	if tag == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("tag"))
		return nil
	}

	owner, err := s.store.GetUserByID(r.Context(), tag.UserID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return nil
	}
	if owner == nil || owner.Username != SubjectFromContext(r.Context()) {
		s.respondAuthError(w, r, auth.ErrUnauthorizedAccess)
		return nil
	}

	return tag
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid tag id",
		})
		return
	}

	tag := s.ownedTag(w, r, id)
	if tag == nil {
		return
	}
	respondOK(w, reqID, tag)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "invalid tag id",
		})
		return
	}
	if s.ownedTag(w, r, id) == nil {
		return
	}

	if err := s.store.DeleteTag(r.Context(), id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondOK(w, reqID, nil)
}
