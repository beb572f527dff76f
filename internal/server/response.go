package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wojciechkepka/notor/internal/auth"
	"github.com/wojciechkepka/notor/pkg/model"
)

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respondOK writes a success response with the standard envelope.
func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, reqID, data, nil)
}

// respondCreated writes a 201 response with the standard envelope.
func respondCreated(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusCreated, reqID, data, nil)
}

// respondError writes an error response with the standard envelope.
func respondError(w http.ResponseWriter, reqID string, status int, apiErr *model.APIError) {
	respondJSON(w, status, reqID, nil, apiErr)
}

func respondJSON(w http.ResponseWriter, status int, reqID string, data any, apiErr *model.APIError) {
	resp := model.Response{
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Error:     apiErr,
	}
	if apiErr != nil {
		resp.Status = "error"
	} else {
		resp.Status = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// respondAuthError maps a typed authorization failure to its fixed status.
// Credential and token failures all answer 403 without revealing which check
// failed; a role mismatch answers 401 since the caller is authenticated but
// forbidden. Store failures stay generic with detail logged server-side only.
func (s *Server) respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := RequestIDFromContext(r.Context())

	switch {
	case errors.Is(err, auth.ErrAuthHeaderMissing),
		errors.Is(err, auth.ErrInvalidAuthHeader),
		errors.Is(err, auth.ErrTokenVerification),
		errors.Is(err, auth.ErrInvalidAuthToken),
		errors.Is(err, auth.ErrAuthTokenExpired),
		errors.Is(err, auth.ErrInvalidPassword):
		respondError(w, reqID, http.StatusForbidden, &model.APIError{
			Code:    model.ErrUnauthorized,
			Message: err.Error(),
		})
	case errors.Is(err, auth.ErrUnauthorizedAccess):
		respondError(w, reqID, http.StatusUnauthorized, &model.APIError{
			Code:    model.ErrForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, auth.ErrInvalidRole):
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: err.Error(),
		})
	case errors.Is(err, auth.ErrSessionNotFound):
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("session"))
	default:
		s.logger.Error("authorization failed", "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: "internal error",
		})
	}
}

// respondStoreError answers 500 with a generic message, logging the detail.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := RequestIDFromContext(r.Context())
	s.logger.Error("store operation failed", "error", err, "request_id", reqID)
	respondError(w, reqID, http.StatusInternalServerError, &model.APIError{
		Code:    model.ErrInternal,
		Message: "internal error",
	})
}
