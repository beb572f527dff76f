package server

import (
	"net/http"
	"time"
)

// handleHealth reports server liveness and uptime.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, map[string]any{
		"status": "healthy",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}
