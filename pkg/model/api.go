package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// ListOptions configures list queries with limit and tag filtering.
type ListOptions struct {
	Limit int
	TagID int64 // Optional; restrict notes to those carrying this tag
}

// Clamp enforces query limits (max 1000, default 100).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
}
