package model

import "time"

// Note is a single user note.
type Note struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user_id"`
	Created time.Time `json:"created"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

// CreatedDatetime formats the creation time for display.
func (n *Note) CreatedDatetime() string {
	return n.Created.Format("2006-01-02 15:04")
}

// NewNote is the payload for creating or updating a note.
type NewNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Tag is a user-scoped label attachable to notes.
type Tag struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// NewTag is the payload for creating a tag.
type NewTag struct {
	Name string `json:"name"`
}

// NoteWithTags pairs a note with its tags for list views.
type NoteWithTags struct {
	Note *Note  `json:"note"`
	Tags []*Tag `json:"tags"`
}
