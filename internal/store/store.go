package store

import (
	"context"

	"github.com/wojciechkepka/notor/pkg/model"
)

// Store defines the persistence layer for Notor entities.
//
// Lookup methods return (nil, nil) when no row exists; callers decide
// whether absence is an error.
type Store interface {
	// User accounts
	CreateUser(ctx context.Context, nu *model.NewUser, passHash string) (*model.User, error)
	GetUser(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error

	// Notes
	CreateNote(ctx context.Context, username string, n *model.NewNote) (*model.Note, error)
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	ListNotes(ctx context.Context, username string, opts model.ListOptions) ([]*model.Note, error)
	UpdateNote(ctx context.Context, id int64, n *model.NewNote) error
	DeleteNote(ctx context.Context, id int64) error
	TagNote(ctx context.Context, noteID, tagID int64) error
	UntagNote(ctx context.Context, noteID, tagID int64) error
	NoteTags(ctx context.Context, noteID int64) ([]*model.Tag, error)

	// Tags
	CreateTag(ctx context.Context, username string, t *model.NewTag) (*model.Tag, error)
	GetTag(ctx context.Context, id int64) (*model.Tag, error)
	ListTags(ctx context.Context, username string, opts model.ListOptions) ([]*model.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	FindTag(ctx context.Context, username, name string) (*model.Tag, error)

	// Session claims. At most one row per subject; PutClaims atomically
	// replaces any existing row.
	PutClaims(ctx context.Context, c model.Claims) error
	GetClaims(ctx context.Context, sub string) (*model.Claims, error)
	DeleteClaims(ctx context.Context, sub string) error
	DeleteExpiredClaims(ctx context.Context) (int64, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
