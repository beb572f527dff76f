package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/wojciechkepka/notor/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- User accounts ---

func (s *SQLiteStore) CreateUser(ctx context.Context, nu *model.NewUser, passHash string) (*model.User, error) {
	s.logger.Debug("sql", "op", "insert", "table", "users", "username", nu.Username)

	role := nu.Role
	if role == "" {
		role = model.RoleUser
	}
	created := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (created, username, email, pass, role) VALUES (?, ?, ?, ?, ?)`,
		created.Format(time.RFC3339Nano), nu.Username, nu.Email, passHash, string(role),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.User{
		ID:       id,
		Created:  created,
		Username: nu.Username,
		Email:    nu.Email,
		PassHash: passHash,
		Role:     role,
	}, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.logger.Debug("sql", "op", "select", "table", "users", "username", username)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created, username, email, pass, role FROM users WHERE username = ?`, username)
	return s.scanUser(row)
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	s.logger.Debug("sql", "op", "select", "table", "users", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created, username, email, pass, role FROM users WHERE id = ?`, id)
	return s.scanUser(row)
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, username string) error {
	s.logger.Debug("sql", "op", "delete", "table", "users", "username", username)

	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	return err
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var created, role string

	err := row.Scan(&u.ID, &created, &u.Username, &u.Email, &u.PassHash, &role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Created, _ = time.Parse(time.RFC3339Nano, created)
	u.Role = model.UserRole(role)
	return &u, nil
}

// --- Notes ---

func (s *SQLiteStore) CreateNote(ctx context.Context, username string, n *model.NewNote) (*model.Note, error) {
	s.logger.Debug("sql", "op", "insert", "table", "notes", "username", username)

	created := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (user_id, created, title, content)
		 VALUES ((SELECT id FROM users WHERE username = ?), ?, ?, ?)`,
		username, created.Format(time.RFC3339Nano), n.Title, n.Content,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetNote(ctx, id)
}

func (s *SQLiteStore) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	s.logger.Debug("sql", "op", "select", "table", "notes", "id", id)

	var n model.Note
	var created string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created, title, content FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &created, &n.Title, &n.Content)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	n.Created, _ = time.Parse(time.RFC3339Nano, created)
	return &n, nil
}

func (s *SQLiteStore) ListNotes(ctx context.Context, username string, opts model.ListOptions) ([]*model.Note, error) {
	s.logger.Debug("sql", "op", "list", "table", "notes", "username", username, "tag_id", opts.TagID)
	opts.Clamp()

	var rows *sql.Rows
	var err error

	if opts.TagID != 0 {
		rows, err = s.db.QueryContext(ctx,
			`SELECT notes.id, notes.user_id, notes.created, notes.title, notes.content
			 FROM notes
			 INNER JOIN notes_tags ON notes_tags.note_id = notes.id
			 INNER JOIN users ON users.id = notes.user_id
			 WHERE notes_tags.tag_id = ? AND users.username = ?
			 ORDER BY notes.id
			 LIMIT ?`,
			opts.TagID, username, opts.Limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT notes.id, notes.user_id, notes.created, notes.title, notes.content
			 FROM notes
			 INNER JOIN users ON users.id = notes.user_id
			 WHERE users.username = ?
			 ORDER BY notes.id
			 LIMIT ?`,
			username, opts.Limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		var n model.Note
		var created string
		if err := rows.Scan(&n.ID, &n.UserID, &created, &n.Title, &n.Content); err != nil {
			return nil, err
		}
		n.Created, _ = time.Parse(time.RFC3339Nano, created)
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) UpdateNote(ctx context.Context, id int64, n *model.NewNote) error {
	s.logger.Debug("sql", "op", "update", "table", "notes", "id", id)

	_, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ? WHERE id = ?`, n.Title, n.Content, id)
	return err
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id int64) error {
	s.logger.Debug("sql", "op", "delete", "table", "notes", "id", id)

	// Tag links go first so the foreign keys stay consistent.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes_tags WHERE note_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) TagNote(ctx context.Context, noteID, tagID int64) error {
	s.logger.Debug("sql", "op", "insert", "table", "notes_tags", "note_id", noteID, "tag_id", tagID)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notes_tags (note_id, tag_id) VALUES (?, ?)`, noteID, tagID)
	return err
}

func (s *SQLiteStore) UntagNote(ctx context.Context, noteID, tagID int64) error {
	s.logger.Debug("sql", "op", "delete", "table", "notes_tags", "note_id", noteID, "tag_id", tagID)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notes_tags WHERE note_id = ? AND tag_id = ?`, noteID, tagID)
	return err
}

func (s *SQLiteStore) NoteTags(ctx context.Context, noteID int64) ([]*model.Tag, error) {
	s.logger.Debug("sql", "op", "list", "table", "notes_tags", "note_id", noteID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT tags.id, tags.user_id, tags.name
		 FROM tags
		 INNER JOIN notes_tags AS nt ON nt.tag_id = tags.id
		 WHERE nt.note_id = ?`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// --- Tags ---

func (s *SQLiteStore) CreateTag(ctx context.Context, username string, t *model.NewTag) (*model.Tag, error) {
	s.logger.Debug("sql", "op", "insert", "table", "tags", "username", username, "name", t.Name)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name)
		 VALUES ((SELECT id FROM users WHERE username = ?), ?)`,
		username, t.Name,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetTag(ctx, id)
}

func (s *SQLiteStore) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	s.logger.Debug("sql", "op", "select", "table", "tags", "id", id)

	var t model.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM tags WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) ListTags(ctx context.Context, username string, opts model.ListOptions) ([]*model.Tag, error) {
	s.logger.Debug("sql", "op", "list", "table", "tags", "username", username)
	opts.Clamp()

	rows, err := s.db.QueryContext(ctx,
		`SELECT tags.id, tags.user_id, tags.name
		 FROM tags
		 INNER JOIN users ON users.id = tags.user_id
		 WHERE users.username = ?
		 ORDER BY tags.id
		 LIMIT ?`,
		username, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

func (s *SQLiteStore) DeleteTag(ctx context.Context, id int64) error {
	s.logger.Debug("sql", "op", "delete", "table", "tags", "id", id)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes_tags WHERE tag_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) FindTag(ctx context.Context, username, name string) (*model.Tag, error) {
	s.logger.Debug("sql", "op", "select", "table", "tags", "username", username, "name", name)

	var t model.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT tags.id, tags.user_id, tags.name
		 FROM tags
		 INNER JOIN users ON users.id = tags.user_id
		 WHERE tags.name = ? AND users.username = ?`,
		name, username,
	).Scan(&t.ID, &t.UserID, &t.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTags(rows *sql.Rows) ([]*model.Tag, error) {
	var tags []*model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// --- Session claims ---

// PutClaims atomically replaces the session record for the claims subject.
// A single upsert keeps the at-most-one-row invariant even when two logins
// for the same subject race; the last writer wins.
func (s *SQLiteStore) PutClaims(ctx context.Context, c model.Claims) error {
	s.logger.Debug("sql", "op", "upsert", "table", "claims", "sub", c.Sub)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO claims (sub, role, exp) VALUES (?, ?, ?)
		 ON CONFLICT(sub) DO UPDATE SET role = excluded.role, exp = excluded.exp`,
		c.Sub, c.Role, c.Exp,
	)
	return err
}

func (s *SQLiteStore) GetClaims(ctx context.Context, sub string) (*model.Claims, error) {
	s.logger.Debug("sql", "op", "select", "table", "claims", "sub", sub)

	var c model.Claims
	err := s.db.QueryRowContext(ctx,
		`SELECT sub, role, exp FROM claims WHERE sub = ?`, sub,
	).Scan(&c.Sub, &c.Role, &c.Exp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) DeleteClaims(ctx context.Context, sub string) error {
	s.logger.Debug("sql", "op", "delete", "table", "claims", "sub", sub)

	_, err := s.db.ExecContext(ctx, `DELETE FROM claims WHERE sub = ?`, sub)
	return err
}

func (s *SQLiteStore) DeleteExpiredClaims(ctx context.Context) (int64, error) {
	s.logger.Debug("sql", "op", "delete_expired", "table", "claims")

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM claims WHERE exp < ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
