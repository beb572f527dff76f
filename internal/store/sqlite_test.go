package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/wojciechkepka/notor/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testUser(t *testing.T, st *SQLiteStore, username string) *model.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), &model.NewUser{
		Username: username,
		Email:    username + "@test",
		Role:     model.RoleUser,
	}, "$2a$04$fakehashfakehashfakehash")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestCreateGetUser(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	created := testUser(t, st, "alice")
	if created.ID == 0 {
		t.Error("user ID not assigned")
	}

	got, err := st.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got == nil {
		t.Fatal("user not found")
	}
	if got.Username != "alice" || got.Email != "alice@test" || got.Role != model.RoleUser {
		t.Errorf("user = %+v", got)
	}
	if got.PassHash == "" {
		t.Error("password hash not persisted")
	}

	byID, err := st.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user by id: %v", err)
	}
	if byID == nil || byID.Username != "alice" {
		t.Errorf("user by id = %+v", byID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	st := testStore(t)
	got, err := st.GetUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != nil {
		t.Errorf("user = %+v, want nil", got)
	}
}

func TestDeleteUser(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	testUser(t, st, "alice")

	if err := st.DeleteUser(ctx, "alice"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if got, _ := st.GetUser(ctx, "alice"); got != nil {
		t.Error("user still present after delete")
	}
}

func TestNoteCRUD(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	user := testUser(t, st, "alice")

	note, err := st.CreateNote(ctx, "alice", &model.NewNote{Title: "groceries", Content: "milk, eggs"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if note.ID == 0 {
		t.Error("note ID not assigned")
	}
	if note.UserID != user.ID {
		t.Errorf("note user_id = %d, want %d", note.UserID, user.ID)
	}

	got, err := st.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got == nil || got.Title != "groceries" || got.Content != "milk, eggs" {
		t.Errorf("note = %+v", got)
	}

	if err := st.UpdateNote(ctx, note.ID, &model.NewNote{Title: "groceries", Content: "milk, eggs, bread"}); err != nil {
		t.Fatalf("update note: %v", err)
	}
	got, _ = st.GetNote(ctx, note.ID)
	if got.Content != "milk, eggs, bread" {
		t.Errorf("content = %q after update", got.Content)
	}

	if err := st.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if got, _ := st.GetNote(ctx, note.ID); got != nil {
		t.Error("note still present after delete")
	}
}

func TestListNotesScopedToUser(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	testUser(t, st, "alice")
	testUser(t, st, "bob")

	for _, title := range []string{"a", "b", "c"} {
		if _, err := st.CreateNote(ctx, "alice", &model.NewNote{Title: title}); err != nil {
			t.Fatalf("create note: %v", err)
		}
	}
	if _, err := st.CreateNote(ctx, "bob", &model.NewNote{Title: "bobs"}); err != nil {
		t.Fatalf("create note: %v", err)
	}

	notes, err := st.ListNotes(ctx, "alice", model.ListOptions{})
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("notes = %d, want 3", len(notes))
	}
	for _, n := range notes {
		if n.Title == "bobs" {
			t.Error("list leaked another user's note")
		}
	}

	limited, err := st.ListNotes(ctx, "alice", model.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited notes = %d, want 2", len(limited))
	}
}

func TestTagging(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	testUser(t, st, "alice")

	note, err := st.CreateNote(ctx, "alice", &model.NewNote{Title: "groceries"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	tag, err := st.CreateTag(ctx, "alice", &model.NewTag{Name: "shopping"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	if err := st.TagNote(ctx, note.ID, tag.ID); err != nil {
		t.Fatalf("tag note: %v", err)
	}

	tags, err := st.NoteTags(ctx, note.ID)
	if err != nil {
		t.Fatalf("note tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "shopping" {
		t.Errorf("tags = %+v", tags)
	}

	// Filter notes by tag.
	notes, err := st.ListNotes(ctx, "alice", model.ListOptions{TagID: tag.ID})
	if err != nil {
		t.Fatalf("list notes by tag: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != note.ID {
		t.Errorf("filtered notes = %+v", notes)
	}

	if err := st.UntagNote(ctx, note.ID, tag.ID); err != nil {
		t.Fatalf("untag note: %v", err)
	}
	tags, _ = st.NoteTags(ctx, note.ID)
	if len(tags) != 0 {
		t.Errorf("tags after untag = %+v", tags)
	}
}

func TestFindTag(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	testUser(t, st, "alice")
	testUser(t, st, "bob")

	created, err := st.CreateTag(ctx, "alice", &model.NewTag{Name: "work"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	got, err := st.FindTag(ctx, "alice", "work")
	if err != nil {
		t.Fatalf("find tag: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Errorf("tag = %+v", got)
	}

	// Same name, different user.
	other, err := st.FindTag(ctx, "bob", "work")
	if err != nil {
		t.Fatalf("find tag: %v", err)
	}
	if other != nil {
		t.Errorf("found another user's tag: %+v", other)
	}
}

func TestClaimsUpsert(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first := model.Claims{Sub: "alice", Role: "user", Exp: time.Now().Add(time.Minute).Unix()}
	if err := st.PutClaims(ctx, first); err != nil {
		t.Fatalf("put claims: %v", err)
	}

	got, err := st.GetClaims(ctx, "alice")
	if err != nil {
		t.Fatalf("get claims: %v", err)
	}
	if got == nil || !got.Equal(first) {
		t.Errorf("claims = %+v, want %+v", got, first)
	}

	// A second put for the same subject replaces the row.
	second := model.Claims{Sub: "alice", Role: "user", Exp: first.Exp + 60}
	if err := st.PutClaims(ctx, second); err != nil {
		t.Fatalf("put claims again: %v", err)
	}
	got, _ = st.GetClaims(ctx, "alice")
	if got == nil || !got.Equal(second) {
		t.Errorf("claims = %+v, want %+v", got, second)
	}
}

func TestClaimsDelete(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.PutClaims(ctx, model.Claims{Sub: "alice", Role: "user", Exp: time.Now().Unix()}); err != nil {
		t.Fatalf("put claims: %v", err)
	}
	if err := st.DeleteClaims(ctx, "alice"); err != nil {
		t.Fatalf("delete claims: %v", err)
	}
	got, err := st.GetClaims(ctx, "alice")
	if err != nil {
		t.Fatalf("get claims: %v", err)
	}
	if got != nil {
		t.Errorf("claims = %+v, want nil", got)
	}
}

func TestDeleteExpiredClaims(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now()

	stale := model.Claims{Sub: "old", Role: "user", Exp: now.Add(-time.Hour).Unix()}
	live := model.Claims{Sub: "new", Role: "user", Exp: now.Add(time.Hour).Unix()}
	for _, c := range []model.Claims{stale, live} {
		if err := st.PutClaims(ctx, c); err != nil {
			t.Fatalf("put claims: %v", err)
		}
	}

	n, err := st.DeleteExpiredClaims(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got, _ := st.GetClaims(ctx, "old"); got != nil {
		t.Error("stale claims survived the sweep")
	}
	if got, _ := st.GetClaims(ctx, "new"); got == nil {
		t.Error("live claims were swept")
	}
}
