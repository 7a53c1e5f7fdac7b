package repository

import (
	"context"
	"testing"
)

func TestPostgresPostRepo_ImplementsInterface(t *testing.T) {
	var _ PostRepository = (*PostgresPostRepo)(nil)
}

func TestNewPostgresPostRepo_Initializes(t *testing.T) {
	if NewPostgresPostRepo(nil) == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestPostgresPostRepo_CreateResolvesAuthor(t *testing.T) {
	db := setupRepoTestDB(t)
	users := NewPostgresUserRepo(db)
	posts := NewPostgresPostRepo(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("Create user error = %v", err)
	}

	post, err := posts.Create(ctx, "Hi", "First", alice.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if post.ID == "" {
		t.Error("expected generated ID")
	}
	if post.Author.ID != alice.ID || post.Author.Username != "alice" {
		t.Errorf("Author = %+v, want {%s alice}", post.Author, alice.ID)
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestPostgresPostRepo_ListOrderAndEmpty(t *testing.T) {
	db := setupRepoTestDB(t)
	users := NewPostgresUserRepo(db)
	posts := NewPostgresPostRepo(db)
	ctx := context.Background()

	empty, err := posts.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty)
	}

	alice, _ := users.Create(ctx, "alice", "hash")
	bob, _ := users.Create(ctx, "bob", "hash")

	first, _ := posts.Create(ctx, "one", "b", alice.ID)
	second, _ := posts.Create(ctx, "two", "b", bob.ID)
	third, _ := posts.Create(ctx, "three", "b", alice.ID)

	all, err := posts.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(all))
	}
	want := []string{first.ID, second.ID, third.ID}
	for i, p := range all {
		if p.ID != want[i] {
			t.Errorf("List()[%d].ID = %s, want %s", i, p.ID, want[i])
		}
	}

	mine, err := posts.ListByAuthor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByAuthor() error = %v", err)
	}
	if len(mine) != 2 || mine[0].ID != first.ID || mine[1].ID != third.ID {
		t.Errorf("ListByAuthor() = %v, want [%s %s]", mine, first.ID, third.ID)
	}
}

func TestPostgresPostRepo_FindByID_NotFound(t *testing.T) {
	db := setupRepoTestDB(t)
	posts := NewPostgresPostRepo(db)

	post, err := posts.FindByID(context.Background(), "0192f0a4-0000-7000-8000-000000000000")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if post != nil {
		t.Errorf("expected nil, got %+v", post)
	}
}

func TestPostgresPostRepo_UpdateByIDAndAuthor(t *testing.T) {
	db := setupRepoTestDB(t)
	users := NewPostgresUserRepo(db)
	posts := NewPostgresPostRepo(db)
	ctx := context.Background()

	alice, _ := users.Create(ctx, "alice", "hash")
	bob, _ := users.Create(ctx, "bob", "hash")
	post, _ := posts.Create(ctx, "Hi", "First", alice.ID)

	// 所有者以外は更新できない
	got, err := posts.UpdateByIDAndAuthor(ctx, post.ID, bob.ID, "X", "Y")
	if err != nil {
		t.Fatalf("UpdateByIDAndAuthor() error = %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for non-owner, got %+v", got)
	}

	got, err = posts.UpdateByIDAndAuthor(ctx, post.ID, alice.ID, "Hi2", "Second")
	if err != nil {
		t.Fatalf("UpdateByIDAndAuthor() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected updated post")
	}
	if got.Title != "Hi2" || got.Body != "Second" {
		t.Errorf("updated = %q/%q, want Hi2/Second", got.Title, got.Body)
	}
	if got.UpdatedAt.Before(post.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Error("expected CreatedAt to be unchanged")
	}
}

func TestPostgresPostRepo_DeleteByIDAndAuthor(t *testing.T) {
	db := setupRepoTestDB(t)
	users := NewPostgresUserRepo(db)
	posts := NewPostgresPostRepo(db)
	ctx := context.Background()

	alice, _ := users.Create(ctx, "alice", "hash")
	bob, _ := users.Create(ctx, "bob", "hash")
	post, _ := posts.Create(ctx, "Hi", "First", alice.ID)

	deleted, err := posts.DeleteByIDAndAuthor(ctx, post.ID, bob.ID)
	if err != nil {
		t.Fatalf("DeleteByIDAndAuthor() error = %v", err)
	}
	if deleted {
		t.Error("expected non-owner delete to be a no-op")
	}

	deleted, err = posts.DeleteByIDAndAuthor(ctx, post.ID, alice.ID)
	if err != nil {
		t.Fatalf("DeleteByIDAndAuthor() error = %v", err)
	}
	if !deleted {
		t.Error("expected owner delete to succeed")
	}

	found, _ := posts.FindByID(ctx, post.ID)
	if found != nil {
		t.Error("expected post to be gone")
	}
}
