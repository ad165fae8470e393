package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/byteserenity/blog/internal/apperror"
	"github.com/byteserenity/blog/internal/model"
	"github.com/byteserenity/blog/internal/repository"
)

// createTestPost inserts a post for the author with the given status.
func createTestPost(t *testing.T, db *DB, authorID, title, status string, tags []string) *model.Post {
	t.Helper()
	post := &model.Post{
		Title:    title,
		Body:     "body of " + title,
		AuthorID: authorID,
		Status:   status,
	}
	if err := db.CreatePost(context.Background(), post, tags); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// =========================================================================
// CreatePost / GetPostByID TESTS
// =========================================================================

func TestCreatePost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")

	post := createTestPost(t, db, author.ID, "Hello", model.StatusPublished, []string{"go", "sqlite"})
	if post.ID == "" {
		t.Fatal("CreatePost() did not set post.ID")
	}

	got, err := db.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID() error = %v", err)
	}
	if got.Title != "Hello" || got.AuthorName != "alice" {
		t.Errorf("GetPostByID() = %+v", got)
	}
	// Tags come back alphabetically.
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "sqlite" {
		t.Errorf("Tags = %v, want [go sqlite]", got.Tags)
	}
	if got.LikeCount != 0 {
		t.Errorf("LikeCount = %d, want 0", got.LikeCount)
	}
}

func TestCreatePost_DefaultsToDraft(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")

	post := createTestPost(t, db, author.ID, "Untitled thoughts", "", nil)

	got, _ := db.GetPostByID(context.Background(), post.ID)
	if got.Status != model.StatusDraft {
		t.Errorf("Status = %q, want %q", got.Status, model.StatusDraft)
	}
}

func TestGetPostByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.GetPostByID(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPostByID(missing) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// Listing TESTS
// =========================================================================

func TestListPublishedPosts(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")

	first := createTestPost(t, db, author.ID, "First", model.StatusPublished, nil)
	createTestPost(t, db, author.ID, "Secret", model.StatusDraft, nil)
	second := createTestPost(t, db, author.ID, "Second", model.StatusPublished, nil)

	posts, err := db.ListPublishedPosts(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListPublishedPosts() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2 (drafts excluded)", len(posts))
	}
	// Newest first.
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Errorf("order = [%s %s], want [%s %s]", posts[0].Title, posts[1].Title, "Second", "First")
	}
}

func TestListPublishedPosts_Pagination(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")
	for _, title := range []string{"one", "two", "three"} {
		createTestPost(t, db, author.ID, title, model.StatusPublished, nil)
	}

	page, err := db.ListPublishedPosts(context.Background(), repository.ListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListPublishedPosts() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("got %d posts, want 2", len(page))
	}
	if page[0].Title != "two" || page[1].Title != "one" {
		t.Errorf("page = [%s %s], want [two one]", page[0].Title, page[1].Title)
	}
}

func TestListPostsByAuthor_IncludesDrafts(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	createTestPost(t, db, alice.ID, "Published", model.StatusPublished, nil)
	createTestPost(t, db, alice.ID, "Draft", model.StatusDraft, nil)
	createTestPost(t, db, bob.ID, "Not mine", model.StatusPublished, nil)

	posts, err := db.ListPostsByAuthor(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListPostsByAuthor() error = %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("got %d posts, want 2 (own drafts included, others excluded)", len(posts))
	}
}

// =========================================================================
// UpdatePost / DeletePost TESTS
// =========================================================================

func TestUpdatePost_ReplacesTags(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")
	post := createTestPost(t, db, author.ID, "Hello", model.StatusDraft, []string{"go"})

	post.Title = "Hello, revised"
	post.Status = model.StatusPublished
	if err := db.UpdatePost(context.Background(), post, []string{"sqlite", "web"}); err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}

	got, _ := db.GetPostByID(context.Background(), post.ID)
	if got.Title != "Hello, revised" || got.Status != model.StatusPublished {
		t.Errorf("post not updated: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "sqlite" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [sqlite web]", got.Tags)
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	db := newTestDB(t)

	missing := &model.Post{ID: "missing", Title: "x"}
	if err := db.UpdatePost(context.Background(), missing, nil); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdatePost(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeletePost_Cascades(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")
	post := createTestPost(t, db, author.ID, "Hello", model.StatusPublished, []string{"go"})

	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID, Body: "Nice."}
	if err := db.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if err := db.LikePost(context.Background(), post.ID, author.ID); err != nil {
		t.Fatalf("LikePost() error = %v", err)
	}

	if err := db.DeletePost(context.Background(), post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if _, err := db.GetPostByID(context.Background(), post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("post still readable after delete: %v", err)
	}
	comments, err := db.ListCommentsByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListCommentsByPost() error = %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived post delete: %d", len(comments))
	}

	if err := db.DeletePost(context.Background(), post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeletePost(deleted) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LikePost TESTS
// =========================================================================

func TestLikePost_Idempotent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")
	post := createTestPost(t, db, alice.ID, "Hello", model.StatusPublished, nil)

	for i := 0; i < 3; i++ {
		if err := db.LikePost(context.Background(), post.ID, bob.ID); err != nil {
			t.Fatalf("LikePost() error = %v", err)
		}
	}
	if err := db.LikePost(context.Background(), post.ID, alice.ID); err != nil {
		t.Fatalf("LikePost() error = %v", err)
	}

	got, _ := db.GetPostByID(context.Background(), post.ID)
	if got.LikeCount != 2 {
		t.Errorf("LikeCount = %d, want 2 (one per user)", got.LikeCount)
	}
}

// =========================================================================
// Comment TESTS
// =========================================================================

func TestListCommentsByPost(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")
	post := createTestPost(t, db, alice.ID, "Hello", model.StatusPublished, nil)

	for _, c := range []*model.Comment{
		{PostID: post.ID, AuthorID: bob.ID, Body: "First!"},
		{PostID: post.ID, AuthorID: alice.ID, Body: "Thanks."},
	} {
		if err := db.CreateComment(context.Background(), c); err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}
	}

	comments, err := db.ListCommentsByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListCommentsByPost() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	// Oldest first, with the author's username joined in.
	if comments[0].Body != "First!" || comments[0].AuthorName != "bob" {
		t.Errorf("comments[0] = %+v", comments[0])
	}
	if comments[1].AuthorName != "alice" {
		t.Errorf("comments[1] = %+v", comments[1])
	}
}

// =========================================================================
// ListTags TESTS
// =========================================================================

func TestListTags(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "a@x.com")

	createTestPost(t, db, author.ID, "One", model.StatusPublished, []string{"zig", "go"})
	createTestPost(t, db, author.ID, "Two", model.StatusPublished, []string{"go"})

	tags, err := db.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	// "go" is reused, not duplicated.
	if len(tags) != 2 || tags[0].Name != "go" || tags[1].Name != "zig" {
		t.Errorf("ListTags() = %+v, want [go zig]", tags)
	}
}
