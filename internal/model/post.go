package model

import "time"

// Post statuses. Drafts are only visible to their author (profile listing);
// the public index shows published posts only.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Post is an authored article. AuthorID references User.ID; the author's
// username is denormalized into AuthorName on reads so list responses don't
// need a second query.
type Post struct {
	ID         string    `json:"id"         db:"id"`
	Title      string    `json:"title"      db:"title"`
	Body       string    `json:"body"       db:"body"`
	AuthorID   string    `json:"authorId"   db:"author_id"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Status     string    `json:"status"     db:"status"`
	Image      string    `json:"image"      db:"image"`
	Tags       []string  `json:"tags"       db:"-"`
	LikeCount  int       `json:"likeCount"  db:"like_count"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}

// Comment is a reply on a post.
type Comment struct {
	ID         string    `json:"id"         db:"id"`
	PostID     string    `json:"postId"     db:"post_id"`
	AuthorID   string    `json:"authorId"   db:"author_id"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Body       string    `json:"body"       db:"body"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}

// Tag is a content label. Names are unique; tags are created on first use
// when a post references a name that doesn't exist yet.
type Tag struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}
