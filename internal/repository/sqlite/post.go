package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/byteserenity/blog/internal/apperror"
	"github.com/byteserenity/blog/internal/model"
	"github.com/byteserenity/blog/internal/repository"
)

// compile-time checks that *DB implements the content repositories
var (
	_ repository.PostRepository = (*DB)(nil)
	_ repository.TagRepository  = (*DB)(nil)
)

// postColumns selects a post row joined with its author's username and an
// aggregated like count. Tag names are fetched separately.
const postColumns = `
	p.id, p.title, p.body, p.author_id, u.username, p.status, p.image,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
	p.created_at, p.updated_at`

func scanPost(scan func(dest ...any) error) (*model.Post, error) {
	var p model.Post
	err := scan(
		&p.ID,
		&p.Title,
		&p.Body,
		&p.AuthorID,
		&p.AuthorName,
		&p.Status,
		&p.Image,
		&p.LikeCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost inserts a post and attaches its tags in one transaction.
// Tags that don't exist yet are created on first use.
func (db *DB) CreatePost(ctx context.Context, post *model.Post, tags []string) error {
	now := time.Now()
	post.ID = xid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = model.StatusDraft
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning post insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, title, body, author_id, status, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Body,
		post.AuthorID,
		post.Status,
		post.Image,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	if err := attachTags(ctx, tx, post.ID, tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post insert: %w", err)
	}
	post.Tags = tags
	return nil
}

// attachTags replaces the tag set of a post inside the caller's transaction,
// creating unknown tag names as it goes.
func attachTags(ctx context.Context, tx *sql.Tx, postID string, tags []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("sqlite: clearing post tags: %w", err)
	}

	for _, name := range tags {
		var tagID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID)
		if err == sql.ErrNoRows {
			tagID = xid.New().String()
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tags (id, name) VALUES (?, ?)`, tagID, name); err != nil {
				return fmt.Errorf("sqlite: creating tag %q: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("sqlite: looking up tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`,
			postID, tagID); err != nil {
			return fmt.Errorf("sqlite: attaching tag %q: %w", name, err)
		}
	}
	return nil
}

// GetPostByID retrieves a single post with author name, like count, and tags.
// Returns apperror.ErrNotFound if no post exists with that ID.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`, id)

	p, err := scanPost(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("post", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	if p.Tags, err = db.tagsForPost(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (db *DB) tagsForPost(ctx context.Context, postID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.name FROM tags t
		 JOIN post_tags pt ON pt.tag_id = t.id
		 WHERE pt.post_id = ?
		 ORDER BY t.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags for post %s: %w", postID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// ListPublishedPosts returns published posts, newest first. Tags are loaded
// per post; the home page shows a handful of posts, so N+1 here is fine.
func (db *DB) ListPublishedPosts(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.status = ?
		 ORDER BY p.created_at DESC
		 LIMIT ? OFFSET ?`,
		model.StatusPublished, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing published posts: %w", err)
	}
	return db.collectPosts(ctx, rows)
}

// ListPostsByAuthor returns all of an author's posts, drafts included -
// the profile page listing.
func (db *DB) ListPostsByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.author_id = ?
		 ORDER BY p.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts by author %s: %w", authorID, err)
	}
	return db.collectPosts(ctx, rows)
}

func (db *DB) collectPosts(ctx context.Context, rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	for i := range posts {
		tags, err := db.tagsForPost(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Tags = tags
	}
	return posts, nil
}

// UpdatePost rewrites a post's content fields and replaces its tag set.
// Authorship checks belong to the service layer; this just writes.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post, tags []string) error {
	post.UpdatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning post update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE posts SET title = ?, body = ?, status = ?, image = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Body,
		post.Status,
		post.Image,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("post", post.ID)
	}

	if err := attachTags(ctx, tx, post.ID, tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post update: %w", err)
	}
	post.Tags = tags
	return nil
}

// DeletePost removes a post; comments, tag links, and likes cascade.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("post", id)
	}
	return nil
}

// LikePost records a like. The (post_id, user_id) primary key plus
// INSERT OR IGNORE makes repeat likes no-ops, so the like count can never be
// inflated by double-submits.
func (db *DB) LikePost(ctx context.Context, postID, userID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_likes (post_id, user_id, created_at)
		 VALUES (?, ?, ?)`,
		postID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("sqlite: liking post %s: %w", postID, err)
	}
	return nil
}

// ListTags returns all tags ordered by name.
func (db *DB) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
