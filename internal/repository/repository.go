// Package repository defines the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the concrete implementation; services
// only ever see these interfaces, which keeps them testable with in-memory
// fakes.
package repository

import (
	"context"

	"github.com/byteserenity/blog/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store.
//
// CreateUser must enforce username/email uniqueness at write time and return
// apperror.ErrConflict on violation - the service-level duplicate pre-check
// is only a fast-path UX hint, the constraint here is the authority.
// Lookups return apperror.ErrNotFound when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	// UpdateUserPassword overwrites the stored hash in a single statement.
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	UpdateUserProfile(ctx context.Context, user *model.User) error
}

// SessionRepository persists the opaque-token → user bindings.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	// GetSessionUser resolves a token to its user in one joined read.
	// Expired sessions are treated as absent (apperror.ErrNotFound).
	GetSessionUser(ctx context.Context, token string) (*model.User, error)
	// DeleteSession is idempotent: deleting an absent token is a no-op.
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// PostRepository stores authored content and its tag/like relations.
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post, tags []string) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	ListPublishedPosts(ctx context.Context, opts ListOptions) ([]model.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post, tags []string) error
	DeletePost(ctx context.Context, id string) error
	// LikePost records one like per (post, user); repeats are no-ops.
	LikePost(ctx context.Context, postID, userID string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

type TagRepository interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
}
