package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/byteserenity/blog/internal/apperror"
	"github.com/byteserenity/blog/internal/model"
	"github.com/byteserenity/blog/internal/repository"
)

// PostService is the content layer: posts, comments, tags, likes. It never
// decides WHO the actor is - the identity middleware resolved that and the
// gate enforced it. It does decide what an actor MAY touch: only authors
// edit or delete their own posts.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	tags     repository.TagRepository
	logger   *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	tags repository.TagRepository,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		tags:     tags,
		logger:   logger,
	}
}

// PostInput is the content of a create or update request.
type PostInput struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Status string   `json:"status"`
	Image  string   `json:"image"`
	Tags   []string `json:"tags"`
}

func (in *PostInput) validate() error {
	if in.Title == "" {
		return apperror.ValidationFailed("title", "Title is required.")
	}
	switch in.Status {
	case "", model.StatusPublished, model.StatusDraft:
	default:
		return apperror.ValidationFailed("status", "Status must be published or draft.")
	}
	return nil
}

// CreatePost creates a post authored by the acting user.
func (s *PostService) CreatePost(ctx context.Context, actor *model.User, in PostInput) (*model.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:      in.Title,
		Body:       in.Body,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		Status:     in.Status,
		Image:      in.Image,
	}
	if err := s.posts.CreatePost(ctx, post, in.Tags); err != nil {
		return nil, apperror.Storage(err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("authorID", actor.ID),
		slog.String("status", post.Status),
	)
	return post, nil
}

// GetPost returns a post with its comments. Drafts are only visible to their
// author; viewer may be nil for anonymous readers.
func (s *PostService) GetPost(ctx context.Context, viewer *model.User, id string) (*model.Post, []model.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if post.Status == model.StatusDraft && (viewer == nil || viewer.ID != post.AuthorID) {
		return nil, nil, apperror.NotFound("post", id)
	}

	comments, err := s.comments.ListCommentsByPost(ctx, id)
	if err != nil {
		return nil, nil, apperror.Storage(err)
	}
	return post, comments, nil
}

// ListPublished returns the public index, newest first.
func (s *PostService) ListPublished(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	posts, err := s.posts.ListPublishedPosts(ctx, opts)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return posts, nil
}

// ListByAuthor returns all of an author's posts, drafts included. The
// profile page calls this with the actor as the author.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	posts, err := s.posts.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return posts, nil
}

// UpdatePost rewrites a post. Author-only.
func (s *PostService) UpdatePost(ctx context.Context, actor *model.User, id string, in PostInput) (*model.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, apperror.Forbidden("You can only edit your own posts.")
	}

	post.Title = in.Title
	post.Body = in.Body
	post.Image = in.Image
	if in.Status != "" {
		post.Status = in.Status
	}
	if err := s.posts.UpdatePost(ctx, post, in.Tags); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Storage(err)
	}
	return post, nil
}

// DeletePost removes a post. Author-only; comments, tag links, and likes go
// with it.
func (s *PostService) DeletePost(ctx context.Context, actor *model.User, id string) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID {
		return apperror.Forbidden("You can only delete your own posts.")
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return apperror.Storage(err)
	}

	s.logger.Info("post deleted",
		slog.String("postID", id),
		slog.String("authorID", actor.ID),
	)
	return nil
}

// AddComment attaches a comment by the acting user to a published post.
// Identity comes through the gate like every other write - no handler-level
// re-check.
func (s *PostService) AddComment(ctx context.Context, actor *model.User, postID, body string) (*model.Comment, error) {
	if body == "" {
		return nil, apperror.ValidationFailed("body", "Comment body is required.")
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:     postID,
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		Body:       body,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, apperror.Storage(err)
	}
	return comment, nil
}

// LikePost records the actor's like. Repeat likes are no-ops, so the count
// can't be inflated.
func (s *PostService) LikePost(ctx context.Context, actor *model.User, postID string) error {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return err
	}
	if err := s.posts.LikePost(ctx, postID, actor.ID); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

// ListTags returns every tag in use.
func (s *PostService) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return tags, nil
}
