// Package service holds the business logic, between the HTTP handlers and
// the repositories:
//
//	handler (HTTP) → service (rules) → repository (storage)
//	                ↘ auth (hashing, reset tokens)
//	                ↘ mail (outbound messages)
//
// Services never touch HTTP types and handlers never touch SQL - every rule
// about who may do what lives here or in the auth gate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/byteserenity/blog/internal/apperror"
	"github.com/byteserenity/blog/internal/auth"
	"github.com/byteserenity/blog/internal/mail"
	"github.com/byteserenity/blog/internal/model"
	"github.com/byteserenity/blog/internal/repository"
)

// SessionLifetime is how long a login stays valid server-side. The cookie
// MaxAge mirrors this; after expiry the token resolves to anonymous.
const SessionLifetime = 7 * 24 * time.Hour

// emailPattern is a structural sanity check, not RFC 5322 - good enough to
// catch typos before a row is written.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// AuthService implements signup, login/logout, per-request identity
// resolution, and the password-reset flow.
type AuthService struct {
	users       repository.UserRepository
	sessions    repository.SessionRepository
	passwords   *auth.PasswordService
	resetTokens *auth.ResetTokenService
	mailer      mail.Mailer
	baseURL     string
	logger      *slog.Logger
}

// compile-time check: AuthService is the middleware's identity resolver
var _ auth.IdentityResolver = (*AuthService)(nil)

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	passwords *auth.PasswordService,
	resetTokens *auth.ResetTokenService,
	mailer mail.Mailer,
	baseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		passwords:   passwords,
		resetTokens: resetTokens,
		mailer:      mailer,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// Signup registers a new user.
//
// Validation runs before any store access; the duplicate pre-check is a
// single combined username-or-email lookup. Two concurrent signups can both
// pass the pre-check - the UNIQUE constraints in the store settle the race,
// and CreateUser surfaces the loser as the same Conflict error.
func (s *AuthService) Signup(ctx context.Context, username, email, password, confirmPassword string) (*model.User, error) {
	switch {
	case username == "":
		return nil, apperror.ValidationFailed("username", "Username is required.")
	case email == "":
		return nil, apperror.ValidationFailed("email", "Email is required.")
	case !emailPattern.MatchString(email):
		return nil, apperror.ValidationFailed("email", "Invalid email address.")
	case password == "":
		return nil, apperror.ValidationFailed("password", "Password is required.")
	case password != confirmPassword:
		return nil, apperror.ValidationFailed("confirm_password", "Passwords do not match.")
	}

	existing, err := s.users.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Storage(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(fmt.Sprintf(
			"User %s or email %s is already registered.", username, email,
		))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing signup password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, apperror.Storage(err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login authenticates by email and password and establishes a fresh session.
//
// An unknown email and a wrong password both return InvalidCredentials with
// an identical message - the response must not reveal which accounts exist.
// A storage failure is a different error entirely: it must never be dressed
// up as bad credentials, and it never falls through to an anonymous success.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, apperror.ValidationFailed("email", "Email and password are required.")
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", nil, apperror.InvalidCredentials()
	}
	if err != nil {
		return "", nil, apperror.Storage(err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", nil, apperror.InvalidCredentials()
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(SessionLifetime),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return "", nil, apperror.Storage(err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return session.Token, user, nil
}

// Logout clears the session binding for the given token. Idempotent: an
// empty, unknown, or already-cleared token is a no-op, so double-submits and
// logout-without-login never error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

// CurrentUser resolves a session token to its user. Anonymous - no token,
// unknown token, expired session - is (nil, nil), not an error. Called once
// per request by the identity middleware; no side effects.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	user, err := s.sessions.GetSessionUser(ctx, token)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword issues a reset token for the given email and mails the
// reset link.
//
// An unregistered email returns "Email does not exist." rather than a
// generic acknowledgement. Delivery is fire-and-forget: a transport failure
// comes back to the caller and is not retried.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "Email is required.")
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.UnknownEmail()
		}
		return apperror.Storage(err)
	}

	token, err := s.resetTokens.Issue(email)
	if err != nil {
		return fmt.Errorf("service/auth: issuing reset token: %w", err)
	}

	link := s.baseURL + "/auth/reset-password/" + token
	body := fmt.Sprintf("Your link to reset your password is %s", link)
	if err := s.mailer.Send(ctx, email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("service/auth: sending reset mail: %w", err)
	}

	s.logger.Info("password reset requested", slog.String("email", email))
	return nil
}

// ResetPassword completes a reset: re-verify the token, re-resolve the user
// by the embedded email (the account may have vanished since issuance), and
// overwrite the stored hash in one atomic update.
//
// The token is NOT invalidated on success - it stays stateless and remains
// technically valid until its hour runs out.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apperror.ValidationFailed("password", "Password is required.")
	}

	email, err := s.resetTokens.Verify(token)
	if err != nil {
		return err
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.UnknownEmail()
		}
		return apperror.Storage(err)
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}

	if err := s.users.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.UnknownEmail()
		}
		return apperror.Storage(err)
	}

	s.logger.Info("password reset completed", slog.String("userID", user.ID))
	return nil
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

// UpdateProfile applies a profile update for the acting user. Identity has
// already been enforced by the gate; the actor can only ever edit their own
// profile because the actor IS the target.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *model.User, update ProfileUpdate) (*model.User, error) {
	updated := *actor
	updated.FirstName = update.FirstName
	updated.LastName = update.LastName
	updated.Bio = update.Bio
	updated.AvatarURL = update.AvatarURL

	if err := s.users.UpdateUserProfile(ctx, &updated); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Storage(err)
	}
	return &updated, nil
}
