package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/byteserenity/blog/internal/apperror"
	"github.com/byteserenity/blog/internal/model"
	"github.com/byteserenity/blog/internal/repository"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// CreateSession persists a fresh token → user binding. The token is
// generated by the service (a random UUID); this layer just stores it.
func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session for user %s: %w", session.UserID, err)
	}
	return nil
}

// GetSessionUser resolves a session token to its user in one joined read.
// This is the per-request identity lookup, so it stays a single query.
// Expired sessions are filtered out here rather than deleted - cleanup is
// DeleteExpiredSessions' job.
func (db *DB) GetSessionUser(ctx context.Context, token string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
		        u.bio, u.avatar_url, u.created_at, u.updated_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now(),
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("session", token)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: resolving session: %w", err)
	}
	return &u, nil
}

// DeleteSession removes a session binding. Deleting an absent token is a
// no-op, which makes logout idempotent under double-submit.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions prunes rows past their expiry and reports how many
// were removed.
func (db *DB) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting deleted sessions: %w", err)
	}
	return n, nil
}
