package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/byteserenity/blog/internal/apperror"
	"github.com/byteserenity/blog/internal/model"
	"github.com/google/uuid"
)

// createTestSession binds a fresh token to the user with the given expiry.
func createTestSession(t *testing.T, db *DB, userID string, expiresAt time.Time) *model.Session {
	t.Helper()
	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := db.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}

// =========================================================================
// CreateSession / GetSessionUser TESTS
// =========================================================================

func TestGetSessionUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")
	session := createTestSession(t, db, user.ID, time.Now().Add(time.Hour))

	got, err := db.GetSessionUser(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("GetSessionUser() error = %v", err)
	}
	if got.ID != user.ID || got.Username != "alice" {
		t.Errorf("GetSessionUser() = %+v, want alice", got)
	}
}

func TestGetSessionUser_UnknownToken(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.GetSessionUser(context.Background(), uuid.NewString()); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSessionUser(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestGetSessionUser_Expired(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")
	session := createTestSession(t, db, user.ID, time.Now().Add(-time.Minute))

	// The row still exists but the expiry filter must hide it.
	if _, err := db.GetSessionUser(context.Background(), session.Token); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSessionUser(expired) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DeleteSession TESTS
// =========================================================================

func TestDeleteSession(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")
	session := createTestSession(t, db, user.ID, time.Now().Add(time.Hour))

	if err := db.DeleteSession(context.Background(), session.Token); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := db.GetSessionUser(context.Background(), session.Token); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("session still resolvable after delete: %v", err)
	}

	// Deleting again is a no-op.
	if err := db.DeleteSession(context.Background(), session.Token); err != nil {
		t.Errorf("DeleteSession(absent) error = %v, want nil", err)
	}
}

// =========================================================================
// DeleteExpiredSessions TESTS
// =========================================================================

func TestDeleteExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	live := createTestSession(t, db, user.ID, time.Now().Add(time.Hour))
	createTestSession(t, db, user.ID, time.Now().Add(-time.Hour))
	createTestSession(t, db, user.ID, time.Now().Add(-time.Minute))

	n, err := db.DeleteExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteExpiredSessions() = %d, want 2", n)
	}

	// The live session must survive the sweep.
	if _, err := db.GetSessionUser(context.Background(), live.Token); err != nil {
		t.Errorf("live session removed by sweep: %v", err)
	}
}
