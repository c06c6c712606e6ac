package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/learnroute/internal/db"
)

// Manager creates and tracks sessions in the database.
type Manager struct {
	db *db.DB
}

// NewManager creates a Manager backed by the given database.
func NewManager(database *db.DB) *Manager {
	return &Manager{db: database}
}

// Create registers a new session and returns its id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if _, err := m.db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// Touch records activity on id, creating the session row if needed.
func (m *Manager) Touch(ctx context.Context, id string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO sessions (id) VALUES (?)
		ON CONFLICT(id) DO UPDATE SET last_seen = datetime('now')`, id)
	if err != nil {
		return fmt.Errorf("touching session %s: %w", id, err)
	}
	return nil
}

// Exists reports whether id is a known session.
func (m *Manager) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("looking up session %s: %w", id, err)
	}
	return n > 0, nil
}

// DeleteIdleBefore removes sessions not seen since before, along with their
// state. Returns the number of deleted sessions.
func (m *Manager) DeleteIdleBefore(ctx context.Context, before time.Time) (int64, error) {
	cutoff := before.UTC().Format(time.DateTime)
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM session_state WHERE session_id IN (
			SELECT id FROM sessions WHERE last_seen < ?
		)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting idle session state: %w", err)
	}

	res, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting idle sessions: %w", err)
	}
	return res.RowsAffected()
}

// Store returns the Store scoped to session id.
func (m *Manager) Store(id string) *DBStore {
	return &DBStore{db: m.db, sessionID: id}
}

// DBStore is a Store scoped to one session in SQLite.
type DBStore struct {
	db        *db.DB
	sessionID string
}

// SessionID returns the session this store is scoped to.
func (s *DBStore) SessionID() string { return s.sessionID }

func (s *DBStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_state WHERE session_id = ? AND key = ?`,
		s.sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *DBStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id) VALUES (?)
		ON CONFLICT(id) DO UPDATE SET last_seen = datetime('now')`, s.sessionID)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_state (session_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		s.sessionID, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Clear removes every key of the session.
func (s *DBStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_state WHERE session_id = ?`, s.sessionID); err != nil {
		return fmt.Errorf("clearing session %s: %w", s.sessionID, err)
	}
	return nil
}
