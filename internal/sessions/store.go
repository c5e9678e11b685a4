// Package sessions persists conversation identities so a later run can
// resume where the previous one stopped.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id              TEXT PRIMARY KEY,
	project         TEXT NOT NULL UNIQUE,
	conversation_id TEXT NOT NULL,
	participant_id  TEXT NOT NULL,
	updated_at      INTEGER NOT NULL
)`

type Session struct {
	ID             string
	Project        string
	ConversationID string
	ParticipantID  string
	UpdatedAt      time.Time
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the identity for the session's project, replacing any
// previous one.
func (s *Store) Save(ctx context.Context, session Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project, conversation_id, participant_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			participant_id = excluded.participant_id,
			updated_at = excluded.updated_at`,
		session.ID, session.Project, session.ConversationID, session.ParticipantID, session.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored session of project, or nil if there is none.
func (s *Store) Load(ctx context.Context, project string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project, conversation_id, participant_id, updated_at FROM sessions WHERE project = ?`, project)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *Store) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, conversation_id, participant_id, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return sessions, nil
}

// Forget deletes the stored session of project.
func (s *Store) Forget(ctx context.Context, project string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE project = ?`, project); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var session Session
	var updatedAt int64
	if err := row.Scan(&session.ID, &session.Project, &session.ConversationID, &session.ParticipantID, &updatedAt); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.UnixMilli(updatedAt)
	return &session, nil
}
