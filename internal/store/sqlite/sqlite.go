package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/floorcast/floorcast-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS roleplay_sessions (
	id            TEXT PRIMARY KEY,
	user_id       INTEGER NOT NULL,
	scenario_id   TEXT NOT NULL,
	difficulty    TEXT NOT NULL,
	transcript    TEXT NOT NULL DEFAULT '[]',
	mistake_count INTEGER NOT NULL DEFAULT 0,
	door_slammed  BOOLEAN NOT NULL DEFAULT 0,
	score         INTEGER NOT NULL DEFAULT 0,
	xp_earned     INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at    DATETIME NOT NULL,
	completed_at  DATETIME
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON roleplay_sessions(user_id, created_at);

CREATE TABLE IF NOT EXISTS progression (
	user_id    INTEGER PRIMARY KEY,
	total_xp   INTEGER NOT NULL DEFAULT 0,
	level      INTEGER NOT NULL DEFAULT 1,
	streak     INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL
);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function before
// the schema is applied. Useful for tests seeding fixtures.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== SessionStore implementation ====

// CreateSession persists a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *store.Session) error {
	transcript, err := json.Marshal(sess.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	query := `
		INSERT INTO roleplay_sessions
			(id, user_id, scenario_id, difficulty, transcript, mistake_count,
			 door_slammed, score, xp_earned, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		sess.ID, sess.UserID, sess.ScenarioID, sess.Difficulty, string(transcript),
		sess.MistakeCount, sess.DoorSlammed, sess.Score, sess.XPEarned,
		string(sess.Status), sess.CreatedAt, sess.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	query := `
		SELECT id, user_id, scenario_id, difficulty, transcript, mistake_count,
		       door_slammed, score, xp_earned, status, created_at, completed_at
		FROM roleplay_sessions
		WHERE id = ?
	`
	return scanSession(s.db.QueryRowContext(ctx, query, id))
}

// UpdateSession overwrites the stored state for the session.
func (s *SQLiteStore) UpdateSession(ctx context.Context, sess *store.Session) error {
	transcript, err := json.Marshal(sess.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	query := `
		UPDATE roleplay_sessions
		SET transcript = ?, mistake_count = ?, door_slammed = ?, score = ?,
		    xp_earned = ?, status = ?, completed_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		string(transcript), sess.MistakeCount, sess.DoorSlammed, sess.Score,
		sess.XPEarned, string(sess.Status), sess.CompletedAt, sess.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListSessionsByUser returns the user's sessions, newest first.
func (s *SQLiteStore) ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]*store.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, user_id, scenario_id, difficulty, transcript, mistake_count,
		       door_slammed, score, xp_earned, status, created_at, completed_at
		FROM roleplay_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []*store.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*store.Session, error) {
	var (
		sess       store.Session
		transcript string
		status     string
	)
	err := row.Scan(&sess.ID, &sess.UserID, &sess.ScenarioID, &sess.Difficulty,
		&transcript, &sess.MistakeCount, &sess.DoorSlammed, &sess.Score,
		&sess.XPEarned, &status, &sess.CreatedAt, &sess.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal([]byte(transcript), &sess.Transcript); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	sess.Status = store.SessionStatus(status)
	return &sess, nil
}

// ==== ProgressStore implementation ====

// GetProgress retrieves a user's progression record.
func (s *SQLiteStore) GetProgress(ctx context.Context, userID int64) (*store.Progress, error) {
	query := `
		SELECT user_id, total_xp, level, streak, updated_at
		FROM progression
		WHERE user_id = ?
	`
	var p store.Progress
	err := s.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.TotalXP, &p.Level, &p.Streak, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	return &p, nil
}

// UpsertProgress creates or overwrites the user's progression record.
func (s *SQLiteStore) UpsertProgress(ctx context.Context, p *store.Progress) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO progression (user_id, total_xp, level, streak, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			level = excluded.level,
			streak = excluded.streak,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, p.UserID, p.TotalXP, p.Level, p.Streak, p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}
