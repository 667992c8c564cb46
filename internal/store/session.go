package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Stop reasons recorded for a finished session.
const (
	StopReasonUser    = "user"
	StopReasonInvalid = "invalid_detect"
	StopReasonFrame   = "frame_too_small"
	StopReasonExit    = "shutdown"
)

// Counters are the per-session frame and action totals.
type Counters struct {
	Frames   int `json:"frames"`
	Presses  int `json:"presses"`
	Moves    int `json:"moves"`
	Releases int `json:"releases"`
}

// Session represents one detection session stored in the database.
type Session struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	StoppedAt  *time.Time      `json:"stopped_at,omitempty"`
	StopReason string          `json:"stop_reason,omitempty"`
	Counters   Counters        `json:"counters"`
	Config     json.RawMessage `json:"config"`
}

// Active reports whether the session has not been stopped yet.
func (s *Session) Active() bool {
	return s.StoppedAt == nil
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(session *Session) error {
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}
	config := session.Config
	if len(config) == 0 {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, config) VALUES (?, ?, ?)`,
		session.ID, session.StartedAt, string(config),
	)
	return err
}

// Finish marks a session as stopped and stores its final counters.
func (r *SessionRepository) Finish(id string, stoppedAt time.Time, reason string, c Counters) error {
	result, err := r.db.Exec(
		`UPDATE sessions
		 SET stopped_at = ?, stop_reason = ?, frames = ?, presses = ?, moves = ?, releases = ?
		 WHERE id = ?`,
		stoppedAt, reason, c.Frames, c.Presses, c.Moves, c.Releases, id,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, stopped_at, stop_reason, frames, presses, moves, releases, config
		 FROM sessions WHERE id = ?`,
		id,
	)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

// List returns the most recent sessions first, at most limit of them.
// A limit of zero or less returns all sessions.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	query := `SELECT id, started_at, stopped_at, stop_reason, frames, presses, moves, releases, config
		 FROM sessions ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// CloseDangling finishes sessions left open by a previous run that exited
// without stopping detection. It returns how many were closed.
func (r *SessionRepository) CloseDangling(now time.Time) (int, error) {
	result, err := r.db.Exec(
		`UPDATE sessions SET stopped_at = ?, stop_reason = ? WHERE stopped_at IS NULL`,
		now, StopReasonExit,
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (*Session, error) {
	var s Session
	var stoppedAt sql.NullTime
	var config string

	err := row.Scan(
		&s.ID, &s.StartedAt, &stoppedAt, &s.StopReason,
		&s.Counters.Frames, &s.Counters.Presses, &s.Counters.Moves, &s.Counters.Releases,
		&config,
	)
	if err != nil {
		return nil, err
	}

	if stoppedAt.Valid {
		t := stoppedAt.Time
		s.StoppedAt = &t
	}
	s.Config = json.RawMessage(config)
	return &s, nil
}
