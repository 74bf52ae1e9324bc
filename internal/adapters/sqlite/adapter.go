// Package sqlite provides a SQLite-backed implementation of the session
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

// Adapter implements the session repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.SessionRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Save inserts one scored session summary.
func (a *Adapter) Save(ctx context.Context, s domain.PracticeSession) error {
	query := `
		INSERT INTO practice_sessions (
			id, recorded_at, duration_seconds,
			tone, fluency, clarity, confidence, overall,
			dominant_emotion, segment_count, energy
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var energy sql.NullFloat64
	if s.Energy != nil {
		energy = sql.NullFloat64{Float64: *s.Energy, Valid: true}
	}
	if _, err := a.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.RecordedAt,
		s.DurationSeconds,
		s.Scores.Tone,
		s.Scores.Fluency,
		s.Scores.Clarity,
		s.Scores.Confidence,
		s.Overall,
		s.DominantEmotion,
		s.SegmentCount,
		energy,
	); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

// ListRecent returns the newest sessions, most recent first.
func (a *Adapter) ListRecent(ctx context.Context, limit int) ([]domain.PracticeSession, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, recorded_at, duration_seconds,
			tone, fluency, clarity, confidence, overall,
			dominant_emotion, segment_count, energy
		FROM practice_sessions
		ORDER BY recorded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.PracticeSession{}
	for rows.Next() {
		var s domain.PracticeSession
		var energy sql.NullFloat64
		if err := rows.Scan(
			&s.ID,
			&s.RecordedAt,
			&s.DurationSeconds,
			&s.Scores.Tone,
			&s.Scores.Fluency,
			&s.Scores.Clarity,
			&s.Scores.Confidence,
			&s.Overall,
			&s.DominantEmotion,
			&s.SegmentCount,
			&energy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if energy.Valid {
			v := energy.Float64
			s.Energy = &v
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// Stats aggregates all stored sessions for the dashboard. Improvement is the
// average of the latest five sessions minus the all-time average.
func (a *Adapter) Stats(ctx context.Context) (ports.SessionStats, error) {
	var stats ports.SessionStats
	err := a.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(overall), 0), COALESCE(SUM(duration_seconds), 0)
		FROM practice_sessions
	`).Scan(&stats.TotalSessions, &stats.AverageScore, &stats.PracticeSeconds)
	if err != nil {
		return ports.SessionStats{}, fmt.Errorf("failed to load session stats: %w", err)
	}

	if stats.TotalSessions == 0 {
		return stats, nil
	}

	var recentAvg float64
	err = a.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(overall), 0) FROM (
			SELECT overall FROM practice_sessions
			ORDER BY recorded_at DESC
			LIMIT 5
		)
	`).Scan(&recentAvg)
	if err != nil {
		return ports.SessionStats{}, fmt.Errorf("failed to load recent session average: %w", err)
	}
	stats.Improvement = recentAvg - stats.AverageScore

	return stats, nil
}

// UpdateSessionEnergy backfills the asynchronously computed energy level.
func (a *Adapter) UpdateSessionEnergy(ctx context.Context, id string, energy float64) error {
	if _, err := a.db.ExecContext(
		ctx,
		"UPDATE practice_sessions SET energy = ? WHERE id = ?",
		energy,
		id,
	); err != nil {
		return fmt.Errorf("failed to update session energy: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS practice_sessions (
		id TEXT PRIMARY KEY,
		recorded_at DATETIME NOT NULL,
		duration_seconds REAL NOT NULL DEFAULT 0,
		tone REAL NOT NULL,
		fluency REAL NOT NULL,
		clarity REAL NOT NULL,
		confidence REAL NOT NULL,
		overall REAL NOT NULL,
		dominant_emotion TEXT,
		segment_count INTEGER NOT NULL DEFAULT 0,
		energy REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_recorded_at
		ON practice_sessions(recorded_at DESC);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	return nil
}
