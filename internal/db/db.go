// Package db persists assessment reports and attempt history in sqlite,
// implementing the engine's Repository interface.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"storygrade/internal/engine"
	"storygrade/internal/progress"
	"storygrade/internal/rubric"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS attempts (
    id INTEGER PRIMARY KEY,
    subject_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    overall_score INTEGER NOT NULL,
    category_scores TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_subject ON attempts(subject_id, created_at);

CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    report TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_subject ON reports(subject_id, created_at);
`

// Store is a sqlite-backed engine.Repository.
type Store struct {
	conn *sql.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// GetPreviousAttempts returns the subject's attempts ordered oldest first.
func (s *Store) GetPreviousAttempts(ctx context.Context, subjectID string) ([]progress.HistoryEntry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT created_at, overall_score, category_scores FROM attempts WHERE subject_id = ? ORDER BY created_at ASC`,
		subjectID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var entries []progress.HistoryEntry
	for rows.Next() {
		var (
			createdAt string
			overall   int
			rawScores string
		)
		if err := rows.Scan(&createdAt, &overall, &rawScores); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		date, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse attempt date %q: %w", createdAt, err)
		}
		scores := map[rubric.Category]int{}
		if err := json.Unmarshal([]byte(rawScores), &scores); err != nil {
			return nil, fmt.Errorf("decode attempt scores: %w", err)
		}
		entries = append(entries, progress.HistoryEntry{
			Date:           date,
			OverallScore:   overall,
			CategoryScores: scores,
		})
	}
	return entries, rows.Err()
}

// SaveReport stores the full report and records a compact attempt row so the
// next assessment can compute progress against it.
func (s *Store) SaveReport(ctx context.Context, subjectID string, report engine.AssessmentReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	scores := map[rubric.Category]int{}
	for cat, cs := range report.CategoryScores {
		scores[cat] = cs.Score
	}
	rawScores, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	createdAt := report.CreatedAt.UTC().Format(time.RFC3339)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reports(id, subject_id, created_at, report) VALUES(?,?,?,?)`,
		report.ID, subjectID, createdAt, string(raw)); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attempts(subject_id, created_at, overall_score, category_scores) VALUES(?,?,?,?)`,
		subjectID, createdAt, report.OverallScore, string(rawScores)); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
