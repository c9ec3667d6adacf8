package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// BeginRun records the start of a lint run.
func (s *SQLiteStore) BeginRun() (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        generateID(),
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("beginning run", slog.String("id", run.ID))

	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// CompleteRun records the end of a run with its aggregate counts.
func (s *SQLiteStore) CompleteRun(id string, summary RunSummary) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()

	result, err := s.db.Exec(
		`UPDATE runs
		 SET completed_at = ?, files_analyzed = ?, total_issues = ?,
		     errors = ?, warnings = ?, info = ?, hints = ?
		 WHERE id = ?`,
		now, summary.FilesAnalyzed, summary.TotalIssues,
		summary.Errors, summary.Warnings, summary.Info, summary.Hints, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, started_at, completed_at, files_analyzed, total_issues,
		        errors, warnings, info, hints
		 FROM runs WHERE id = ?`,
		id,
	)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, completed_at, files_analyzed, total_issues,
		        errors, warnings, info, hints
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID, &run.StartedAt, &completedAt,
		&run.FilesAnalyzed, &run.TotalIssues,
		&run.Errors, &run.Warnings, &run.Info, &run.Hints,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return run, nil
}
