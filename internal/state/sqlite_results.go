package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// CachedResult returns the stored result for a file, or nil on a cache miss.
func (s *SQLiteStore) CachedResult(path, contentHash, rulesHash string) (*FileResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	res := &FileResult{Path: path, ContentHash: contentHash, RulesHash: rulesHash}
	var diagJSON string

	err := s.db.QueryRow(
		`SELECT diagnostics, linted_at FROM file_results
		 WHERE path = ? AND content_hash = ? AND rules_hash = ?`,
		path, contentHash, rulesHash,
	).Scan(&diagJSON, &res.LintedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Cache miss, not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	if err := json.Unmarshal([]byte(diagJSON), &res.Diagnostics); err != nil {
		// A row we cannot decode is useless; treat it as a miss and let
		// the caller overwrite it.
		s.logger.Warn("dropping undecodable cached result",
			slog.String("path", path), slog.String("error", err.Error()))
		return nil, nil
	}

	return res, nil
}

// SaveResult stores or replaces the result for a file. Older rows for the
// same path with different hashes stay behind until PruneResults runs.
func (s *SQLiteStore) SaveResult(res *FileResult) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	diagJSON, err := json.Marshal(res.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	lintedAt := res.LintedAt
	if lintedAt.IsZero() {
		lintedAt = time.Now().UTC()
	}

	_, err = s.db.Exec(
		`INSERT INTO file_results (path, content_hash, rules_hash, diagnostics, linted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path, content_hash, rules_hash)
		 DO UPDATE SET diagnostics = excluded.diagnostics, linted_at = excluded.linted_at`,
		res.Path, res.ContentHash, res.RulesHash, string(diagJSON), lintedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// DeleteResults drops all cached results for a path.
func (s *SQLiteStore) DeleteResults(path string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if _, err := s.db.Exec(`DELETE FROM file_results WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	return nil
}

// PruneResults drops cached results older than the cutoff and returns the
// number of rows removed.
func (s *SQLiteStore) PruneResults(olderThan time.Time) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`DELETE FROM file_results WHERE linted_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune results: %w", err)
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		s.logger.Debug("pruned cached results", slog.Int64("removed", removed))
	}
	return removed, nil
}

// CachedDiagnostics is a convenience wrapper that returns only the
// diagnostics from a cache hit, with ok reporting whether there was one.
func (s *SQLiteStore) CachedDiagnostics(path, contentHash, rulesHash string) ([]lint.Diagnostic, bool, error) {
	res, err := s.CachedResult(path, contentHash, rulesHash)
	if err != nil || res == nil {
		return nil, false, err
	}
	return res.Diagnostics, true, nil
}
