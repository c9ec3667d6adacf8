package state

import (
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// setupMockStore wires a store to a sqlmock connection so driver-level
// failures can be simulated.
func setupMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewSQLiteStore(nil)
	store.db = db
	return store, mock
}

func TestSQLiteStore_BeginRun_InsertError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec("INSERT INTO runs").WillReturnError(fmt.Errorf("disk I/O error"))

	_, err := store.BeginRun()
	if err == nil || !strings.Contains(err.Error(), "failed to create run") {
		t.Errorf("expected wrapped insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLiteStore_CachedResult_QueryError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT diagnostics").WillReturnError(fmt.Errorf("database is locked"))

	_, err := store.CachedResult("a.inp", "h", "r")
	if err == nil || !strings.Contains(err.Error(), "failed to get cached result") {
		t.Errorf("expected wrapped query error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLiteStore_SaveResult_ExecError(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec("INSERT INTO file_results").WillReturnError(fmt.Errorf("disk full"))

	err := store.SaveResult(&FileResult{Path: "a.inp", ContentHash: "h", RulesHash: "r"})
	if err == nil || !strings.Contains(err.Error(), "failed to save result") {
		t.Errorf("expected wrapped exec error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLiteStore_RecentRuns_ScanError(t *testing.T) {
	store, mock := setupMockStore(t)

	// A row with the wrong shape forces a scan failure.
	rows := sqlmock.NewRows([]string{"id"}).AddRow("only-one-column")
	mock.ExpectQuery("SELECT id, started_at").WillReturnRows(rows)

	_, err := store.RecentRuns(5)
	if err == nil || !strings.Contains(err.Error(), "failed to scan run") {
		t.Errorf("expected scan error, got %v", err)
	}
}
