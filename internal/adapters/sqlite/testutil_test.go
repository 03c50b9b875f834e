// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/taskboard/internal/db"
)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is pinned to one connection so every query sees the same memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, db *sql.DB, id, displayName string) string {
	t.Helper()
	if id == "" {
		id = "user-1"
	}
	if displayName == "" {
		displayName = "Test User"
	}
	_, err := db.Exec("INSERT INTO users (id, username, display_name, created_at) VALUES (?, ?, ?, ?)",
		id, id, displayName, seedTime)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedBoard inserts a user, a workspace and a board, and returns the board ID.
func seedBoard(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "board-1"
	}
	seedUser(t, db, "owner-"+id, "Owner")
	_, err := db.Exec("INSERT INTO workspaces (id, name, slug, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		"ws-"+id, "Workspace", "ws-"+id, "owner-"+id, seedTime)
	if err != nil {
		t.Fatalf("failed to seed workspace: %v", err)
	}
	_, err = db.Exec("INSERT INTO boards (id, workspace_id, name, key, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, "ws-"+id, "Board", "KEY", "owner-"+id, seedTime)
	if err != nil {
		t.Fatalf("failed to seed board: %v", err)
	}
	return id
}

// seedState inserts a state on a board and returns its ID.
func seedState(t *testing.T, db *sql.DB, id, boardID, category string, sequence float64) string {
	t.Helper()
	if category == "" {
		category = "open"
	}
	_, err := db.Exec("INSERT INTO states (id, board_id, name, category, sequence, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, boardID, id, category, sequence, seedTime)
	if err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}
	return id
}

// seedTask inserts a task in a state and returns its ID.
func seedTask(t *testing.T, db *sql.DB, id, boardID, stateID string, number int, sequence float64) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO tasks (id, board_id, state_id, task_type, number, name, summary, sequence, created_by, created_at, updated_at)
		VALUES (?, ?, ?, 'task', ?, ?, ?, ?, ?, ?, ?)`,
		id, boardID, stateID, number, id, "Summary of "+id, sequence, "owner-"+boardID, seedTime, seedTime)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// seedSprint inserts a sprint on a board and returns its ID.
func seedSprint(t *testing.T, db *sql.DB, id, boardID string, active bool, createdAt time.Time) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO sprints (id, board_id, name, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, '2024-03-01', '2024-03-14', ?, ?)`,
		id, boardID, id, active, createdAt)
	if err != nil {
		t.Fatalf("failed to seed sprint: %v", err)
	}
	return id
}
