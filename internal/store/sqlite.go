package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/kaneo-sync/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database lives per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// CreateTask inserts a task. Task CRUD belongs to the task-management
// subsystem; this exists for the CLI and tests.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) error {
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = model.StatusToDo
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO tasks (
			id, project_id, title, description, status, priority,
			assignee, created_at, updated_at
		) VALUES (
			:id, :project_id, :title, :description, :status, :priority,
			:assignee, :created_at, :updated_at
		)`, task)
	if err != nil {
		return fmt.Errorf("creating task %s: %w", task.ID, err)
	}
	return nil
}

// GetTaskByID retrieves a single task by its ID.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task, `
		SELECT id, project_id, title, description, status, priority,
			assignee, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &task, nil
}

// UpdateTaskDescription rewrites a task's description.
func (s *SQLiteStore) UpdateTaskDescription(
	ctx context.Context,
	id string,
	description string,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET description = ?, updated_at = ? WHERE id = ?",
		description, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating description of task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
