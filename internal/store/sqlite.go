package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tasktracker/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
//
// The version-checked update is a single conditional UPDATE guarded by a
// version-equality predicate, so the check-then-set sequence is atomic with
// respect to concurrent writers without any lock held in this process.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and applies any
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateTask inserts a new task with a fresh id, version 1, and defaults for
// absent optional fields.
func (s *SQLiteStore) CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Status:    models.StatusTodo,
		Priority:  models.DefaultPriority,
		DueDate:   input.DueDate,
		Tags:      []string{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, status, priority, due_date, tags, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Title, task.Status, task.Priority, task.DueDate, string(tags), task.Version, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask retrieves a task by id. A missing id yields (nil, nil): absence is
// an expected result, not an error.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, status, priority, due_date, tags, version, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// TaskExists reports whether a task with the given id currently exists.
func (s *SQLiteStore) TaskExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", err)
	}
	return true, nil
}

// ListTasks returns the page of tasks matching the filter, in the requested
// order, plus the total match count before pagination.
func (s *SQLiteStore) ListTasks(ctx context.Context, filter models.ListFilter) ([]models.Task, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var conds []string
	var args []interface{}

	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Tag != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(tasks.tags) WHERE json_each.value = ?)")
		args = append(args, *filter.Tag)
	}
	if filter.Search != nil {
		conds = append(conds, "instr(lower(title), lower(?)) > 0")
		args = append(args, *filter.Search)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	// Ties always break on (created_at, id) so repeated identical queries
	// against unchanged data return the same order.
	orderBy := "created_at ASC, id ASC"
	if filter.SortBy != "" {
		dir := "ASC"
		if filter.SortOrder == models.SortDesc {
			dir = "DESC"
		}
		switch filter.SortBy {
		case models.SortByPriority:
			orderBy = "priority " + dir + ", created_at ASC, id ASC"
		case models.SortByDueDate:
			// Null due dates sort last regardless of direction.
			orderBy = "(due_date IS NULL) ASC, due_date " + dir + ", created_at ASC, id ASC"
		}
	}

	query := `
		SELECT id, title, status, priority, due_date, tags, version, created_at, updated_at
		FROM tasks` + where + ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateTask applies a partial, version-checked update. The write is a single
// UPDATE guarded by "version = ?"; zero affected rows means the row is either
// gone (ErrNotFound) or at a different version (ConflictError carrying the
// authoritative version from a follow-up read).
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, input models.UpdateTaskInput) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sets := []string{"version = version + 1", "updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *input.Status)
	}
	if input.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *input.Priority)
	}
	if input.DueDate.Set {
		sets = append(sets, "due_date = ?")
		if input.DueDate.Valid {
			args = append(args, input.DueDate.Value)
		} else {
			args = append(args, nil)
		}
	}
	if input.Tags != nil {
		tags, err := json.Marshal(*input.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(tags))
	}

	args = append(args, id, *input.Version)
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND version = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if affected == 0 {
		current, err := s.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, models.ErrNotFound
		}
		return nil, &models.ConflictError{CurrentVersion: current.Version}
	}

	updated, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Deleted between the write and the read-back.
		return nil, models.ErrNotFound
	}

	return updated, nil
}

// DeleteTask removes a task unconditionally. Deleting a missing id is a
// no-op; the service layer owns the existence check.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var dueDate sql.NullTime
	var tags string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Status,
		&task.Priority,
		&dueDate,
		&tags,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		t := dueDate.Time.UTC()
		task.DueDate = &t
	}
	if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return task, nil
}
