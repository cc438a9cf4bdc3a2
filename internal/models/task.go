package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus is the closed set of workflow states a task can be in.
type TaskStatus string

const (
	StatusTodo  TaskStatus = "todo"
	StatusDoing TaskStatus = "doing"
	StatusDone  TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

const (
	MaxTitleLength  = 120
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// Task represents a single tracked task.
//
// Version starts at 1 and increases by exactly 1 on every successful update;
// it is the concurrency token for optimistic locking. Timestamps are owned by
// the store, never by callers.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	Priority  int        `json:"priority"`
	DueDate   *time.Time `json:"dueDate"`
	Tags      []string   `json:"tags"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Validate checks that the task holds a storable state.
func (t *Task) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = "title is required"
	} else if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		fields["title"] = "title must be 120 characters or fewer"
	}
	if !t.Status.Valid() {
		fields["status"] = "status must be 'todo', 'doing', or 'done'"
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		fields["priority"] = "priority must be between 1 and 5"
	}
	if t.Version < 1 {
		fields["version"] = "version must be a positive integer"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateTaskInput carries the caller-supplied fields for a new task.
// Absent optional fields take the documented defaults: status "todo",
// priority 3, no due date, empty tags.
type CreateTaskInput struct {
	Title    string      `json:"title"`
	Status   *TaskStatus `json:"status"`
	Priority *int        `json:"priority"`
	DueDate  *time.Time  `json:"dueDate"`
	Tags     []string    `json:"tags"`
}

// Validate checks the input before defaults are applied.
func (in *CreateTaskInput) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	} else if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		fields["title"] = "title must be 120 characters or fewer"
	}
	if in.Status != nil && !in.Status.Valid() {
		fields["status"] = "status must be 'todo', 'doing', or 'done'"
	}
	if in.Priority != nil && (*in.Priority < MinPriority || *in.Priority > MaxPriority) {
		fields["priority"] = "priority must be between 1 and 5"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// UpdateTaskInput is a partial update. Nil pointer fields keep their stored
// value. DueDate is tri-state because the field is nullable: an absent key
// keeps the value, an explicit null clears it. Version is the version the
// caller last observed and is mandatory.
type UpdateTaskInput struct {
	Title    *string             `json:"title"`
	Status   *TaskStatus         `json:"status"`
	Priority *int                `json:"priority"`
	DueDate  Optional[time.Time] `json:"dueDate"`
	Tags     *[]string           `json:"tags"`
	Version  *int64              `json:"version"`
}

// Validate checks every supplied field and the mandatory version.
func (in *UpdateTaskInput) Validate() error {
	fields := make(map[string]string)

	if in.Version == nil {
		fields["version"] = "version is required"
	} else if *in.Version < 1 {
		fields["version"] = "version must be a positive integer"
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			fields["title"] = "title cannot be empty"
		} else if utf8.RuneCountInString(*in.Title) > MaxTitleLength {
			fields["title"] = "title must be 120 characters or fewer"
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		fields["status"] = "status must be 'todo', 'doing', or 'done'"
	}
	if in.Priority != nil && (*in.Priority < MinPriority || *in.Priority > MaxPriority) {
		fields["priority"] = "priority must be between 1 and 5"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Optional distinguishes a JSON field that was absent from one explicitly set
// to null. Set is true whenever the key appeared in the document; Valid is
// true only when it carried a non-null value.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked when the key is present, so Set is
// unconditional here.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
