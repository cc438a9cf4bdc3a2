package store

import (
	"context"

	"tasktracker/internal/models"
)

// Store defines the persistence contract for task records.
//
// GetTask returns (nil, nil) when no record exists: absence is an expected
// result, not an error. UpdateTask is gated by optimistic concurrency and
// returns models.ErrNotFound or *models.ConflictError as classified
// outcomes. DeleteTask is unconditional and idempotent; the existence check
// belongs to the service layer above.
type Store interface {
	CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.ListFilter) ([]models.Task, int, error)
	UpdateTask(ctx context.Context, id string, input models.UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	TaskExists(ctx context.Context, id string) (bool, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
