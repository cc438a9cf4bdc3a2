// Package service sits between the HTTP boundary and the store. It owns the
// existence semantics the store deliberately leaves out: a read of a missing
// id and a delete of a missing id both surface models.ErrNotFound here.
package service

import (
	"context"

	"tasktracker/internal/models"
	"tasktracker/internal/store"
)

// TaskService exposes task operations with classified outcomes
// (models.ErrNotFound, *models.ConflictError, *models.ValidationError).
type TaskService struct {
	store store.Store
}

// New creates a TaskService backed by the given store.
func New(s store.Store) *TaskService {
	return &TaskService{store: s}
}

// CreateTask validates the input and inserts a new task.
func (s *TaskService) CreateTask(ctx context.Context, input models.CreateTaskInput) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateTask(ctx, input)
}

// GetTask returns the task or models.ErrNotFound.
func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, models.ErrNotFound
	}
	return task, nil
}

// ListTasks returns one page of matching tasks plus the total match count.
func (s *TaskService) ListTasks(ctx context.Context, filter models.ListFilter) ([]models.Task, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	return s.store.ListTasks(ctx, filter)
}

// UpdateTask applies a partial, version-checked update.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input models.UpdateTaskInput) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateTask(ctx, id, input)
}

// Ping reports whether the backing store is reachable.
func (s *TaskService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// DeleteTask removes the task, or returns models.ErrNotFound if it does not
// exist. The store-level delete stays an idempotent no-op for missing ids;
// only this layer turns absence into an error.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	exists, err := s.store.TaskExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrNotFound
	}
	return s.store.DeleteTask(ctx, id)
}
