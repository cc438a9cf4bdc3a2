package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tasktracker/internal/models"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20 // 1MB

// parseTaskID extracts and validates the task id URL parameter.
func parseTaskID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", &models.ValidationError{Fields: map[string]string{"id": "id must be a valid uuid"}}
	}
	return id, nil
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var input models.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondBadRequest(w, r, "invalid JSON body")
		return
	}

	task, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+task.ID)
	respondJSON(w, http.StatusCreated, task)
}

// GetTask handles GET /api/tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// ListTasks handles GET /api/tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	tasks, total, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.TaskPage{
		Data:       tasks,
		Pagination: models.NewPagination(filter.Page, filter.PageSize, total),
	})
}

// UpdateTask handles PUT /api/tasks/{id}. The body is a partial update and
// must carry the version the caller last observed.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var input models.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondBadRequest(w, r, "invalid JSON body")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), id, input)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		respondProblem(w, r, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		respondProblem(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
