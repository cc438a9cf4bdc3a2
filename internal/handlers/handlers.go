package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tasktracker/internal/models"
	"tasktracker/internal/service"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	service *service.TaskService
	auth    AuthConfig
	limiter *RateLimiter
}

// New creates a new Handlers instance.
func New(svc *service.TaskService, auth AuthConfig) *Handlers {
	return &Handlers{
		service: svc,
		auth:    auth,
		limiter: NewRateLimiter(10, time.Minute),
	}
}

// problem is the uniform error body for every non-2xx response.
// CurrentVersion is only set on version conflicts.
type problem struct {
	Type           string            `json:"type"`
	Title          string            `json:"title"`
	Status         int               `json:"status"`
	Detail         string            `json:"detail,omitempty"`
	Instance       string            `json:"instance,omitempty"`
	Errors         map[string]string `json:"errors,omitempty"`
	CurrentVersion int64             `json:"currentVersion,omitempty"`
}

func writeProblem(w http.ResponseWriter, r *http.Request, p problem) {
	p.Instance = r.URL.Path
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}

func respondValidation(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	writeProblem(w, r, problem{
		Type:   "/problems/validation-error",
		Title:  "Validation failed",
		Status: http.StatusBadRequest,
		Errors: fields,
	})
}

func respondBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, problem{
		Type:   "/problems/bad-request",
		Title:  "Bad request",
		Status: http.StatusBadRequest,
		Detail: detail,
	})
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, problem{
		Type:   "/problems/unauthorized",
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
	})
}

// respondProblem maps classified service errors to their status codes.
// Anything unclassified is an internal fault: logged with full context here,
// surfaced to the caller as an opaque 500.
func respondProblem(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	var ce *models.ConflictError

	switch {
	case errors.As(err, &ve):
		respondValidation(w, r, ve.Fields)
	case errors.Is(err, models.ErrNotFound):
		writeProblem(w, r, problem{
			Type:   "/problems/not-found",
			Title:  "Task not found",
			Status: http.StatusNotFound,
		})
	case errors.As(err, &ce):
		writeProblem(w, r, problem{
			Type:           "/problems/conflict",
			Title:          "Version conflict",
			Status:         http.StatusConflict,
			Detail:         ce.Error(),
			CurrentVersion: ce.CurrentVersion,
		})
	default:
		log.Printf("internal server error: %s %s: %v", r.Method, r.URL.Path, err)
		writeProblem(w, r, problem{
			Type:   "/problems/internal-error",
			Title:  "Internal server error",
			Status: http.StatusInternalServerError,
		})
	}
}

func respondJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// parseListFilter builds a ListFilter from query parameters, applying the
// documented defaults. Bounds are checked later by ListFilter.Validate.
func parseListFilter(r *http.Request) (models.ListFilter, error) {
	q := r.URL.Query()
	filter := models.ListFilter{
		Page:     1,
		PageSize: models.DefaultPageSize,
	}

	if v := q.Get("status"); v != "" {
		status := models.TaskStatus(v)
		filter.Status = &status
	}
	if v := q.Get("tag"); v != "" {
		tag := v
		filter.Tag = &tag
	}
	if v := q.Get("search"); v != "" {
		search := v
		filter.Search = &search
	}
	filter.SortBy = models.SortKey(q.Get("sortBy"))
	filter.SortOrder = models.SortOrder(q.Get("sortOrder"))

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, &models.ValidationError{Fields: map[string]string{"page": "page must be an integer"}}
		}
		filter.Page = page
	}
	if v := q.Get("pageSize"); v != "" {
		pageSize, err := strconv.Atoi(v)
		if err != nil {
			return filter, &models.ValidationError{Fields: map[string]string{"pageSize": "pageSize must be an integer"}}
		}
		filter.PageSize = pageSize
	}

	return filter, nil
}

// Health reports whether the service can reach its storage.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		log.Printf("health check failed: %v", err)
		writeProblem(w, r, problem{
			Type:   "/problems/unavailable",
			Title:  "Service unavailable",
			Status: http.StatusServiceUnavailable,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
