package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound reports that no task with the requested id currently exists.
var ErrNotFound = errors.New("task not found")

// ConflictError reports a version mismatch on a version-checked update.
// CurrentVersion is the authoritative version at the time of the attempt;
// callers must re-read before retrying.
type ConflictError struct {
	CurrentVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict: current version is %d", e.CurrentVersion)
}

// ValidationError carries per-field validation messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}
