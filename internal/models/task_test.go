package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCreateTaskInputValidation(t *testing.T) {
	status := StatusDoing
	badStatus := TaskStatus("blocked")
	three := 3
	zero := 0
	six := 6

	tests := []struct {
		name      string
		input     CreateTaskInput
		wantErr   bool
		wantField string
	}{
		{
			name:      "empty title should fail",
			input:     CreateTaskInput{Title: ""},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "whitespace title should fail",
			input:     CreateTaskInput{Title: "   "},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "title over 120 characters should fail",
			input:     CreateTaskInput{Title: strings.Repeat("x", 121)},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:    "title of exactly 120 characters should pass",
			input:   CreateTaskInput{Title: strings.Repeat("x", 120)},
			wantErr: false,
		},
		{
			name:      "unknown status should fail",
			input:     CreateTaskInput{Title: "Test", Status: &badStatus},
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "priority below range should fail",
			input:     CreateTaskInput{Title: "Test", Priority: &zero},
			wantErr:   true,
			wantField: "priority",
		},
		{
			name:      "priority above range should fail",
			input:     CreateTaskInput{Title: "Test", Priority: &six},
			wantErr:   true,
			wantField: "priority",
		},
		{
			name:    "valid full input should pass",
			input:   CreateTaskInput{Title: "Test", Status: &status, Priority: &three, Tags: []string{"a", "a"}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error but got none")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, present := ve.Fields[tt.wantField]; !present {
				t.Errorf("expected field %q in %v", tt.wantField, ve.Fields)
			}
		})
	}
}

func TestUpdateTaskInputValidation(t *testing.T) {
	one := int64(1)
	zero := int64(0)
	emptyTitle := ""
	badStatus := TaskStatus("archived")

	tests := []struct {
		name      string
		input     UpdateTaskInput
		wantErr   bool
		wantField string
	}{
		{
			name:      "missing version should fail",
			input:     UpdateTaskInput{},
			wantErr:   true,
			wantField: "version",
		},
		{
			name:      "non-positive version should fail",
			input:     UpdateTaskInput{Version: &zero},
			wantErr:   true,
			wantField: "version",
		},
		{
			name:      "empty title should fail",
			input:     UpdateTaskInput{Version: &one, Title: &emptyTitle},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "unknown status should fail",
			input:     UpdateTaskInput{Version: &one, Status: &badStatus},
			wantErr:   true,
			wantField: "status",
		},
		{
			name:    "version-only update should pass",
			input:   UpdateTaskInput{Version: &one},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error but got none")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, present := ve.Fields[tt.wantField]; !present {
				t.Errorf("expected field %q in %v", tt.wantField, ve.Fields)
			}
		})
	}
}

func TestOptionalDueDate_TriState(t *testing.T) {
	var absent UpdateTaskInput
	if err := json.Unmarshal([]byte(`{"version": 1}`), &absent); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if absent.DueDate.Set {
		t.Error("absent dueDate should not be marked Set")
	}

	var null UpdateTaskInput
	if err := json.Unmarshal([]byte(`{"version": 1, "dueDate": null}`), &null); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !null.DueDate.Set || null.DueDate.Valid {
		t.Errorf("explicit null should be Set and not Valid, got Set=%v Valid=%v", null.DueDate.Set, null.DueDate.Valid)
	}

	var value UpdateTaskInput
	if err := json.Unmarshal([]byte(`{"version": 1, "dueDate": "2026-09-01T12:00:00Z"}`), &value); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !value.DueDate.Set || !value.DueDate.Valid {
		t.Errorf("value should be Set and Valid, got Set=%v Valid=%v", value.DueDate.Set, value.DueDate.Valid)
	}
	if value.DueDate.Value.Year() != 2026 {
		t.Errorf("unexpected parsed value: %v", value.DueDate.Value)
	}
}

func TestListFilterValidation(t *testing.T) {
	badStatus := TaskStatus("archived")

	tests := []struct {
		name      string
		filter    ListFilter
		wantField string
	}{
		{
			name:      "page zero should fail",
			filter:    ListFilter{Page: 0, PageSize: 20},
			wantField: "page",
		},
		{
			name:      "page size zero should fail",
			filter:    ListFilter{Page: 1, PageSize: 0},
			wantField: "pageSize",
		},
		{
			name:      "page size over 100 should fail",
			filter:    ListFilter{Page: 1, PageSize: 101},
			wantField: "pageSize",
		},
		{
			name:      "unknown sort key should fail",
			filter:    ListFilter{Page: 1, PageSize: 20, SortBy: "title"},
			wantField: "sortBy",
		},
		{
			name:      "unknown sort order should fail",
			filter:    ListFilter{Page: 1, PageSize: 20, SortBy: SortByPriority, SortOrder: "sideways"},
			wantField: "sortOrder",
		},
		{
			name:      "unknown status should fail",
			filter:    ListFilter{Page: 1, PageSize: 20, Status: &badStatus},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if err == nil {
				t.Fatal("expected error but got none")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, present := ve.Fields[tt.wantField]; !present {
				t.Errorf("expected field %q in %v", tt.wantField, ve.Fields)
			}
		})
	}

	valid := ListFilter{Page: 1, PageSize: 100, SortBy: SortByDueDate, SortOrder: SortDesc}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error for valid filter: %v", err)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		total          int
		wantTotalPages int
	}{
		{"exact multiple", 1, 10, 30, 3},
		{"partial last page", 1, 10, 31, 4},
		{"empty result", 1, 10, 0, 0},
		{"single item", 1, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize, tt.total)
			if p.TotalPages != tt.wantTotalPages {
				t.Errorf("expected %d total pages, got %d", tt.wantTotalPages, p.TotalPages)
			}
			if p.Total != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, p.Total)
			}
		})
	}
}
