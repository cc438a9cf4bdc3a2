package models

// SortKey names a field tasks can be ordered by.
type SortKey string

const (
	SortByPriority SortKey = "priority"
	SortByDueDate  SortKey = "dueDate"
)

// SortOrder is the direction of an explicit sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListFilter selects and orders a page of tasks. Nil pointer fields mean
// "no filter". An empty SortBy means creation order; an empty SortOrder
// with a SortBy means ascending.
type ListFilter struct {
	Status    *TaskStatus
	Tag       *string
	Search    *string
	SortBy    SortKey
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// Validate checks filter values against the documented bounds.
func (f *ListFilter) Validate() error {
	fields := make(map[string]string)

	if f.Status != nil && !f.Status.Valid() {
		fields["status"] = "status must be 'todo', 'doing', or 'done'"
	}
	if f.SortBy != "" && f.SortBy != SortByPriority && f.SortBy != SortByDueDate {
		fields["sortBy"] = "sortBy must be 'priority' or 'dueDate'"
	}
	if f.SortOrder != "" && f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		fields["sortOrder"] = "sortOrder must be 'asc' or 'desc'"
	}
	if f.Page < 1 {
		fields["page"] = "page must be 1 or greater"
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		fields["pageSize"] = "pageSize must be between 1 and 100"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Pagination describes the position of a page within the full result set.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TaskPage is one page of list results plus its pagination metadata.
type TaskPage struct {
	Data       []Task     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes page metadata for a total match count.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
