package dto

import "github.com/Oniqq60/staff_control/internal/apperr"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       any                 `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
	Path       string              `json:"path,omitempty"`
	Stack      string              `json:"stack,omitempty"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination derives the page number from the offset, so limit=10
// offset=10 total=25 is page 2 of 3.
func NewPagination(total int64, limit, offset int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:      total,
		Page:       offset/limit + 1,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
