package dto

import "strconv"

type CreateTaskRequest struct {
	Title            string  `json:"title" validate:"required,max=255"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	Status           *string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority         *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate          *string `json:"due_date" validate:"omitempty,date"`
	AssignedToUserID *int64  `json:"assigned_to_user_id" validate:"omitempty,gt=0"`
}

func (CreateTaskRequest) ValidationMessages() map[string]string {
	return taskMessages
}

// UpdateTaskRequest accepts null for description and due_date to clear them.
type UpdateTaskRequest struct {
	Title            *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description      Nullable[string] `json:"description" validate:"omitempty,max=1000"`
	Status           *string          `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority         *string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate          Nullable[string] `json:"due_date" validate:"omitempty,date"`
	AssignedToUserID *int64           `json:"assigned_to_user_id" validate:"omitempty,gt=0"`
}

func (UpdateTaskRequest) ValidationMessages() map[string]string {
	return taskMessages
}

func (r UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && !r.Description.Set && r.Status == nil &&
		r.Priority == nil && !r.DueDate.Set && r.AssignedToUserID == nil
}

var taskMessages = map[string]string{
	"title.required":           "Title cannot be empty",
	"title.min":                "Title cannot be empty",
	"title.max":                "Title must be 255 characters or less",
	"title.type":               "Title must be a string",
	"description.max":          "Description must be 1000 characters or less",
	"description.type":         "Description must be a string",
	"status.oneof":             "Invalid status. Must be one of: todo, in_progress, done",
	"status.type":              "Invalid status. Must be one of: todo, in_progress, done",
	"priority.oneof":           "Invalid priority. Must be one of: low, medium, high",
	"priority.type":            "Invalid priority. Must be one of: low, medium, high",
	"due_date.date":            "Due date must be a valid date in format YYYY-MM-DD",
	"due_date.type":            "Due date must be a string",
	"assigned_to_user_id.gt":   "Assigned to user ID must be positive",
	"assigned_to_user_id.type": "Assigned to user ID must be a number",
}

type TaskQuery struct {
	PageQuery
	Status string `form:"status" validate:"omitempty,oneof=todo in_progress done"`
}

func (TaskQuery) ValidationMessages() map[string]string {
	msgs := map[string]string{
		"status.oneof": taskMessages["status.oneof"],
	}
	for k, v := range pageMessages {
		msgs[k] = v
	}
	return msgs
}

func atoiOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
