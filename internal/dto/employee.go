package dto

type CreateEmployeeRequest struct {
	UserID     *int64  `json:"user_id" validate:"required,gt=0"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
}

func (CreateEmployeeRequest) ValidationMessages() map[string]string {
	return employeeMessages
}

// UpdateEmployeeRequest carries only the keys present in the body.
type UpdateEmployeeRequest struct {
	UserID     *int64  `json:"user_id" validate:"omitempty,gt=0"`
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
}

func (UpdateEmployeeRequest) ValidationMessages() map[string]string {
	return employeeMessages
}

func (r UpdateEmployeeRequest) IsEmpty() bool {
	return r.UserID == nil && r.FirstName == nil && r.LastName == nil &&
		r.Department == nil && r.Position == nil
}

var employeeMessages = map[string]string{
	"user_id.required":    "User ID is required",
	"user_id.gt":          "User ID must be positive",
	"user_id.type":        "User ID must be a valid number",
	"first_name.required": "First name cannot be empty",
	"first_name.min":      "First name cannot be empty",
	"first_name.max":      "First name must be 100 characters or less",
	"first_name.type":     "First name must be a string",
	"last_name.required":  "Last name cannot be empty",
	"last_name.min":       "Last name cannot be empty",
	"last_name.max":       "Last name must be 100 characters or less",
	"last_name.type":      "Last name must be a string",
	"department.max":      "Department must be 100 characters or less",
	"department.type":     "Department must be a string",
	"position.max":        "Position must be 100 characters or less",
	"position.type":       "Position must be a string",
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit inside a 32-bit int.
	MaxPage = 10000000
)

// PageQuery holds raw query strings so that "abc" can be reported as a
// validation error instead of a bind failure.
type PageQuery struct {
	Page  string `form:"page" validate:"omitempty,number,int_min=1,int_max=10000000"`
	Limit string `form:"limit" validate:"omitempty,number,int_min=1,int_max=100"`
}

func (PageQuery) ValidationMessages() map[string]string {
	return pageMessages
}

// PageLimit returns the parsed page and limit with defaults applied.
// Call it only after validation passed.
func (q PageQuery) PageLimit() (page, limit int) {
	return atoiOr(q.Page, DefaultPage), atoiOr(q.Limit, DefaultLimit)
}

// Offset is (page-1)*limit.
func (q PageQuery) Offset() int {
	page, limit := q.PageLimit()
	return (page - 1) * limit
}

var pageMessages = map[string]string{
	"page.number":   "Page must be a positive number",
	"page.int_min":  "Page must be greater than 0",
	"page.int_max":  "Page must be 10000000 or less",
	"limit.number":  "Limit must be a positive number",
	"limit.int_min": "Limit must be between 1 and 100",
	"limit.int_max": "Limit must be between 1 and 100",
}
