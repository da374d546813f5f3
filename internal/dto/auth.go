package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100,max_bytes=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin employee"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required":     "Email is required",
		"email.email":        "Invalid email format",
		"email.max":          "Email must be 255 characters or less",
		"email.type":         "Email must be a string",
		"password.required":  "Password is required",
		"password.min":       "Password must be at least 8 characters",
		"password.max":       "Password must be 100 characters or less",
		"password.max_bytes": "Password must be 72 bytes or less",
		"password.type":      "Password must be a string",
		"role.oneof":         "Invalid role. Must be one of: admin, employee",
		"role.type":          "Role must be a string",
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.email":       "Invalid email format",
		"email.type":        "Email must be a string",
		"password.required": "Password is required",
		"password.type":     "Password must be a string",
	}
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
