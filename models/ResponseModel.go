package models

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid email or password."`
	Code    string `json:"code,omitempty" example:"INVALID_CREDENTIALS"`
	Details string `json:"details,omitempty"`
}

// MessageResponse acknowledges an action without a payload.
type MessageResponse struct {
	Message string `json:"message" example:"Quote deleted successfully"`
}

// LoginResponse is returned by login and signup.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at" example:"2024-01-18T10:30:00Z"`
	User      UserResponse `json:"user"`
}

// CountResponse wraps a list with its length, like the list endpoints of the back office.
type CountResponse struct {
	Total int         `json:"total" example:"3"`
	Data  interface{} `json:"data"`
}
