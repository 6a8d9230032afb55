package dto

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returns the issued token and the account it belongs to.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
