package entity

import "time"

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is an account that can create and update catalog records.
type User struct {
	ID           int
	Email        string
	Username     string
	PasswordHash string // bcrypt hash, never plaintext past registration
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
