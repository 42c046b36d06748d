package models

import (
	"time"
)

// User represents an administrator who can author posts and moderate comments
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Actor is the authenticated identity performing an admin operation. It is
// passed explicitly into service calls instead of being read from ambient state.
type Actor struct {
	UserID int64
	Email  string
}
