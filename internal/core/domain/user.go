package domain

import "time"

// User models a registered account. Users are never updated or deleted.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified caller bound to a request by the auth middleware.
type Identity struct {
	UserID   int64
	Username string
}
