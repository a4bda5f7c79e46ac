package ports

import (
	"context"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// UserRepository persists user identities and their password hashes.
type UserRepository interface {
	// Create stores the user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns domain.ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
