package ports

import (
	"context"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// AuthService mediates registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login returns a signed token for valid credentials. Any credential
	// failure is reported as domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// TokenVerifier checks a bearer token and returns the identity it asserts.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// TokenIssuer signs identity assertions.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}
