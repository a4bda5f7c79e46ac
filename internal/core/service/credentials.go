package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/devtrack/device-tracker/internal/core/domain"
	"github.com/devtrack/device-tracker/internal/core/ports"
)

// DefaultBcryptCost matches bcrypt's own default of 10 rounds.
const DefaultBcryptCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// Credentials is the credential store: it hashes passwords on registration
// and checks them on login.
type Credentials struct {
	repo ports.UserRepository
	cost int
	// dummyHash is compared against when the username is unknown so that
	// both failure paths spend the same bcrypt work.
	dummyHash []byte
}

// NewCredentials returns a Credentials using the given bcrypt cost. Costs
// outside bcrypt's accepted range fall back to DefaultBcryptCost.
func NewCredentials(repo ports.UserRepository, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &Credentials{repo: repo, cost: cost, dummyHash: dummy}
}

// Register hashes password and stores a new user.
func (c *Credentials) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if len(password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := c.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Verify returns the user when password matches. Unknown users and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := c.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
