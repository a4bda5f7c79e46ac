package memory

import (
	"context"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.usersByName[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.s.nextUserID++
	stored := *user
	stored.ID = r.s.nextUserID
	r.s.usersByName[stored.Username] = stored

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.usersByName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
