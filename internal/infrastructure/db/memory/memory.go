// Package memory provides mutex-guarded in-process repositories. They back
// the "memory" store driver and stand in for a real database in tests.
package memory

import (
	"context"
	"sync"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// Store holds users and devices in maps keyed by ID.
type Store struct {
	mu           sync.RWMutex
	usersByName  map[string]domain.User
	devices      map[int64]domain.Device
	nextUserID   int64
	nextDeviceID int64
}

func NewStore() *Store {
	return &Store{
		usersByName: make(map[string]domain.User),
		devices:     make(map[int64]domain.Device),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Devices returns the device repository view of the store.
func (s *Store) Devices() *DeviceRepository { return &DeviceRepository{s: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }
