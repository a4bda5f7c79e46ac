package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

func TestUserRepository_UniqueUsername(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()

	u, err := users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", found.PasswordHash)

	_, err = users.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeviceRepository_OwnerScoping(t *testing.T) {
	devices := NewStore().Devices()
	ctx := context.Background()

	a, err := devices.Create(ctx, &domain.Device{DeviceName: "Phone", OwnerID: 1})
	require.NoError(t, err)
	_, err = devices.Create(ctx, &domain.Device{DeviceName: "Laptop", OwnerID: 2})
	require.NoError(t, err)

	list, err := devices.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = devices.Update(ctx, &domain.Device{ID: a.ID, OwnerID: 2, DeviceName: "Stolen"})
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	assert.ErrorIs(t, devices.Delete(ctx, 2, a.ID), domain.ErrDeviceNotFound)

	updated, err := devices.Update(ctx, &domain.Device{ID: a.ID, OwnerID: 1, DeviceName: "Tablet"})
	require.NoError(t, err)
	assert.Equal(t, "Tablet", updated.DeviceName)

	require.NoError(t, devices.Delete(ctx, 1, a.ID))
	list, err = devices.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeviceRepository_ConcurrentCreate(t *testing.T) {
	devices := NewStore().Devices()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = devices.Create(ctx, &domain.Device{OwnerID: 1})
		}()
	}
	wg.Wait()

	list, err := devices.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 50)
	for i, d := range list {
		assert.Equal(t, int64(i+1), d.ID, "ids should be dense and ordered")
	}
}
