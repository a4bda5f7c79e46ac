package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubDeviceRepo struct {
	rows      []domain.Device
	nextID    int64
	listCalls int
	err       error
}

func (r *stubDeviceRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Device, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Device
	for _, d := range r.rows {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDeviceRepo) Create(_ context.Context, d *domain.Device) (*domain.Device, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	clone := *d
	clone.ID = r.nextID
	r.rows = append(r.rows, clone)
	return &clone, nil
}

func (r *stubDeviceRepo) Update(_ context.Context, d *domain.Device) (*domain.Device, error) {
	for i, row := range r.rows {
		if row.ID == d.ID && row.OwnerID == d.OwnerID {
			r.rows[i] = *d
			clone := *d
			return &clone, nil
		}
	}
	return nil, domain.ErrDeviceNotFound
}

func (r *stubDeviceRepo) Delete(_ context.Context, ownerID, id int64) error {
	for i, row := range r.rows {
		if row.ID == id && row.OwnerID == ownerID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrDeviceNotFound
}

type stubCache struct {
	entries     map[int64][]domain.Device
	invalidated []int64
	getErr      error
	// invalidateErrs are returned by successive Invalidate calls.
	invalidateErrs []error
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[int64][]domain.Device)}
}

func (c *stubCache) Get(_ context.Context, ownerID int64) ([]domain.Device, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.entries[ownerID]
	return d, ok, nil
}

func (c *stubCache) Set(_ context.Context, ownerID int64, devices []domain.Device) error {
	c.entries[ownerID] = devices
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, ownerID int64) error {
	c.invalidated = append(c.invalidated, ownerID)
	if len(c.invalidateErrs) > 0 {
		err := c.invalidateErrs[0]
		c.invalidateErrs = c.invalidateErrs[1:]
		if err != nil {
			return err
		}
	}
	delete(c.entries, ownerID)
	return nil
}

func phoneFields() domain.DeviceFields {
	return domain.DeviceFields{
		CustomerName: "Bob",
		DeviceName:   "Phone",
		Amount:       100,
		Date:         "2024-01-01",
		Status:       domain.StatusPending,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDeviceService_CreateThenList_RoundTrip(t *testing.T) {
	repo := &stubDeviceRepo{}
	svc := NewDeviceService(repo, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), 1, phoneFields())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(1), created.OwnerID)

	list, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *created, list[0])
}

func TestDeviceService_List_EmptyIsNotNil(t *testing.T) {
	svc := NewDeviceService(&stubDeviceRepo{}, nil, zerolog.Nop())

	list, err := svc.List(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDeviceService_TenantIsolation(t *testing.T) {
	repo := &stubDeviceRepo{}
	svc := NewDeviceService(repo, newStubCache(), zerolog.Nop())
	ctx := context.Background()

	const alice, bob = int64(1), int64(2)
	device, err := svc.Create(ctx, alice, phoneFields())
	require.NoError(t, err)

	bobList, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	_, err = svc.Update(ctx, bob, device.ID, phoneFields())
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)

	err = svc.Delete(ctx, bob, device.ID)
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)

	aliceList, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, "Phone", aliceList[0].DeviceName)
}

func TestDeviceService_Create_Validation(t *testing.T) {
	repo := &stubDeviceRepo{}
	svc := NewDeviceService(repo, nil, zerolog.Nop())

	fields := phoneFields()
	fields.Status = "Unknown"

	_, err := svc.Create(context.Background(), 1, fields)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, repo.rows)
}

func TestDeviceService_Update_ReplacesFields(t *testing.T) {
	repo := &stubDeviceRepo{}
	svc := NewDeviceService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	device, err := svc.Create(ctx, 1, phoneFields())
	require.NoError(t, err)

	fields := phoneFields()
	fields.Status = domain.StatusCompleted
	fields.Amount = 120.5

	updated, err := svc.Update(ctx, 1, device.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, 120.5, updated.Amount)
	assert.Equal(t, int64(1), updated.OwnerID)
}

func TestDeviceService_NonPositiveID(t *testing.T) {
	svc := NewDeviceService(&stubDeviceRepo{}, nil, zerolog.Nop())

	_, err := svc.Update(context.Background(), 1, 0, phoneFields())
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, -3), domain.ErrDeviceNotFound)
}

func TestDeviceService_Cache_HitAndInvalidate(t *testing.T) {
	repo := &stubDeviceRepo{}
	cache := newStubCache()
	svc := NewDeviceService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.List(ctx, 1)
	require.NoError(t, err)
	_, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second list should be served from cache")

	device, err := svc.Create(ctx, 1, phoneFields())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, cache.invalidated)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	require.Len(t, list, 1)
	assert.Equal(t, device.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, 1, device.ID))
	assert.Equal(t, []int64{1, 1}, cache.invalidated)
}

func TestDeviceService_Cache_ErrorFallsBackToRepo(t *testing.T) {
	repo := &stubDeviceRepo{}
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	svc := NewDeviceService(repo, cache, zerolog.Nop())

	_, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestDeviceService_RepoError(t *testing.T) {
	repo := &stubDeviceRepo{err: errors.New("db unavailable")}
	svc := NewDeviceService(repo, nil, zerolog.Nop())

	_, err := svc.List(context.Background(), 1)
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), 1, phoneFields())
	assert.Error(t, err)
}

func TestDeviceService_Delete_RetriesFailedInvalidation(t *testing.T) {
	repo := &stubDeviceRepo{}
	cache := newStubCache()
	svc := NewDeviceService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, phoneFields())
	require.NoError(t, err)
	_, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, cache.entries, int64(1))

	cache.invalidated = nil
	cache.invalidateErrs = []error{errors.New("redis timeout")}
	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	assert.Equal(t, []int64{1, 1}, cache.invalidated)
	assert.NotContains(t, cache.entries, int64(1))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeviceService_Delete_InvalidationFailureIsNotFatal(t *testing.T) {
	repo := &stubDeviceRepo{}
	cache := newStubCache()
	svc := NewDeviceService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, phoneFields())
	require.NoError(t, err)

	cache.invalidated = nil
	down := errors.New("redis down")
	cache.invalidateErrs = []error{down, down}
	assert.NoError(t, svc.Delete(ctx, 1, created.ID))
	assert.Len(t, cache.invalidated, 2)
}
