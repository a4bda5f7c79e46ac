package ports

import (
	"context"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// DeviceRepository defines persistence for devices. Every method is scoped
// by owner: rows belonging to another owner behave as if they do not exist.
type DeviceRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Device, error)
	// Create inserts d and returns it with its assigned ID.
	Create(ctx context.Context, d *domain.Device) (*domain.Device, error)
	// Update replaces the editable fields of the row matching d.ID and
	// d.OwnerID, or returns domain.ErrDeviceNotFound.
	Update(ctx context.Context, d *domain.Device) (*domain.Device, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// DeviceCache holds owner-scoped device lists between writes.
type DeviceCache interface {
	Get(ctx context.Context, ownerID int64) ([]domain.Device, bool, error)
	Set(ctx context.Context, ownerID int64, devices []domain.Device) error
	Invalidate(ctx context.Context, ownerID int64) error
}
