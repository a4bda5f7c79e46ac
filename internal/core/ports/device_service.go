package ports

import (
	"context"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// DeviceService defines use-case operations on the caller's devices.
// ownerID always comes from the verified identity, never from the payload.
type DeviceService interface {
	List(ctx context.Context, ownerID int64) ([]domain.Device, error)
	Create(ctx context.Context, ownerID int64, fields domain.DeviceFields) (*domain.Device, error)
	Update(ctx context.Context, ownerID, id int64, fields domain.DeviceFields) (*domain.Device, error)
	Delete(ctx context.Context, ownerID, id int64) error
}
