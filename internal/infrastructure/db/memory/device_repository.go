package memory

import (
	"context"
	"sort"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

type DeviceRepository struct {
	s *Store
}

func (r *DeviceRepository) ListByOwner(_ context.Context, ownerID int64) ([]domain.Device, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Device{}
	for _, d := range r.s.devices {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DeviceRepository) Create(_ context.Context, d *domain.Device) (*domain.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextDeviceID++
	stored := *d
	stored.ID = r.s.nextDeviceID
	r.s.devices[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *DeviceRepository) Update(_ context.Context, d *domain.Device) (*domain.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.devices[d.ID]
	if !ok || existing.OwnerID != d.OwnerID {
		return nil, domain.ErrDeviceNotFound
	}
	r.s.devices[d.ID] = *d

	out := *d
	return &out, nil
}

func (r *DeviceRepository) Delete(_ context.Context, ownerID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.devices[id]
	if !ok || existing.OwnerID != ownerID {
		return domain.ErrDeviceNotFound
	}
	delete(r.s.devices, id)
	return nil
}
