package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/devtrack/device-tracker/internal/core/domain"
	"github.com/devtrack/device-tracker/internal/core/ports"
	"github.com/devtrack/device-tracker/internal/pkg/metrics"
)

// DeviceService implements the owner-scoped device use cases. Lists are
// served through the cache; every successful write invalidates the
// owner's cached list before returning.
type DeviceService struct {
	repo  ports.DeviceRepository
	cache ports.DeviceCache
	log   zerolog.Logger
}

// NewDeviceService wires the service. A nil cache disables caching.
func NewDeviceService(repo ports.DeviceRepository, cache ports.DeviceCache, log zerolog.Logger) *DeviceService {
	if cache == nil {
		cache = NopDeviceCache{}
	}
	return &DeviceService{repo: repo, cache: cache, log: log}
}

func (s *DeviceService) List(ctx context.Context, ownerID int64) ([]domain.Device, error) {
	cached, ok, err := s.cache.Get(ctx, ownerID)
	switch {
	case err != nil:
		metrics.DeviceCacheLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Int64("owner_id", ownerID).Msg("device cache read failed")
	case ok:
		metrics.DeviceCacheLookupsTotal.WithLabelValues("hit").Inc()
		observe("list", nil)
		return cached, nil
	default:
		metrics.DeviceCacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	devices, err := s.repo.ListByOwner(ctx, ownerID)
	observe("list", err)
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []domain.Device{}
	}

	if err := s.cache.Set(ctx, ownerID, devices); err != nil {
		s.log.Warn().Err(err).Int64("owner_id", ownerID).Msg("device cache write failed")
	}
	return devices, nil
}

func (s *DeviceService) Create(ctx context.Context, ownerID int64, fields domain.DeviceFields) (*domain.Device, error) {
	if err := fields.Validate(); err != nil {
		observe("create", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, fields.Apply(ownerID, 0))
	observe("create", err)
	if err != nil {
		s.log.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to create device")
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	s.log.Info().Int64("owner_id", ownerID).Int64("device_id", created.ID).Msg("device created")
	return created, nil
}

func (s *DeviceService) Update(ctx context.Context, ownerID, id int64, fields domain.DeviceFields) (*domain.Device, error) {
	if id <= 0 {
		observe("update", domain.ErrDeviceNotFound)
		return nil, domain.ErrDeviceNotFound
	}
	if err := fields.Validate(); err != nil {
		observe("update", err)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, fields.Apply(ownerID, id))
	observe("update", err)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	s.log.Info().Int64("owner_id", ownerID).Int64("device_id", id).Msg("device updated")
	return updated, nil
}

func (s *DeviceService) Delete(ctx context.Context, ownerID, id int64) error {
	if id <= 0 {
		observe("delete", domain.ErrDeviceNotFound)
		return domain.ErrDeviceNotFound
	}

	err := s.repo.Delete(ctx, ownerID, id)
	observe("delete", err)
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	s.log.Info().Int64("owner_id", ownerID).Int64("device_id", id).Msg("device deleted")
	return nil
}

// invalidate drops the owner's cached list, retrying once. If both attempts
// fail the entry stays stale until its TTL expires.
func (s *DeviceService) invalidate(ctx context.Context, ownerID int64) {
	err := s.cache.Invalidate(ctx, ownerID)
	if err != nil {
		err = s.cache.Invalidate(ctx, ownerID)
	}
	if err != nil {
		s.log.Warn().Err(err).Int64("owner_id", ownerID).Msg("device cache invalidation failed; list stale until TTL")
	}
}

func observe(operation string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDeviceNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrValidation):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.DeviceOperationsTotal.WithLabelValues(operation, result).Inc()
}

// NopDeviceCache never stores anything; every lookup is a miss.
type NopDeviceCache struct{}

func (NopDeviceCache) Get(context.Context, int64) ([]domain.Device, bool, error) {
	return nil, false, nil
}

func (NopDeviceCache) Set(context.Context, int64, []domain.Device) error { return nil }

func (NopDeviceCache) Invalidate(context.Context, int64) error { return nil }
