package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

const defaultDeviceCacheTTL = 5 * time.Minute

// DeviceCache keeps each owner's device list as a JSON blob.
// Key format: devices:<owner_id>
type DeviceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeviceCache wraps the given client. Non-positive ttl falls back to five minutes.
func NewDeviceCache(client *redis.Client, ttl time.Duration) *DeviceCache {
	if ttl <= 0 {
		ttl = defaultDeviceCacheTTL
	}
	return &DeviceCache{client: client, ttl: ttl}
}

// Get returns the cached list. The bool is false on a miss.
func (c *DeviceCache) Get(ctx context.Context, ownerID int64) ([]domain.Device, bool, error) {
	raw, err := c.client.Get(ctx, deviceListKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("device cache get: %w", err)
	}

	devices, err := decodeDevices(raw)
	if err != nil {
		return nil, false, err
	}
	return devices, true, nil
}

func (c *DeviceCache) Set(ctx context.Context, ownerID int64, devices []domain.Device) error {
	raw, err := encodeDevices(devices)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, deviceListKey(ownerID), raw, c.ttl).Err()
}

func (c *DeviceCache) Invalidate(ctx context.Context, ownerID int64) error {
	return c.client.Del(ctx, deviceListKey(ownerID)).Err()
}

func deviceListKey(ownerID int64) string {
	return "devices:" + strconv.FormatInt(ownerID, 10)
}

func encodeDevices(devices []domain.Device) ([]byte, error) {
	if devices == nil {
		devices = []domain.Device{}
	}
	raw, err := json.Marshal(devices)
	if err != nil {
		return nil, fmt.Errorf("device cache encode: %w", err)
	}
	return raw, nil
}

func decodeDevices(raw []byte) ([]domain.Device, error) {
	devices := []domain.Device{}
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("device cache decode: %w", err)
	}
	return devices, nil
}
