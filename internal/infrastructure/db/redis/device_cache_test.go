package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

func TestDeviceListKey(t *testing.T) {
	assert.Equal(t, "devices:42", deviceListKey(42))
}

func TestEncodeDecodeDevices(t *testing.T) {
	in := []domain.Device{{
		ID:           1,
		CustomerName: "Alice",
		DeviceName:   "Laptop",
		Amount:       250.5,
		Date:         "2024-01-02",
		Status:       domain.StatusInProgress,
		OwnerID:      7,
	}}

	raw, err := encodeDevices(in)
	require.NoError(t, err)

	out, err := decodeDevices(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeDevices_NilIsEmptyList(t *testing.T) {
	raw, err := encodeDevices(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	out, err := decodeDevices(raw)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDecodeDevices_Corrupt(t *testing.T) {
	_, err := decodeDevices([]byte("{not json"))
	assert.Error(t, err)
}

func TestNewDeviceCache_DefaultTTL(t *testing.T) {
	c := NewDeviceCache(nil, 0)
	assert.Equal(t, defaultDeviceCacheTTL, c.ttl)
}

func TestDeviceCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewDeviceCache(client, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, hit, err := c.Get(ctx, 1)
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Invalidate(ctx, 1))
}

func TestConfigOptions(t *testing.T) {
	opts := Config{Addr: "cache:6379", DB: 3}.options()
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, defaultTimeout, opts.DialTimeout)

	opts = Config{Timeout: time.Second}.options()
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Equal(t, time.Second, opts.WriteTimeout)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
