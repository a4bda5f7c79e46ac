// Package db opens the configured persistence backend behind the core ports.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devtrack/device-tracker/internal/core/ports"
	"github.com/devtrack/device-tracker/internal/infrastructure/config"
	"github.com/devtrack/device-tracker/internal/infrastructure/db/memory"
	"github.com/devtrack/device-tracker/internal/infrastructure/db/mongo"
	"github.com/devtrack/device-tracker/internal/infrastructure/db/sqlstore"
)

// Store is an opened backend.
type Store struct {
	Driver  string
	Users   ports.UserRepository
	Devices ports.DeviceRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the backend named by cfg.Store.Driver and, for the SQL
// drivers, applies pending migrations when auto-migrate is on.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		dialect := sqlstore.DialectSQLite
		if cfg.Store.Driver == config.DriverPostgres {
			dialect = sqlstore.DialectPostgres
		}
		sdb, err := sqlstore.Open(ctx, sqlstore.Config{
			Dialect: dialect,
			DSN:     cfg.Store.DSN,
			Timeout: cfg.Store.Timeout,
			Log:     log,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := sdb.Migrate(ctx); err != nil {
				_ = sdb.Close(ctx)
				return nil, err
			}
			log.Info().Str("dialect", dialect).Msg("migrations applied")
		}
		return &Store{
			Driver:  cfg.Store.Driver,
			Users:   sdb.Users(),
			Devices: sdb.Devices(),
			ping:    sdb.Ping,
			close:   sdb.Close,
		}, nil

	case config.DriverMongo:
		ms, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(ctx)
			return nil, err
		}
		return &Store{
			Driver:  cfg.Store.Driver,
			Users:   ms.Users(),
			Devices: ms.Devices(),
			ping:    ms.Ping,
			close:   ms.Close,
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewMemory returns a Store backed by process memory.
func NewMemory() *Store {
	ms := memory.NewStore()
	return &Store{
		Driver:  config.DriverMemory,
		Users:   ms.Users(),
		Devices: ms.Devices(),
		ping:    ms.Ping,
		close:   ms.Close,
	}
}
