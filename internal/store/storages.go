// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
)

// Storages groups the repositories of the selected storage driver into a
// single value that is handed to the service layer.
type Storages struct {
	CapsuleRepository CapsuleRepository
	UserRepository    UserRepository
	TokenRepository   TokenRepository

	pinger  Pinger
	closers []func() error
}

// NewStorages initialises the storage layer for cfg.Driver:
//   - memory: process-local maps, nothing to connect to;
//   - postgres / sqlite: opens the connection and runs the embedded
//     migrations unless cfg.DB.SkipMigrations is set;
//   - mongo: connects and ensures the indexes.
//
// Returns [ErrUnknownStorageDriver] for any other driver.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("creating new storages...")

	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStorages(logger), nil

	case config.DriverPostgres, config.DriverSQLite:
		connect := NewConnectPostgres
		if cfg.Driver == config.DriverSQLite {
			connect = NewConnectSQLite
		}

		db, err := connect(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("%s connection error: %w", cfg.Driver, err)
		}

		if !cfg.DB.SkipMigrations {
			if err = db.Migrate(); err != nil {
				db.Close()
				return nil, fmt.Errorf("migration failed: %w", err)
			}
		}

		return NewSQLStorages(db, logger), nil

	case config.DriverMongo:
		db, err := NewConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("mongo connection error: %w", err)
		}

		return &Storages{
			CapsuleRepository: NewMongoCapsuleRepository(db.Database(), logger),
			UserRepository:    NewMongoUserRepository(db.Database(), logger),
			TokenRepository:   NewMongoTokenRepository(db.Database(), logger),
			pinger:            db,
			closers:           []func() error{db.Close},
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Driver)
}

// NewMemoryStorages backs every repository with one [MemoryStorage].
func NewMemoryStorages(logger *logger.Logger) *Storages {
	mem := NewMemoryStorage(logger)
	return &Storages{
		CapsuleRepository: mem,
		UserRepository:    mem,
		TokenRepository:   mem,
		pinger:            mem,
	}
}

// NewSQLStorages wires the SQL repositories to an open connection.
func NewSQLStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		CapsuleRepository: NewCapsuleRepository(db, logger),
		UserRepository:    NewUserRepository(db, logger),
		TokenRepository:   NewTokenRepository(db, logger),
		pinger:            db,
		closers:           []func() error{db.Close},
	}
}

// Ping reports whether the underlying store is reachable.
func (s *Storages) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger.Ping(ctx)
}

// Close releases connections held by the storages.
func (s *Storages) Close() error {
	var errs error
	for _, closeFn := range s.closers {
		errs = errors.Join(errs, closeFn())
	}
	return errs
}

// Migrate applies the embedded schema migrations for the SQL drivers.
// Other drivers have no schema and are reported as a no-op.
func Migrate(ctx context.Context, cfg config.Storage, logger *logger.Logger) error {
	connect := NewConnectPostgres
	switch cfg.Driver {
	case config.DriverPostgres:
	case config.DriverSQLite:
		connect = NewConnectSQLite
	case config.DriverMemory, config.DriverMongo:
		logger.Info().Str("driver", cfg.Driver).Msg("driver has no migrations")
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Driver)
	}

	db, err := connect(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("%s connection error: %w", cfg.Driver, err)
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info().Str("driver", cfg.Driver).Msg("migrations applied")
	return nil
}
