// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [StructuredConfig] is usable at
// startup. It runs after defaults are applied.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.AccessTokenDuration <= 0 || cfg.App.RefreshTokenDuration <= 0 {
		return fmt.Errorf("%w: token durations must be positive", ErrInvalidAppConfigs)
	}
	if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidAppConfigs, cfg.App.LogLevel)
	}

	if err := cfg.Storage.validate(); err != nil {
		return err
	}

	if cfg.Server.RequestTimeout <= 0 || cfg.Server.CountdownInterval <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Workers.TokenCleanupInterval <= 0 || cfg.Workers.HealthCheckInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (s *Storage) validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if s.DB.DSN == "" {
			return fmt.Errorf("%w: database DSN is required for %s", ErrInvalidStorageConfigs, s.Driver)
		}
	case DriverMongo:
		if s.Mongo.URI == "" {
			return fmt.Errorf("%w: mongo URI is required", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, s.Driver)
	}

	if s.Files.MaxUploadSize <= 0 {
		return fmt.Errorf("%w: max upload size must be positive", ErrInvalidStorageConfigs)
	}

	switch s.Files.Driver {
	case FilesDriverLocal:
	case FilesDriverS3:
		if s.Files.S3.Bucket == "" || s.Files.S3.Region == "" {
			return fmt.Errorf("%w: s3 bucket and region are required", ErrInvalidStorageConfigs)
		}
	case FilesDriverCloudinary:
		c := s.Files.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return fmt.Errorf("%w: cloudinary credentials are required", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown files driver %q", ErrInvalidStorageConfigs, s.Files.Driver)
	}

	return nil
}
