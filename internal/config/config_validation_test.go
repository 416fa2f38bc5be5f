package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *StructuredConfig {
	cfg := &StructuredConfig{App: App{TokenSignKey: "secret"}}
	cfg.applyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{"defaults are valid", func(cfg *StructuredConfig) {}, nil},
		{"missing sign key", func(cfg *StructuredConfig) { cfg.App.TokenSignKey = "" }, ErrInvalidAppConfigs},
		{"negative access duration", func(cfg *StructuredConfig) { cfg.App.AccessTokenDuration = -1 }, ErrInvalidAppConfigs},
		{"bad log level", func(cfg *StructuredConfig) { cfg.App.LogLevel = "chatty" }, ErrInvalidAppConfigs},
		{"unknown driver", func(cfg *StructuredConfig) { cfg.Storage.Driver = "oracle" }, ErrInvalidStorageConfigs},
		{"postgres without dsn", func(cfg *StructuredConfig) { cfg.Storage.Driver = DriverPostgres }, ErrInvalidStorageConfigs},
		{"postgres with dsn", func(cfg *StructuredConfig) {
			cfg.Storage.Driver = DriverPostgres
			cfg.Storage.DB.DSN = "postgres://localhost/db"
		}, nil},
		{"mongo without uri", func(cfg *StructuredConfig) { cfg.Storage.Driver = DriverMongo }, ErrInvalidStorageConfigs},
		{"unknown files driver", func(cfg *StructuredConfig) { cfg.Storage.Files.Driver = "ftp" }, ErrInvalidStorageConfigs},
		{"s3 without bucket", func(cfg *StructuredConfig) { cfg.Storage.Files.Driver = FilesDriverS3 }, ErrInvalidStorageConfigs},
		{"s3 complete", func(cfg *StructuredConfig) {
			cfg.Storage.Files.Driver = FilesDriverS3
			cfg.Storage.Files.S3.Bucket = "b"
			cfg.Storage.Files.S3.Region = "us-east-1"
		}, nil},
		{"cloudinary without secret", func(cfg *StructuredConfig) {
			cfg.Storage.Files.Driver = FilesDriverCloudinary
			cfg.Storage.Files.Cloudinary.CloudName = "demo"
			cfg.Storage.Files.Cloudinary.APIKey = "key"
		}, ErrInvalidStorageConfigs},
		{"zero max upload", func(cfg *StructuredConfig) { cfg.Storage.Files.MaxUploadSize = -1 }, ErrInvalidStorageConfigs},
		{"zero countdown", func(cfg *StructuredConfig) { cfg.Server.CountdownInterval = 0 }, ErrInvalidServerConfigs},
		{"zero cleanup interval", func(cfg *StructuredConfig) { cfg.Workers.TokenCleanupInterval = 0 }, ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyDefaults_SQLiteDSN(t *testing.T) {
	cfg := &StructuredConfig{Storage: Storage{Driver: DriverSQLite}}
	cfg.applyDefaults()

	assert.Equal(t, defaultSQLiteDSN, cfg.Storage.DB.DSN)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &StructuredConfig{Server: Server{HTTPAddress: ":1234"}, App: App{RefreshHashKey: "r", TokenSignKey: "s"}}
	cfg.applyDefaults()

	assert.Equal(t, ":1234", cfg.Server.HTTPAddress)
	assert.Equal(t, "r", cfg.App.RefreshHashKey)
}
