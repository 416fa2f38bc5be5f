// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Storage drivers accepted in storage.driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Media host drivers accepted in storage.files.driver.
const (
	FilesDriverLocal      = "local"
	FilesDriverS3         = "s3"
	FilesDriverCloudinary = "cloudinary"
)

// StructuredConfig is the top-level configuration container for the
// golden-glimpses backend. It aggregates all sub-configurations and is
// populated by merging values from a config file, environment variables
// (optionally seeded from a .env file) and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters and
	// the application version.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the capsule store and the media host.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds intervals of the background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// ConfigFilePath is the optional path to a JSON or YAML configuration
	// file. Populated via the CONFIG environment variable or the -c / --config
	// flag.
	ConfigFilePath string `env:"CONFIG"`

	// EnvFilePath is the .env file loaded into the process environment
	// before environment variables are parsed. Defaults to ".env".
	EnvFilePath string `env:"ENV_FILE"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT access
	// tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// AccessTokenDuration specifies how long an access token remains valid.
	// Env: APP_ACCESS_TOKEN_DURATION
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION"`

	// RefreshTokenDuration specifies how long a refresh token remains valid.
	// Env: APP_REFRESH_TOKEN_DURATION
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION"`

	// RefreshHashKey is the HMAC key used to hash refresh tokens before they
	// are stored. Falls back to TokenSignKey.
	// Env: APP_REFRESH_HASH_KEY
	RefreshHashKey string `env:"REFRESH_HASH_KEY"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/version/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// AllowPastUnsealingDate disables the future-date check on capsule
	// creation. Meant for imports and local testing.
	// Env: APP_ALLOW_PAST_UNSEALING_DATE
	AllowPastUnsealingDate bool `env:"ALLOW_PAST_UNSEALING_DATE"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// Driver is one of memory, postgres, sqlite, mongo.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DB holds the relational database connection settings, shared by the
	// postgres and sqlite drivers.
	DB DB `envPrefix:"DB_"`

	// Mongo holds the document store settings.
	Mongo Mongo `envPrefix:"MONGO_"`

	// Files configures the media host.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the connection string: a postgres URL for the postgres driver
	// or a file path for the sqlite driver.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
	MaxIdleConns int `env:"MAX_IDLE_CONNS"`

	// SkipMigrations disables goose migrations at connect time.
	// Env: STORAGE_DB_SKIP_MIGRATIONS
	SkipMigrations bool `env:"SKIP_MIGRATIONS"`
}

// Mongo holds connection settings for the MongoDB backend.
type Mongo struct {
	// Env: STORAGE_MONGO_URI
	URI string `env:"URI"`

	// Env: STORAGE_MONGO_DATABASE
	Database string `env:"DATABASE"`

	// Env: STORAGE_MONGO_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"`
}

// Files configures where uploaded media bytes go.
type Files struct {
	// Driver is one of local, s3, cloudinary.
	// Env: STORAGE_FILES_DRIVER
	Driver string `env:"DRIVER"`

	// Dir is the directory used by the local driver.
	// Env: STORAGE_FILES_DIR
	Dir string `env:"DIR"`

	// PublicURL is the externally reachable base URL of this server, used
	// to build local media URLs.
	// Env: STORAGE_FILES_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`

	// MaxUploadSize is the largest accepted upload in bytes.
	// Env: STORAGE_FILES_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`

	S3         S3         `envPrefix:"S3_"`
	Cloudinary Cloudinary `envPrefix:"CLOUDINARY_"`
}

// S3 configures the S3-compatible media host. Credentials come from the
// default AWS chain.
type S3 struct {
	Bucket string `env:"BUCKET"`
	Region string `env:"REGION"`

	// Endpoint overrides the service endpoint (LocalStack, MinIO).
	Endpoint     string `env:"ENDPOINT"`
	UsePathStyle bool   `env:"USE_PATH_STYLE"`

	// PublicURL is the base of object URLs. Defaults to the virtual-hosted
	// bucket URL.
	PublicURL string `env:"PUBLIC_URL"`
}

// Cloudinary configures the Cloudinary-style media API.
type Cloudinary struct {
	CloudName string        `env:"CLOUD_NAME"`
	APIKey    string        `env:"API_KEY"`
	APISecret string        `env:"API_SECRET"`
	BaseURL   string        `env:"BASE_URL"`
	Folder    string        `env:"FOLDER"`
	Timeout   time.Duration `env:"TIMEOUT"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health endpoint.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// CountdownInterval is the push period of the countdown websocket.
	// Env: SERVER_COUNTDOWN_INTERVAL
	CountdownInterval time.Duration `env:"COUNTDOWN_INTERVAL"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// TokenCleanupInterval is how often expired refresh tokens are purged.
	TokenCleanupInterval time.Duration `env:"TOKEN_CLEANUP_INTERVAL"`

	// HealthCheckInterval is how often the store is pinged to drive the
	// gRPC health status.
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Priority, lowest first (last source wins for non-zero
// fields):
//  1. Config file (path resolved from the env and flags)
//  2. Environment variables, after loading the .env file
//  3. Command-line flags registered on fs with [RegisterFlags]
//
// Defaults are applied to fields that are still empty.
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv(fs).
		withEnv().
		withFlags(fs).
		withFile().
		build()
}
